package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuizRow mirrors the quizzes table.
type QuizRow struct {
	QuizID      pgtype.UUID
	Title       string
	Description string
	Subject     string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

// QuestionRow mirrors the questions table. Position preserves upload
// order within a quiz.
type QuestionRow struct {
	QuestionID    pgtype.UUID
	QuizID        pgtype.UUID
	Position      int32
	Text          string
	Type          string
	Options       []string
	CorrectAnswer string
	Points        int32
}

// BatchRow mirrors the batches table.
type BatchRow struct {
	BatchID           pgtype.UUID
	QuizID            pgtype.UUID
	Status            string
	TotalFiles        int32
	Succeeded         int32
	Failed            int32
	DuplicatesRemoved int32
	ElapsedMS         int64
	CreatedAt         pgtype.Timestamptz
}

// BatchFileRow mirrors the batch_files table.
type BatchFileRow struct {
	BatchID        pgtype.UUID
	Filename       string
	Success        bool
	Error          string
	DetectedFormat string
	Confidence     float64
	QuestionCount  int32
	DurationMS     int64
}

// ConflictRow mirrors the merge_conflicts table.
type ConflictRow struct {
	BatchID      pgtype.UUID
	QuestionID   string
	OriginalText string
	NewText      string
	SourceFile   string
	ConflictType string
	Resolution   string
}

// Store runs the SQL behind the repositories on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) InsertQuiz(ctx context.Context, row QuizRow) (QuizRow, error) {
	const q = `
		INSERT INTO quizzes (quiz_id, title, description, subject)
		VALUES ($1, $2, $3, $4)
		RETURNING quiz_id, title, description, subject, created_at, updated_at`
	var out QuizRow
	err := s.pool.QueryRow(ctx, q, row.QuizID, row.Title, row.Description, row.Subject).
		Scan(&out.QuizID, &out.Title, &out.Description, &out.Subject, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return QuizRow{}, fmt.Errorf("insert quiz: %w", err)
	}
	return out, nil
}

func (s *Store) GetQuiz(ctx context.Context, quizID pgtype.UUID) (QuizRow, error) {
	const q = `
		SELECT quiz_id, title, description, subject, created_at, updated_at
		FROM quizzes WHERE quiz_id = $1`
	var out QuizRow
	err := s.pool.QueryRow(ctx, q, quizID).
		Scan(&out.QuizID, &out.Title, &out.Description, &out.Subject, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return QuizRow{}, fmt.Errorf("get quiz: %w", err)
	}
	return out, nil
}

func (s *Store) ListQuizzes(ctx context.Context, limit int32) ([]QuizRow, error) {
	const q = `
		SELECT quiz_id, title, description, subject, created_at, updated_at
		FROM quizzes ORDER BY created_at DESC LIMIT $1`
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizRow
	for rows.Next() {
		var row QuizRow
		if err := rows.Scan(&row.QuizID, &row.Title, &row.Description, &row.Subject, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) DeleteQuiz(ctx context.Context, quizID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE quiz_id = $1`, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

// ReplaceQuestions swaps a quiz's question set atomically.
func (s *Store) ReplaceQuestions(ctx context.Context, quizID pgtype.UUID, questions []QuestionRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	const q = `
		INSERT INTO questions (question_id, quiz_id, position, text, type, options, correct_answer, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	batch := &pgx.Batch{}
	for _, row := range questions {
		batch.Queue(q, row.QuestionID, quizID, row.Position, row.Text, row.Type, row.Options, row.CorrectAnswer, row.Points)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE quizzes SET updated_at = now() WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("touch quiz: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Store) GetQuestionsByQuiz(ctx context.Context, quizID pgtype.UUID) ([]QuestionRow, error) {
	const q = `
		SELECT question_id, quiz_id, position, text, type, options, correct_answer, points
		FROM questions WHERE quiz_id = $1 ORDER BY position`
	rows, err := s.pool.Query(ctx, q, quizID)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionRow
	for rows.Next() {
		var row QuestionRow
		if err := rows.Scan(&row.QuestionID, &row.QuizID, &row.Position, &row.Text, &row.Type, &row.Options, &row.CorrectAnswer, &row.Points); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) InsertBatch(ctx context.Context, row BatchRow) (BatchRow, error) {
	const q = `
		INSERT INTO batches (batch_id, quiz_id, status, total_files, succeeded, failed, duplicates_removed, elapsed_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING batch_id, quiz_id, status, total_files, succeeded, failed, duplicates_removed, elapsed_ms, created_at`
	var out BatchRow
	err := s.pool.QueryRow(ctx, q, row.BatchID, row.QuizID, row.Status, row.TotalFiles, row.Succeeded, row.Failed, row.DuplicatesRemoved, row.ElapsedMS).
		Scan(&out.BatchID, &out.QuizID, &out.Status, &out.TotalFiles, &out.Succeeded, &out.Failed, &out.DuplicatesRemoved, &out.ElapsedMS, &out.CreatedAt)
	if err != nil {
		return BatchRow{}, fmt.Errorf("insert batch: %w", err)
	}
	return out, nil
}

func (s *Store) GetBatch(ctx context.Context, batchID pgtype.UUID) (BatchRow, error) {
	const q = `
		SELECT batch_id, quiz_id, status, total_files, succeeded, failed, duplicates_removed, elapsed_ms, created_at
		FROM batches WHERE batch_id = $1`
	var out BatchRow
	err := s.pool.QueryRow(ctx, q, batchID).
		Scan(&out.BatchID, &out.QuizID, &out.Status, &out.TotalFiles, &out.Succeeded, &out.Failed, &out.DuplicatesRemoved, &out.ElapsedMS, &out.CreatedAt)
	if err != nil {
		return BatchRow{}, fmt.Errorf("get batch: %w", err)
	}
	return out, nil
}

func (s *Store) InsertBatchFiles(ctx context.Context, rows []BatchFileRow) error {
	const q = `
		INSERT INTO batch_files (batch_id, filename, success, error, detected_format, confidence, question_count, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(q, row.BatchID, row.Filename, row.Success, row.Error, row.DetectedFormat, row.Confidence, row.QuestionCount, row.DurationMS)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert batch files: %w", err)
	}
	return nil
}

func (s *Store) ListBatchFiles(ctx context.Context, batchID pgtype.UUID) ([]BatchFileRow, error) {
	const q = `
		SELECT batch_id, filename, success, error, detected_format, confidence, question_count, duration_ms
		FROM batch_files WHERE batch_id = $1 ORDER BY filename`
	rows, err := s.pool.Query(ctx, q, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch files: %w", err)
	}
	defer rows.Close()

	var out []BatchFileRow
	for rows.Next() {
		var row BatchFileRow
		if err := rows.Scan(&row.BatchID, &row.Filename, &row.Success, &row.Error, &row.DetectedFormat, &row.Confidence, &row.QuestionCount, &row.DurationMS); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) InsertConflicts(ctx context.Context, rows []ConflictRow) error {
	const q = `
		INSERT INTO merge_conflicts (batch_id, question_id, original_text, new_text, source_file, conflict_type, resolution)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(q, row.BatchID, row.QuestionID, row.OriginalText, row.NewText, row.SourceFile, row.ConflictType, row.Resolution)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert conflicts: %w", err)
	}
	return nil
}

func (s *Store) ListConflicts(ctx context.Context, batchID pgtype.UUID) ([]ConflictRow, error) {
	const q = `
		SELECT batch_id, question_id, original_text, new_text, source_file, conflict_type, resolution
		FROM merge_conflicts WHERE batch_id = $1`
	rows, err := s.pool.Query(ctx, q, batchID)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	defer rows.Close()

	var out []ConflictRow
	for rows.Next() {
		var row ConflictRow
		if err := rows.Scan(&row.BatchID, &row.QuestionID, &row.OriginalText, &row.NewText, &row.SourceFile, &row.ConflictType, &row.Resolution); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
