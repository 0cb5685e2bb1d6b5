package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/quizforge/quizforge/internal/quiz"
)

type quizStore interface {
	InsertQuiz(ctx context.Context, row QuizRow) (QuizRow, error)
	GetQuiz(ctx context.Context, quizID pgtype.UUID) (QuizRow, error)
	ListQuizzes(ctx context.Context, limit int32) ([]QuizRow, error)
	DeleteQuiz(ctx context.Context, quizID pgtype.UUID) error
	ReplaceQuestions(ctx context.Context, quizID pgtype.UUID, questions []QuestionRow) error
	GetQuestionsByQuiz(ctx context.Context, quizID pgtype.UUID) ([]QuestionRow, error)
}

// QuizRepository persists quizzes and their question sets.
type QuizRepository struct {
	store quizStore
}

func NewQuizRepository(store quizStore) *QuizRepository {
	return &QuizRepository{store: store}
}

// StoredQuiz is a quiz with its database identity.
type StoredQuiz struct {
	ID   string    `json:"id"`
	Quiz quiz.Quiz `json:"quiz"`
}

// Create stores a new quiz with its questions and returns the assigned ID.
func (r *QuizRepository) Create(ctx context.Context, q quiz.Quiz) (StoredQuiz, error) {
	quizID := pgUUID(uuid.New())
	row, err := r.store.InsertQuiz(ctx, QuizRow{
		QuizID:      quizID,
		Title:       q.Title,
		Description: q.Description,
		Subject:     q.Subject,
	})
	if err != nil {
		return StoredQuiz{}, err
	}
	if err := r.store.ReplaceQuestions(ctx, quizID, toQuestionRows(quizID, q.Questions)); err != nil {
		return StoredQuiz{}, err
	}
	return StoredQuiz{ID: uuidString(row.QuizID), Quiz: q}, nil
}

// Get loads a quiz and its questions in stored order.
func (r *QuizRepository) Get(ctx context.Context, id string) (StoredQuiz, error) {
	quizID, err := parseUUID(id)
	if err != nil {
		return StoredQuiz{}, err
	}
	row, err := r.store.GetQuiz(ctx, quizID)
	if err != nil {
		return StoredQuiz{}, err
	}
	questionRows, err := r.store.GetQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return StoredQuiz{}, err
	}
	return StoredQuiz{ID: uuidString(row.QuizID), Quiz: toDomainQuiz(row, questionRows)}, nil
}

// List returns quiz metadata, newest first, without question bodies.
func (r *QuizRepository) List(ctx context.Context, limit int32) ([]StoredQuiz, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.store.ListQuizzes(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]StoredQuiz, 0, len(rows))
	for _, row := range rows {
		out = append(out, StoredQuiz{ID: uuidString(row.QuizID), Quiz: toDomainQuiz(row, nil)})
	}
	return out, nil
}

// Update overwrites a quiz's question set.
func (r *QuizRepository) Update(ctx context.Context, id string, questions []quiz.Question) error {
	quizID, err := parseUUID(id)
	if err != nil {
		return err
	}
	return r.store.ReplaceQuestions(ctx, quizID, toQuestionRows(quizID, questions))
}

// Delete removes a quiz; questions cascade.
func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	quizID, err := parseUUID(id)
	if err != nil {
		return err
	}
	return r.store.DeleteQuiz(ctx, quizID)
}

func toQuestionRows(quizID pgtype.UUID, questions []quiz.Question) []QuestionRow {
	rows := make([]QuestionRow, 0, len(questions))
	for i, q := range questions {
		questionID := q.ID
		if _, err := uuid.Parse(questionID); err != nil {
			questionID = uuid.NewString()
		}
		rows = append(rows, QuestionRow{
			QuestionID:    mustParseUUID(questionID),
			QuizID:        quizID,
			Position:      int32(i),
			Text:          q.Text,
			Type:          q.Type,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        int32(q.Points),
		})
	}
	return rows
}

func toDomainQuiz(row QuizRow, questionRows []QuestionRow) quiz.Quiz {
	q := quiz.Quiz{
		Title:       row.Title,
		Description: row.Description,
		Subject:     row.Subject,
	}
	for _, qr := range questionRows {
		q.Questions = append(q.Questions, quiz.Question{
			ID:            uuidString(qr.QuestionID),
			Text:          qr.Text,
			Type:          qr.Type,
			Options:       qr.Options,
			CorrectAnswer: qr.CorrectAnswer,
			Points:        int(qr.Points),
		})
	}
	return q
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func parseUUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgUUID(parsed), nil
}

func mustParseUUID(id string) pgtype.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgUUID(uuid.New())
	}
	return pgUUID(parsed)
}

func uuidString(id pgtype.UUID) string {
	u, err := uuid.FromBytes(id.Bytes[:])
	if err != nil {
		return ""
	}
	return u.String()
}
