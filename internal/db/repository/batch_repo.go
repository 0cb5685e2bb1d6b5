package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/quizforge/quizforge/internal/batch"
)

type batchStore interface {
	InsertBatch(ctx context.Context, row BatchRow) (BatchRow, error)
	GetBatch(ctx context.Context, batchID pgtype.UUID) (BatchRow, error)
	InsertBatchFiles(ctx context.Context, rows []BatchFileRow) error
	ListBatchFiles(ctx context.Context, batchID pgtype.UUID) ([]BatchFileRow, error)
	InsertConflicts(ctx context.Context, rows []ConflictRow) error
	ListConflicts(ctx context.Context, batchID pgtype.UUID) ([]ConflictRow, error)
}

// BatchRepository records batch runs for auditing: per-file outcomes
// and the conflict log the merge produced.
type BatchRepository struct {
	store batchStore
}

func NewBatchRepository(store batchStore) *BatchRepository {
	return &BatchRepository{store: store}
}

// Record persists a completed batch result linked to the quiz it
// produced, and returns the batch ID.
func (r *BatchRepository) Record(ctx context.Context, quizID string, result batch.Result) (string, error) {
	parsedQuizID, err := parseUUID(quizID)
	if err != nil {
		return "", err
	}

	status := "completed"
	if result.Failed > 0 {
		status = "completed_with_errors"
	}
	row, err := r.store.InsertBatch(ctx, BatchRow{
		BatchID:           pgUUID(uuid.New()),
		QuizID:            parsedQuizID,
		Status:            status,
		TotalFiles:        int32(result.TotalFiles),
		Succeeded:         int32(result.Succeeded),
		Failed:            int32(result.Failed),
		DuplicatesRemoved: int32(result.DuplicatesRemoved),
		ElapsedMS:         result.ElapsedMS,
	})
	if err != nil {
		return "", err
	}

	fileRows := make([]BatchFileRow, 0, len(result.Files))
	for _, fr := range result.Files {
		fileRows = append(fileRows, BatchFileRow{
			BatchID:        row.BatchID,
			Filename:       fr.Filename,
			Success:        fr.Success,
			Error:          fr.Error,
			DetectedFormat: string(fr.Format),
			Confidence:     fr.Confidence,
			QuestionCount:  int32(len(fr.Questions)),
			DurationMS:     fr.DurationMS,
		})
	}
	if len(fileRows) > 0 {
		if err := r.store.InsertBatchFiles(ctx, fileRows); err != nil {
			return "", err
		}
	}

	conflictRows := make([]ConflictRow, 0, len(result.Conflicts))
	for _, c := range result.Conflicts {
		conflictRows = append(conflictRows, ConflictRow{
			BatchID:      row.BatchID,
			QuestionID:   c.QuestionID,
			OriginalText: c.OriginalText,
			NewText:      c.NewText,
			SourceFile:   c.SourceFile,
			ConflictType: string(c.Type),
			Resolution:   string(c.Resolution),
		})
	}
	if len(conflictRows) > 0 {
		if err := r.store.InsertConflicts(ctx, conflictRows); err != nil {
			return "", err
		}
	}

	return uuidString(row.BatchID), nil
}

// BatchSummary is a stored batch with its per-file and conflict detail.
type BatchSummary struct {
	ID                string         `json:"id"`
	QuizID            string         `json:"quizId"`
	Status            string         `json:"status"`
	TotalFiles        int            `json:"totalFiles"`
	Succeeded         int            `json:"succeeded"`
	Failed            int            `json:"failed"`
	DuplicatesRemoved int            `json:"duplicatesRemoved"`
	ElapsedMS         int64          `json:"elapsedMs"`
	Files             []BatchFileRow `json:"-"`
	Conflicts         []ConflictRow  `json:"-"`
}

// Get loads a batch with its file outcomes and conflicts.
func (r *BatchRepository) Get(ctx context.Context, id string) (BatchSummary, error) {
	batchID, err := parseUUID(id)
	if err != nil {
		return BatchSummary{}, err
	}
	row, err := r.store.GetBatch(ctx, batchID)
	if err != nil {
		return BatchSummary{}, err
	}
	files, err := r.store.ListBatchFiles(ctx, batchID)
	if err != nil {
		return BatchSummary{}, err
	}
	conflicts, err := r.store.ListConflicts(ctx, batchID)
	if err != nil {
		return BatchSummary{}, err
	}
	return BatchSummary{
		ID:                uuidString(row.BatchID),
		QuizID:            uuidString(row.QuizID),
		Status:            row.Status,
		TotalFiles:        int(row.TotalFiles),
		Succeeded:         int(row.Succeeded),
		Failed:            int(row.Failed),
		DuplicatesRemoved: int(row.DuplicatesRemoved),
		ElapsedMS:         row.ElapsedMS,
		Files:             files,
		Conflicts:         conflicts,
	}, nil
}
