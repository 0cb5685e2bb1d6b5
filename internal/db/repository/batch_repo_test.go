package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/merge"
)

type mockBatchStore struct {
	mock.Mock
}

func (m *mockBatchStore) InsertBatch(ctx context.Context, row BatchRow) (BatchRow, error) {
	args := m.Called(ctx, row)
	return args.Get(0).(BatchRow), args.Error(1)
}

func (m *mockBatchStore) GetBatch(ctx context.Context, batchID pgtype.UUID) (BatchRow, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(BatchRow), args.Error(1)
}

func (m *mockBatchStore) InsertBatchFiles(ctx context.Context, rows []BatchFileRow) error {
	return m.Called(ctx, rows).Error(0)
}

func (m *mockBatchStore) ListBatchFiles(ctx context.Context, batchID pgtype.UUID) ([]BatchFileRow, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).([]BatchFileRow), args.Error(1)
}

func (m *mockBatchStore) InsertConflicts(ctx context.Context, rows []ConflictRow) error {
	return m.Called(ctx, rows).Error(0)
}

func (m *mockBatchStore) ListConflicts(ctx context.Context, batchID pgtype.UUID) ([]ConflictRow, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).([]ConflictRow), args.Error(1)
}

func TestBatchRepository_Record(t *testing.T) {
	store := new(mockBatchStore)
	repo := NewBatchRepository(store)

	quizID := uuid.New()
	result := batch.Result{
		TotalFiles: 2,
		Succeeded:  1,
		Failed:     1,
		Files: []batch.FileResult{
			{Filename: "a.txt", Success: true, Format: detect.FormatMCQ, Confidence: 0.9},
			{Filename: "b.pdf", Success: false, Error: "document contains no text"},
		},
		Conflicts: []merge.Conflict{{
			QuestionID: "q-1",
			SourceFile: "a.txt",
			Type:       merge.ConflictDuplicate,
			Resolution: merge.ResolutionSkip,
		}},
	}

	store.On("InsertBatch", mock.Anything, mock.MatchedBy(func(row BatchRow) bool {
		return row.Status == "completed_with_errors" && row.TotalFiles == 2
	})).Return(BatchRow{BatchID: pgUUID(uuid.New()), QuizID: pgUUID(quizID)}, nil)
	store.On("InsertBatchFiles", mock.Anything, mock.MatchedBy(func(rows []BatchFileRow) bool {
		return len(rows) == 2 && rows[0].Filename == "a.txt" && !rows[1].Success
	})).Return(nil)
	store.On("InsertConflicts", mock.Anything, mock.MatchedBy(func(rows []ConflictRow) bool {
		return len(rows) == 1 && rows[0].ConflictType == string(merge.ConflictDuplicate)
	})).Return(nil)

	id, err := repo.Record(context.Background(), quizID.String(), result)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	store.AssertExpectations(t)
}

func TestBatchRepository_RecordCleanRunSkipsConflictInsert(t *testing.T) {
	store := new(mockBatchStore)
	repo := NewBatchRepository(store)

	store.On("InsertBatch", mock.Anything, mock.MatchedBy(func(row BatchRow) bool {
		return row.Status == "completed"
	})).Return(BatchRow{BatchID: pgUUID(uuid.New())}, nil)
	store.On("InsertBatchFiles", mock.Anything, mock.Anything).Return(nil)

	_, err := repo.Record(context.Background(), uuid.NewString(), batch.Result{
		TotalFiles: 1,
		Succeeded:  1,
		Files:      []batch.FileResult{{Filename: "a.txt", Success: true}},
	})
	require.NoError(t, err)
	store.AssertNotCalled(t, "InsertConflicts", mock.Anything, mock.Anything)
}

func TestBatchRepository_Get(t *testing.T) {
	store := new(mockBatchStore)
	repo := NewBatchRepository(store)

	batchID := uuid.New()
	store.On("GetBatch", mock.Anything, pgUUID(batchID)).
		Return(BatchRow{BatchID: pgUUID(batchID), Status: "completed", TotalFiles: 1, Succeeded: 1}, nil)
	store.On("ListBatchFiles", mock.Anything, pgUUID(batchID)).
		Return([]BatchFileRow{{Filename: "a.txt", Success: true}}, nil)
	store.On("ListConflicts", mock.Anything, pgUUID(batchID)).
		Return([]ConflictRow{}, nil)

	summary, err := repo.Get(context.Background(), batchID.String())
	require.NoError(t, err)
	assert.Equal(t, batchID.String(), summary.ID)
	assert.Equal(t, "completed", summary.Status)
	require.Len(t, summary.Files, 1)
}
