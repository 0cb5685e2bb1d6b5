package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/quiz"
)

type mockQuizStore struct {
	mock.Mock
}

func (m *mockQuizStore) InsertQuiz(ctx context.Context, row QuizRow) (QuizRow, error) {
	args := m.Called(ctx, row)
	return args.Get(0).(QuizRow), args.Error(1)
}

func (m *mockQuizStore) GetQuiz(ctx context.Context, quizID pgtype.UUID) (QuizRow, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(QuizRow), args.Error(1)
}

func (m *mockQuizStore) ListQuizzes(ctx context.Context, limit int32) ([]QuizRow, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]QuizRow), args.Error(1)
}

func (m *mockQuizStore) DeleteQuiz(ctx context.Context, quizID pgtype.UUID) error {
	return m.Called(ctx, quizID).Error(0)
}

func (m *mockQuizStore) ReplaceQuestions(ctx context.Context, quizID pgtype.UUID, questions []QuestionRow) error {
	return m.Called(ctx, quizID, questions).Error(0)
}

func (m *mockQuizStore) GetQuestionsByQuiz(ctx context.Context, quizID pgtype.UUID) ([]QuestionRow, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]QuestionRow), args.Error(1)
}

func TestQuizRepository_Create(t *testing.T) {
	store := new(mockQuizStore)
	repo := NewQuizRepository(store)

	q := quiz.Quiz{
		Title:   "Biology Basics",
		Subject: "Biology",
		Questions: []quiz.Question{
			{ID: uuid.NewString(), Text: "What is a cell?", Type: quiz.TypeShortAnswer, Points: 1},
		},
	}

	store.On("InsertQuiz", mock.Anything, mock.MatchedBy(func(row QuizRow) bool {
		return row.Title == "Biology Basics" && row.Subject == "Biology" && row.QuizID.Valid
	})).Return(QuizRow{QuizID: pgUUID(uuid.New()), Title: "Biology Basics", Subject: "Biology"}, nil)
	store.On("ReplaceQuestions", mock.Anything, mock.Anything, mock.MatchedBy(func(rows []QuestionRow) bool {
		return len(rows) == 1 && rows[0].Text == "What is a cell?" && rows[0].Position == 0
	})).Return(nil)

	stored, err := repo.Create(context.Background(), q)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, q, stored.Quiz)
	store.AssertExpectations(t)
}

func TestQuizRepository_GetAssemblesQuestions(t *testing.T) {
	store := new(mockQuizStore)
	repo := NewQuizRepository(store)

	id := uuid.New()
	questionID := uuid.New()
	store.On("GetQuiz", mock.Anything, pgUUID(id)).
		Return(QuizRow{QuizID: pgUUID(id), Title: "History"}, nil)
	store.On("GetQuestionsByQuiz", mock.Anything, pgUUID(id)).
		Return([]QuestionRow{{
			QuestionID:    pgUUID(questionID),
			Position:      0,
			Text:          "When did WW2 end?",
			Type:          quiz.TypeShortAnswer,
			CorrectAnswer: "1945",
			Points:        1,
		}}, nil)

	stored, err := repo.Get(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "History", stored.Quiz.Title)
	require.Len(t, stored.Quiz.Questions, 1)
	assert.Equal(t, questionID.String(), stored.Quiz.Questions[0].ID)
	assert.Equal(t, "1945", stored.Quiz.Questions[0].CorrectAnswer)
}

func TestQuizRepository_GetRejectsBadID(t *testing.T) {
	repo := NewQuizRepository(new(mockQuizStore))
	_, err := repo.Get(context.Background(), "not-a-uuid")
	require.Error(t, err)
}

func TestQuizRepository_CreateRegeneratesInvalidQuestionIDs(t *testing.T) {
	store := new(mockQuizStore)
	repo := NewQuizRepository(store)

	store.On("InsertQuiz", mock.Anything, mock.Anything).
		Return(QuizRow{QuizID: pgUUID(uuid.New())}, nil)
	store.On("ReplaceQuestions", mock.Anything, mock.Anything, mock.MatchedBy(func(rows []QuestionRow) bool {
		return len(rows) == 1 && rows[0].QuestionID.Valid
	})).Return(nil)

	_, err := repo.Create(context.Background(), quiz.Quiz{
		Questions: []quiz.Question{{ID: "q-1", Text: "x", Type: quiz.TypeShortAnswer}},
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}
