package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/quiz"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "what is the capital of france", NormalizeText("  What is   the Capital, of France?! "))
	assert.Equal(t, "", NormalizeText("?!,."))
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, Jaccard("alpha beta", "Beta alpha"))
	assert.Equal(t, 0.0, Jaccard("alpha beta", "gamma delta"))
	assert.Equal(t, 0.0, Jaccard("", "alpha"))
	// 4 shared words over a 5-word union.
	assert.InDelta(t, 0.8, Jaccard("alpha beta gamma delta", "alpha beta gamma delta epsilon"), 1e-9)
}

func TestSimilarityBoundaryIsExclusive(t *testing.T) {
	// Jaccard exactly 0.8: NOT similar (strictly greater-than rule).
	atBoundary := []FileQuestions{
		{Filename: "a.txt", Questions: []quiz.Question{q("1", "alpha beta gamma delta")}},
		{Filename: "b.txt", Questions: []quiz.Question{q("2", "alpha beta gamma delta epsilon")}},
	}
	out, err := Merge(StrategySmartMerge, atBoundary, Options{})
	require.NoError(t, err)
	assert.Len(t, out.Questions, 2)
	assert.Empty(t, out.Conflicts)

	// Jaccard 5/6 ≈ 0.833: similar.
	aboveBoundary := []FileQuestions{
		{Filename: "a.txt", Questions: []quiz.Question{q("1", "alpha beta gamma delta epsilon")}},
		{Filename: "b.txt", Questions: []quiz.Question{q("2", "alpha beta gamma delta epsilon zeta")}},
	}
	out, err = Merge(StrategySmartMerge, aboveBoundary, Options{})
	require.NoError(t, err)
	assert.Len(t, out.Questions, 1)
	require.Len(t, out.Conflicts, 1)
	assert.Equal(t, ConflictSimilar, out.Conflicts[0].Type)
}

func TestSimilarityThresholdOverride(t *testing.T) {
	files := []FileQuestions{
		{Filename: "a.txt", Questions: []quiz.Question{q("1", "alpha beta gamma delta")}},
		{Filename: "b.txt", Questions: []quiz.Question{q("2", "alpha beta gamma delta epsilon")}},
	}
	out, err := Merge(StrategySmartMerge, files, Options{SimilarityThreshold: 0.7})
	require.NoError(t, err)
	assert.Len(t, out.Questions, 1, "0.8 similarity exceeds the lowered threshold")
}
