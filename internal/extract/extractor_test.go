package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/quiz"
)

func TestExtractInlineMCQ(t *testing.T) {
	qs, errs := New(Options{}).Extract("1. What is 2+2? A) 3 B) 4 C) 5 D) 6 Answer: B", detect.FormatMCQ)
	require.Len(t, qs, 1)
	assert.Empty(t, errs)

	q := qs[0]
	assert.Equal(t, "What is 2+2?", q.Text)
	assert.Equal(t, quiz.TypeMultipleChoice, q.Type)
	assert.Equal(t, []string{"3", "4", "5", "6"}, q.Options)
	assert.Equal(t, "4", q.CorrectAnswer)
	assert.Equal(t, quiz.DefaultPoints, q.Points)
	assert.NotEmpty(t, q.ID)
}

func TestExtractMultilineDocument(t *testing.T) {
	text := `1. Capital of France?
A) London
B) Paris
C) Berlin
D) Madrid
Answer: B
2. Largest planet in the solar system?
A) Earth
B) Mars
C) Jupiter
D) Venus
Answer: C`

	qs, errs := New(Options{}).Extract(text, detect.FormatMCQ)
	require.Len(t, qs, 2)
	assert.Empty(t, errs)
	assert.Equal(t, "Paris", qs[0].CorrectAnswer)
	assert.Equal(t, "Jupiter", qs[1].CorrectAnswer)
	assert.Equal(t, "Largest planet in the solar system?", qs[1].Text)
}

func TestExtractPadsShortOptionLists(t *testing.T) {
	qs, _ := New(Options{}).Extract("1. Is water wet or dry in common usage? A) wet B) dry Answer: A", detect.FormatMCQ)
	require.Len(t, qs, 1)

	q := qs[0]
	require.Len(t, q.Options, 4)
	assert.Equal(t, "wet", q.Options[0])
	assert.Equal(t, "dry", q.Options[1])
	assert.Equal(t, "Option C", q.Options[2])
	assert.Equal(t, "Option D", q.Options[3])
	assert.Equal(t, "wet", q.CorrectAnswer, "answer among the original two survives padding")
}

func TestExtractOptionCountOverride(t *testing.T) {
	qs, _ := New(Options{ExpectedOptionCount: 2}).Extract(
		"1. Is water wet or dry in common usage? A) wet B) dry Answer: B", detect.FormatMCQ)
	require.Len(t, qs, 1)
	assert.Equal(t, []string{"wet", "dry"}, qs[0].Options)
}

func TestExtractUnresolvedAnswerDefaultsToFirstOption(t *testing.T) {
	qs, errs := New(Options{}).Extract(
		"1. Pick the best option for this question? A) alpha B) beta C) gamma D) delta", detect.FormatMCQ)
	require.Len(t, qs, 1)
	assert.Equal(t, "alpha", qs[0].CorrectAnswer)
	assert.NotEmpty(t, errs, "unresolved answer should be flagged")
}

func TestExtractStarMarkedOption(t *testing.T) {
	qs, _ := New(Options{}).Extract(
		"1. Which language has goroutines? A) Java *B) Go C) Python D) Ruby", detect.FormatMCQ)
	require.Len(t, qs, 1)
	assert.Equal(t, "Go", qs[0].CorrectAnswer)
	assert.Equal(t, []string{"Java", "Go", "Python", "Ruby"}, qs[0].Options)
}

func TestExtractTrueFalseStatements(t *testing.T) {
	text := `1. The Go compiler produces native binaries. True/False Answer: True
2. Go programs require a virtual machine to run. True/False Answer: False`

	qs, errs := New(Options{}).Extract(text, detect.FormatTrueFalse)
	require.Len(t, qs, 2)
	assert.Empty(t, errs)

	assert.Equal(t, quiz.TypeTrueFalse, qs[0].Type)
	assert.Equal(t, []string{"True", "False"}, qs[0].Options)
	assert.Equal(t, "True", qs[0].CorrectAnswer)
	assert.Equal(t, "The Go compiler produces native binaries.", qs[0].Text)
	assert.Equal(t, "False", qs[1].CorrectAnswer)
}

func TestExtractShortAnswerQuestions(t *testing.T) {
	text := `1. Explain the difference between a slice and an array in Go.
2. Describe what the select statement does.`

	qs, _ := New(Options{}).Extract(text, detect.FormatShortAnswer)
	require.Len(t, qs, 2)
	assert.Equal(t, quiz.TypeShortAnswer, qs[0].Type)
	assert.Empty(t, qs[0].Options)
	assert.Empty(t, qs[0].CorrectAnswer)
}

func TestExtractFallbackSynthesisGuarantee(t *testing.T) {
	text := "Photosynthesis converts light energy into chemical energy. " +
		"Plants absorb carbon dioxide through their stomata. " +
		"Oxygen is released as a byproduct of the process. " +
		"Chlorophyll gives leaves their green color."

	qs, errs := New(Options{}).Extract(text, detect.FormatUnknown)
	require.NotEmpty(t, qs)
	for _, q := range qs {
		assert.NotEmpty(t, q.Text)
		assert.Equal(t, quiz.TypeShortAnswer, q.Type)
		assert.Empty(t, q.CorrectAnswer)
	}
	assert.NotEmpty(t, errs, "synthesized questions are marked low confidence")
}

func TestExtractFallbackOnTinyText(t *testing.T) {
	qs, _ := New(Options{}).Extract("just a few words", detect.FormatUnknown)
	require.Len(t, qs, 1)
	assert.NotEmpty(t, qs[0].Text)
}

func TestExtractEmptyInput(t *testing.T) {
	qs, errs := New(Options{}).Extract("   ", detect.FormatUnknown)
	assert.Empty(t, qs)
	assert.Empty(t, errs)
}

func TestIndexFromTokenClamping(t *testing.T) {
	idx, ok := indexFromToken("H", 4)
	require.True(t, ok)
	assert.Equal(t, 3, idx, "out-of-range letter clamps to last option")

	idx, ok = indexFromToken("2", 4)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = indexFromToken("Paris", 4)
	assert.False(t, ok)
}
