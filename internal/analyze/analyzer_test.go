package analyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizforge/quizforge/internal/quiz"
)

func mcq(text string, options ...string) quiz.Question {
	return quiz.Question{Text: text, Type: quiz.TypeMultipleChoice, Options: options, CorrectAnswer: options[0], Points: 1}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	q := mcq("What is the capital of France?", "Paris", "London", "Berlin", "Madrid")
	first := Analyze(q)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Analyze(q))
	}
}

func TestScoresStayInRange(t *testing.T) {
	cases := []quiz.Question{
		mcq("What?", "a", "b"),
		mcq(strings.Repeat("very long question text ", 30), "short", strings.Repeat("x", 120)),
		{Text: "", Type: quiz.TypeShortAnswer},
		mcq("Explain stuff and things and something somehow whatever.", "a", "b", "c", "d"),
	}
	for _, q := range cases {
		a := Analyze(q)
		assert.GreaterOrEqual(t, a.Score, 0)
		assert.LessOrEqual(t, a.Score, 100)
		assert.GreaterOrEqual(t, a.Readability, 0.0)
		assert.LessOrEqual(t, a.Readability, 100.0)
		assert.GreaterOrEqual(t, a.Clarity, 0.0)
		assert.LessOrEqual(t, a.Clarity, 100.0)
		assert.GreaterOrEqual(t, a.OptionBalance, 0.0)
		assert.LessOrEqual(t, a.OptionBalance, 100.0)
	}
}

func TestOptionBalance(t *testing.T) {
	even := optionBalance([]string{"aaaa", "bbbb", "cccc", "dddd"})
	assert.Equal(t, 100.0, even, "equal lengths with four options hit the cap")

	uneven := optionBalance([]string{"a", strings.Repeat("b", 80)})
	assert.Less(t, uneven, even)

	assert.Equal(t, 0.0, optionBalance(nil))
}

func TestClarityPenaltiesAndBonuses(t *testing.T) {
	vague := clarity("What is the thing with the stuff and something?")
	plain := clarity("What is the capital city of France exactly now?")
	assert.Less(t, vague, plain)

	connected := clarity("Why does water boil, because pressure drops, although slowly?")
	assert.Greater(t, connected, vague)

	tiny := clarity("Why?")
	assert.LessOrEqual(t, tiny, 70.0, "under-10-char text takes the -30 penalty")

	long := clarity(strings.Repeat("word ", 70))
	assert.LessOrEqual(t, long, 60.0, "over-300-char text takes both length penalties")
}

func TestClassifyDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyEasy, classifyDifficulty("What is the name of the capital?"))
	assert.Equal(t, DifficultyMedium, classifyDifficulty("Explain how the scheduler works"))
	assert.Equal(t, DifficultyHard, classifyDifficulty("Evaluate and critique the design"))
	// Tie between easy and hard keyword counts favors hard.
	assert.Equal(t, DifficultyHard, classifyDifficulty("What should you evaluate?"))
	// No keywords at all defaults to medium.
	assert.Equal(t, DifficultyMedium, classifyDifficulty("gravity pulls objects down"))
}

func TestClassifyCategory(t *testing.T) {
	assert.Equal(t, CategoryFactual, classifyCategory("What is the capital?"))
	assert.Equal(t, CategoryEvaluative, classifyCategory("Critique and judge this argument"))
	assert.Equal(t, CategorySynthesis, classifyCategory("Design and construct a cache"))
	assert.Equal(t, CategoryFactual, classifyCategory("no keywords here at all"))
}

func TestAnalyzeQuizFlagsSkewAndDiversity(t *testing.T) {
	questions := []quiz.Question{
		mcq("What is the name of this?", "a1", "b1", "c1", "d1"),
		mcq("Who is the state leader? Identify them.", "a2", "b2", "c2", "d2"),
		mcq("When did it happen? List the dates.", "a3", "b3", "c3", "d3"),
	}
	_, report := AnalyzeQuiz(questions)

	assert.Contains(t, report.Flags, "difficulty skew: most questions are easy")
	assert.Contains(t, report.Flags, "low category diversity")
	assert.Equal(t, 3, report.DifficultyCount[DifficultyEasy])
}

func TestAnalyzeQuizEmpty(t *testing.T) {
	analyses, report := AnalyzeQuiz(nil)
	assert.Empty(t, analyses)
	assert.Empty(t, report.Flags)
}
