package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const mcqDoc = `1. What is 2+2?
A) 3
B) 4
C) 5
D) 6
Answer: B
2. Capital of France?
A) London
B) Paris
C) Berlin
D) Madrid
Answer: B`

func TestDetectEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n \n  "} {
		res := Detect(text)
		assert.Equal(t, FormatUnknown, res.Format)
		assert.Zero(t, res.Confidence)
	}
}

func TestDetectMCQ(t *testing.T) {
	res := Detect(mcqDoc)
	assert.Equal(t, FormatMCQ, res.Format)
	assert.Greater(t, res.Confidence, 0.6)
	assert.Contains(t, res.Patterns, "numbered-question")
	assert.Equal(t, 2, res.Stats.QuestionLines)
	assert.Equal(t, 8, res.Stats.OptionLines)
}

func TestDetectTrueFalseMajority(t *testing.T) {
	text := `1. The sky is blue. True/False
2. Go is an interpreted language. True/False
3. Water boils at 100C at sea level. True/False`

	res := Detect(text)
	assert.Equal(t, FormatTrueFalse, res.Format)
	assert.GreaterOrEqual(t, res.Confidence, 0.7)
}

func TestDetectShortAnswer(t *testing.T) {
	text := `1. Explain the difference between a process and a thread.
2. Describe how garbage collection works in Go.
3. What are the trade-offs of microservice architectures?`

	res := Detect(text)
	assert.Equal(t, FormatShortAnswer, res.Format)
	assert.Greater(t, res.Confidence, 0.4)
}

func TestConfidenceNeverExceedsCap(t *testing.T) {
	// A dense, perfectly regular document pushes every strategy to its max.
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("1. What is it?\nA) one\nB) two\nC) three\nD) four\n")
	}
	res := Detect(sb.String())
	assert.LessOrEqual(t, res.Confidence, MaxConfidence)
}

func TestSelectBestTieGoesToEarlierStrategy(t *testing.T) {
	votes := []strategyResult{
		{strategy: "pattern-frequency", format: FormatMCQ, confidence: 0.8},
		{strategy: "template-matching", format: FormatTrueFalse, confidence: 0.8},
	}
	best := selectBest(votes)
	assert.Equal(t, "pattern-frequency", best.strategy)
	assert.Equal(t, FormatMCQ, best.format)
}

func TestSelectBestSkipsUnknownVotes(t *testing.T) {
	votes := []strategyResult{
		{strategy: "pattern-frequency", format: FormatUnknown, confidence: 0.9},
		{strategy: "template-matching", format: FormatMCQ, confidence: 0.3},
	}
	best := selectBest(votes)
	assert.Equal(t, FormatMCQ, best.format)
}

func TestInvalidCustomTemplateIsReportedNotFatal(t *testing.T) {
	res := DetectWithTemplates(mcqDoc, []Template{
		{Name: "broken", Question: `([`, Option: `x`, Answer: `y`},
	})
	assert.Equal(t, FormatMCQ, res.Format, "detection still runs")

	found := false
	for _, issue := range res.Issues {
		if issue.Kind == IssueInvalidTemplate && strings.Contains(issue.Text, "broken") {
			found = true
		}
	}
	assert.True(t, found, "invalid template should surface as an issue")
}

func TestFindIssuesAndCorrections(t *testing.T) {
	text := `1. What is  the capital?de France
2. Name the largest planet`

	res := Detect(text)

	kinds := make(map[string]bool)
	for _, issue := range res.Issues {
		kinds[issue.Kind] = true
	}
	assert.True(t, kinds[IssueDoubleSpace])
	assert.True(t, kinds[IssueRunTogetherPunct])
	assert.True(t, kinds[IssueUnterminated])

	assert.NotEmpty(t, res.Corrections)
	for _, c := range res.Corrections {
		assert.NotEqual(t, c.Original, c.Corrected)
	}
	assert.NotEmpty(t, res.Suggestions)
}
