package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/quiz"
)

func sampleQuiz() quiz.Quiz {
	return quiz.Quiz{
		Title:       "Basic Arithmetic",
		Description: "A short warm-up quiz.",
		Subject:     "Mathematics",
		Questions: []quiz.Question{
			{
				ID:            "q-1",
				Text:          "What is 2+2?",
				Type:          quiz.TypeMultipleChoice,
				Options:       []string{"3", "4", "5", "6"},
				CorrectAnswer: "4",
				Points:        1,
			},
			{
				ID:            "q-2",
				Text:          "The sum of two even numbers is even.",
				Type:          quiz.TypeTrueFalse,
				Options:       []string{"True", "False"},
				CorrectAnswer: "True",
				Points:        2,
			},
		},
	}
}

func TestExportJSONRoundTripIsStable(t *testing.T) {
	opts := Options{Format: FormatJSON, IncludeMetadata: true, IncludeAnswers: true, IncludePoints: true}

	first, err := Export(sampleQuiz(), opts)
	require.NoError(t, err)

	parsed, err := ParseJSON(first.Content)
	require.NoError(t, err)

	second, err := Export(parsed, opts)
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
}

func TestExportJSONGatesFields(t *testing.T) {
	art, err := Export(sampleQuiz(), Options{Format: FormatJSON})
	require.NoError(t, err)

	body := string(art.Content)
	assert.NotContains(t, body, "correctAnswer")
	assert.NotContains(t, body, "points")
	assert.NotContains(t, body, "Basic Arithmetic")
	assert.Contains(t, body, "What is 2+2?")
}

func TestExportCSVDoublesQuotes(t *testing.T) {
	q := quiz.Quiz{
		Title: "Quoting",
		Questions: []quiz.Question{{
			ID:            "q-1",
			Text:          `He said "hello", then left.`,
			Type:          quiz.TypeShortAnswer,
			CorrectAnswer: "greeting",
			Points:        1,
		}},
	}

	art, err := Export(q, Options{Format: FormatCSV, IncludeAnswers: true})
	require.NoError(t, err)

	body := string(art.Content)
	assert.Contains(t, body, `"He said ""hello"", then left."`)
	assert.Contains(t, body, "correctAnswer")
}

func TestExportCSVPadsOptionColumns(t *testing.T) {
	q := sampleQuiz()
	art, err := Export(q, Options{Format: FormatCSV, IncludeAnswers: true, IncludePoints: true})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(art.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "number,text,type,optionA,optionB,optionC,optionD,correctAnswer,points", lines[0])

	// The true/false question has two options and gets empty cells for
	// the remaining columns.
	assert.Contains(t, lines[2], "True,False,,")
}

func TestExportTextLayout(t *testing.T) {
	art, err := Export(sampleQuiz(), Options{
		Format:          FormatTXT,
		IncludeMetadata: true,
		IncludeAnswers:  true,
		IncludePoints:   true,
	})
	require.NoError(t, err)

	body := string(art.Content)
	assert.Contains(t, body, "Basic Arithmetic\n")
	assert.Contains(t, body, "Subject: Mathematics")
	assert.Contains(t, body, "1. What is 2+2? (1 pt)")
	assert.Contains(t, body, "A) 3")
	assert.Contains(t, body, "B) 4")
	assert.Contains(t, body, "Answer: 4")
}

func TestExportHTMLIsCompleteDocument(t *testing.T) {
	art, err := Export(sampleQuiz(), Options{Format: FormatHTML, IncludeMetadata: true, IncludeAnswers: true})
	require.NoError(t, err)

	body := string(art.Content)
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.Contains(t, body, "<style>")
	assert.Contains(t, body, "<h1>Basic Arithmetic</h1>")
	assert.Contains(t, body, "</html>")
	assert.Equal(t, "text/html", art.MIMEType)
}

func TestExportHTMLEscapesContent(t *testing.T) {
	q := quiz.Quiz{
		Title:     "Escaping",
		Questions: []quiz.Question{{ID: "q-1", Text: "Is <b>bold</b> & safe?", Type: quiz.TypeShortAnswer, Points: 1}},
	}
	art, err := Export(q, Options{Format: FormatHTML})
	require.NoError(t, err)

	body := string(art.Content)
	assert.Contains(t, body, "Is &lt;b&gt;bold&lt;/b&gt; &amp; safe?")
	assert.NotContains(t, body, "<b>bold</b>")
}

func TestExportMarkdown(t *testing.T) {
	art, err := Export(sampleQuiz(), Options{Format: FormatMarkdown, IncludeMetadata: true, IncludeAnswers: true})
	require.NoError(t, err)

	body := string(art.Content)
	assert.Contains(t, body, "# Basic Arithmetic")
	assert.Contains(t, body, "**1.** What is 2+2?")
	assert.Contains(t, body, "- A) 3")
	assert.Contains(t, body, "**Answer:** 4")
	assert.Equal(t, "basic-arithmetic.md", art.Filename)
}

func TestExportPDFProducesDocument(t *testing.T) {
	art, err := Export(sampleQuiz(), Options{Format: FormatPDF, IncludeMetadata: true, IncludeAnswers: true})
	require.NoError(t, err)

	require.NotEmpty(t, art.Content)
	assert.True(t, strings.HasPrefix(string(art.Content), "%PDF"))
	assert.Equal(t, "application/pdf", art.MIMEType)
	assert.Equal(t, len(art.Content), art.Size)
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(sampleQuiz(), Options{Format: "docx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

func TestExportFilenameFallsBackWhenTitleEmpty(t *testing.T) {
	art, err := Export(quiz.Quiz{}, Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, "quiz.json", art.Filename)
}

func TestExportTemplateSubstitution(t *testing.T) {
	tmpl := Template{Body: "Quiz: {{title}} ({{questionCount}} questions)\n\n{{questions}}\n\n{{unknown}}"}

	art, err := ExportTemplate(sampleQuiz(), tmpl, Options{IncludeAnswers: true})
	require.NoError(t, err)

	body := string(art.Content)
	assert.Contains(t, body, "Quiz: Basic Arithmetic (2 questions)")
	assert.Contains(t, body, "1. What is 2+2?")
	assert.Contains(t, body, "Answer: 4")
	assert.Contains(t, body, "{{unknown}}")
}

func TestExportTemplateRejectsEmptyBody(t *testing.T) {
	_, err := ExportTemplate(sampleQuiz(), Template{Body: "   "}, Options{})
	require.Error(t, err)
}
