package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/quizforge/quizforge/internal/quiz"
)

// Format names a serialization target.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatTXT      Format = "txt"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// Options selects the format and gates which fields appear. The gates
// behave identically across every format.
type Options struct {
	Format          Format
	IncludeMetadata bool
	IncludeAnswers  bool
	IncludePoints   bool
}

// Artifact is a rendered quiz ready to hand to a download or filesystem.
type Artifact struct {
	Content  []byte `json:"content"`
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	Size     int    `json:"size"`
}

// Export renders a quiz in the requested format. Every format is a pure
// textual (or, for pdf, binary) transform of the quiz value.
func Export(q quiz.Quiz, opts Options) (Artifact, error) {
	var content []byte
	var err error
	var ext, mime string

	switch opts.Format {
	case FormatJSON:
		content, err = renderJSON(q, opts)
		ext, mime = "json", "application/json"
	case FormatCSV:
		content, err = renderCSV(q, opts)
		ext, mime = "csv", "text/csv"
	case FormatTXT:
		content = []byte(renderText(q, opts))
		ext, mime = "txt", "text/plain"
	case FormatHTML:
		content = []byte(renderHTML(q, opts))
		ext, mime = "html", "text/html"
	case FormatMarkdown:
		content = []byte(renderMarkdown(q, opts))
		ext, mime = "md", "text/markdown"
	case FormatPDF:
		content, err = renderPDF(q, opts)
		ext, mime = "pdf", "application/pdf"
	default:
		return Artifact{}, fmt.Errorf("unknown export format %q", opts.Format)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	return Artifact{
		Content:  content,
		Filename: slugify(q.Title) + "." + ext,
		MIMEType: mime,
		Size:     len(content),
	}, nil
}

type jsonQuestion struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Points        int      `json:"points,omitempty"`
}

type jsonQuiz struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Subject     string         `json:"subject,omitempty"`
	Questions   []jsonQuestion `json:"questions"`
}

func renderJSON(q quiz.Quiz, opts Options) ([]byte, error) {
	doc := jsonQuiz{Questions: make([]jsonQuestion, 0, len(q.Questions))}
	if opts.IncludeMetadata {
		doc.Title = q.Title
		doc.Description = q.Description
		doc.Subject = q.Subject
	}
	for _, question := range q.Questions {
		jq := jsonQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Type:    question.Type,
			Options: question.Options,
		}
		if opts.IncludeAnswers {
			jq.CorrectAnswer = question.CorrectAnswer
		}
		if opts.IncludePoints {
			jq.Points = question.Points
		}
		doc.Questions = append(doc.Questions, jq)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ParseJSON reads a quiz previously exported as JSON, for round-trip
// workflows (export, edit elsewhere, re-import).
func ParseJSON(data []byte) (quiz.Quiz, error) {
	var doc jsonQuiz
	if err := json.Unmarshal(data, &doc); err != nil {
		return quiz.Quiz{}, fmt.Errorf("parse quiz json: %w", err)
	}
	out := quiz.Quiz{Title: doc.Title, Description: doc.Description, Subject: doc.Subject}
	for _, jq := range doc.Questions {
		out.Questions = append(out.Questions, quiz.Question{
			ID:            jq.ID,
			Text:          jq.Text,
			Type:          jq.Type,
			Options:       jq.Options,
			CorrectAnswer: jq.CorrectAnswer,
			Points:        jq.Points,
		})
	}
	return out, nil
}

func renderCSV(q quiz.Quiz, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	maxOptions := 0
	for _, question := range q.Questions {
		if len(question.Options) > maxOptions {
			maxOptions = len(question.Options)
		}
	}

	header := []string{"number", "text", "type"}
	for i := 0; i < maxOptions; i++ {
		header = append(header, fmt.Sprintf("option%c", 'A'+i))
	}
	if opts.IncludeAnswers {
		header = append(header, "correctAnswer")
	}
	if opts.IncludePoints {
		header = append(header, "points")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i, question := range q.Questions {
		row := []string{fmt.Sprint(i + 1), question.Text, question.Type}
		for j := 0; j < maxOptions; j++ {
			if j < len(question.Options) {
				row = append(row, question.Options[j])
			} else {
				row = append(row, "")
			}
		}
		if opts.IncludeAnswers {
			row = append(row, question.CorrectAnswer)
		}
		if opts.IncludePoints {
			row = append(row, fmt.Sprint(question.Points))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderText(q quiz.Quiz, opts Options) string {
	var sb strings.Builder
	if opts.IncludeMetadata {
		sb.WriteString(q.Title + "\n")
		if q.Description != "" {
			sb.WriteString(q.Description + "\n")
		}
		if q.Subject != "" {
			sb.WriteString("Subject: " + q.Subject + "\n")
		}
		sb.WriteString("\n")
	}

	for i, question := range q.Questions {
		fmt.Fprintf(&sb, "%d. %s", i+1, question.Text)
		if opts.IncludePoints {
			fmt.Fprintf(&sb, " (%d pt)", question.Points)
		}
		sb.WriteString("\n")
		for j, opt := range question.Options {
			fmt.Fprintf(&sb, "%c) %s\n", 'A'+j, opt)
		}
		if opts.IncludeAnswers && question.CorrectAnswer != "" {
			fmt.Fprintf(&sb, "Answer: %s\n", question.CorrectAnswer)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderHTML(q quiz.Quiz, opts Options) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(q.Title))
	sb.WriteString(`<style>
body { font-family: Georgia, serif; max-width: 720px; margin: 2rem auto; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: .3rem; }
.question { margin: 1.2rem 0; }
.options { list-style: upper-alpha; }
.answer { color: #2a6e2a; font-weight: bold; }
.points { color: #888; font-size: .85rem; }
</style>
</head>
<body>
`)
	if opts.IncludeMetadata {
		fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(q.Title))
		if q.Description != "" {
			fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(q.Description))
		}
		if q.Subject != "" {
			fmt.Fprintf(&sb, "<p><em>%s</em></p>\n", html.EscapeString(q.Subject))
		}
	}

	for i, question := range q.Questions {
		sb.WriteString("<div class=\"question\">\n")
		fmt.Fprintf(&sb, "<p><strong>%d.</strong> %s", i+1, html.EscapeString(question.Text))
		if opts.IncludePoints {
			fmt.Fprintf(&sb, " <span class=\"points\">(%d pt)</span>", question.Points)
		}
		sb.WriteString("</p>\n")
		if len(question.Options) > 0 {
			sb.WriteString("<ol class=\"options\">\n")
			for _, opt := range question.Options {
				fmt.Fprintf(&sb, "<li>%s</li>\n", html.EscapeString(opt))
			}
			sb.WriteString("</ol>\n")
		}
		if opts.IncludeAnswers && question.CorrectAnswer != "" {
			fmt.Fprintf(&sb, "<p class=\"answer\">Answer: %s</p>\n", html.EscapeString(question.CorrectAnswer))
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func renderMarkdown(q quiz.Quiz, opts Options) string {
	var sb strings.Builder
	if opts.IncludeMetadata {
		fmt.Fprintf(&sb, "# %s\n\n", q.Title)
		if q.Description != "" {
			sb.WriteString(q.Description + "\n\n")
		}
		if q.Subject != "" {
			fmt.Fprintf(&sb, "*%s*\n\n", q.Subject)
		}
	}

	for i, question := range q.Questions {
		fmt.Fprintf(&sb, "**%d.** %s", i+1, question.Text)
		if opts.IncludePoints {
			fmt.Fprintf(&sb, " _(%d pt)_", question.Points)
		}
		sb.WriteString("\n\n")
		for j, opt := range question.Options {
			fmt.Fprintf(&sb, "- %c) %s\n", 'A'+j, opt)
		}
		if len(question.Options) > 0 {
			sb.WriteString("\n")
		}
		if opts.IncludeAnswers && question.CorrectAnswer != "" {
			fmt.Fprintf(&sb, "**Answer:** %s\n\n", question.CorrectAnswer)
		}
	}
	return sb.String()
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return "quiz"
	}
	return slug
}
