package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quizforge/quizforge/internal/quiz"
)

// Template is a user-supplied export layout. Placeholders of the form
// {{name}} are substituted; unknown placeholders are left untouched so
// the caller can see what the template expected.
//
// Supported placeholders: title, description, subject, questionCount,
// questions (the plain-text question block rendered with the same
// gates as the txt format).
type Template struct {
	Body string
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z]+)\s*\}\}`)

// ExportTemplate renders a quiz through a custom template instead of a
// fixed layout. The result is always text/plain.
func ExportTemplate(q quiz.Quiz, tmpl Template, opts Options) (Artifact, error) {
	if strings.TrimSpace(tmpl.Body) == "" {
		return Artifact{}, fmt.Errorf("empty export template")
	}

	values := map[string]string{
		"title":         q.Title,
		"description":   q.Description,
		"subject":       q.Subject,
		"questionCount": fmt.Sprint(len(q.Questions)),
		"questions":     strings.TrimRight(renderText(q, Options{IncludeAnswers: opts.IncludeAnswers, IncludePoints: opts.IncludePoints}), "\n"),
	}

	content := placeholderRe.ReplaceAllStringFunc(tmpl.Body, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})

	return Artifact{
		Content:  []byte(content),
		Filename: slugify(q.Title) + ".txt",
		MIMEType: "text/plain",
		Size:     len(content),
	}, nil
}
