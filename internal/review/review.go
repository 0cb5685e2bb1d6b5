package review

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quizforge/quizforge/internal/quiz"
)

// Field scopes a search or replace to part of a question.
type Field string

const (
	FieldAll     Field = "all"
	FieldText    Field = "text"
	FieldOptions Field = "options"
	FieldAnswer  Field = "answer"
)

// Match points at one occurrence of the search term. OptionIndex is -1
// unless the hit is inside an option.
type Match struct {
	QuestionID  string `json:"questionId"`
	Field       Field  `json:"field"`
	OptionIndex int    `json:"optionIndex"`
	Value       string `json:"value"`
}

// Search finds every case-insensitive occurrence of term in the given
// field of each question. An empty term matches nothing.
func Search(questions []quiz.Question, term string, field Field) []Match {
	if term == "" {
		return nil
	}
	needle := strings.ToLower(term)
	var matches []Match

	for _, q := range questions {
		if field == FieldAll || field == FieldText {
			if strings.Contains(strings.ToLower(q.Text), needle) {
				matches = append(matches, Match{QuestionID: q.ID, Field: FieldText, OptionIndex: -1, Value: q.Text})
			}
		}
		if field == FieldAll || field == FieldOptions {
			for i, opt := range q.Options {
				if strings.Contains(strings.ToLower(opt), needle) {
					matches = append(matches, Match{QuestionID: q.ID, Field: FieldOptions, OptionIndex: i, Value: opt})
				}
			}
		}
		if field == FieldAll || field == FieldAnswer {
			if strings.Contains(strings.ToLower(q.CorrectAnswer), needle) {
				matches = append(matches, Match{QuestionID: q.ID, Field: FieldAnswer, OptionIndex: -1, Value: q.CorrectAnswer})
			}
		}
	}
	return matches
}

// ReplaceAll substitutes every case-insensitive occurrence of term with
// replacement in the scoped fields and returns a new slice. The input
// questions are never mutated. The returned count is the number of
// fields that changed.
func ReplaceAll(questions []quiz.Question, term, replacement string, field Field) ([]quiz.Question, int) {
	out := make([]quiz.Question, len(questions))
	copy(out, questions)
	if term == "" {
		return out, 0
	}

	replaced := 0
	for i := range out {
		// Copy the options slice so the caller's backing array stays
		// untouched.
		opts := make([]string, len(out[i].Options))
		copy(opts, out[i].Options)
		out[i].Options = opts

		if field == FieldAll || field == FieldText {
			if next := replaceFold(out[i].Text, term, replacement); next != out[i].Text {
				out[i].Text = next
				replaced++
			}
		}
		if field == FieldAll || field == FieldOptions {
			for j, opt := range out[i].Options {
				if next := replaceFold(opt, term, replacement); next != opt {
					out[i].Options[j] = next
					replaced++
				}
			}
		}
		if field == FieldAll || field == FieldAnswer {
			if next := replaceFold(out[i].CorrectAnswer, term, replacement); next != out[i].CorrectAnswer {
				out[i].CorrectAnswer = next
				replaced++
			}
		}
	}
	return out, replaced
}

// replaceFold replaces every occurrence of term in s, matching without
// regard to case while preserving the untouched parts byte for byte.
// It walks s itself rather than a lowered copy; lowering can change
// byte lengths (U+0130 for one) and shift every later offset.
func replaceFold(s, term, replacement string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		if n := foldPrefixLen(s[i:], term); n > 0 {
			sb.WriteString(replacement)
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		sb.WriteString(s[i : i+size])
		i += size
	}
	return sb.String()
}

// foldPrefixLen returns the byte length of the prefix of s that matches
// term rune-by-rune under simple case folding, or 0 if there is none.
func foldPrefixLen(s, term string) int {
	i := 0
	for _, tr := range term {
		if i >= len(s) {
			return 0
		}
		sr, size := utf8.DecodeRuneInString(s[i:])
		if unicode.ToLower(sr) != unicode.ToLower(tr) {
			return 0
		}
		i += size
	}
	return i
}
