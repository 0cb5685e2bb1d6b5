package quiz

import (
	"fmt"
	"strings"
)

// Validate checks a quiz against the structural invariants the pipeline
// promises downstream consumers. Violations are collected, never fatal:
// a multiple-choice question with a missing answer still ships, flagged.
func Validate(q Quiz) ValidationReport {
	report := ValidationReport{IsValid: true}

	if strings.TrimSpace(q.Title) == "" {
		report.Warnings = append(report.Warnings, "quiz has no title")
	}
	if len(q.Questions) == 0 {
		report.IsValid = false
		report.Errors = append(report.Errors, "quiz has no questions")
		return report
	}

	seen := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		label := fmt.Sprintf("question %d", i+1)

		if strings.TrimSpace(question.Text) == "" {
			report.IsValid = false
			report.Errors = append(report.Errors, label+": empty text")
		}
		if question.ID != "" {
			if _, dup := seen[question.ID]; dup {
				report.Warnings = append(report.Warnings, label+": duplicate id "+question.ID)
			}
			seen[question.ID] = struct{}{}
		}

		switch question.Type {
		case TypeMultipleChoice:
			if len(question.Options) < 2 {
				report.IsValid = false
				report.Errors = append(report.Errors, fmt.Sprintf("%s: multiple-choice with %d options", label, len(question.Options)))
			}
			if question.CorrectAnswer != "" && !contains(question.Options, question.CorrectAnswer) {
				report.Warnings = append(report.Warnings, label+": correct answer not among options")
			}
			if question.CorrectAnswer == "" {
				report.Warnings = append(report.Warnings, label+": no correct answer marked")
			}
		case TypeTrueFalse:
			if question.CorrectAnswer == "" {
				report.Warnings = append(report.Warnings, label+": no correct answer marked")
			}
		case TypeShortAnswer:
			// Open questions may legitimately have no stored answer.
		default:
			report.Warnings = append(report.Warnings, label+": unknown type "+question.Type)
		}
	}

	return report
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
