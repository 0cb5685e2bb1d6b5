package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/quizforge/quizforge/internal/quiz"
)

func renderPDF(q quiz.Quiz, opts Options) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	if opts.IncludeMetadata {
		pdf.SetFont("Helvetica", "B", 20)
		pdf.CellFormat(0, 12, q.Title, "", 1, "C", false, 0, "")
		if q.Description != "" {
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, q.Description, "", "C", false)
		}
		if q.Subject != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.CellFormat(0, 6, q.Subject, "", 1, "C", false, 0, "")
		}
		pdf.Ln(6)
	}

	for i, question := range q.Questions {
		pdf.SetFont("Helvetica", "B", 12)
		heading := fmt.Sprintf("%d. %s", i+1, question.Text)
		if opts.IncludePoints {
			heading += fmt.Sprintf(" (%d pt)", question.Points)
		}
		pdf.MultiCell(0, 7, heading, "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		for j, opt := range question.Options {
			pdf.MultiCell(0, 6, fmt.Sprintf("   %c) %s", 'A'+j, opt), "", "L", false)
		}
		if opts.IncludeAnswers && question.CorrectAnswer != "" {
			pdf.SetFont("Helvetica", "I", 11)
			pdf.MultiCell(0, 6, "Answer: "+question.CorrectAnswer, "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
