package quiz

// Question type constants.
const (
	TypeMultipleChoice = "multiple-choice"
	TypeTrueFalse      = "true-false"
	TypeShortAnswer    = "short-answer"
)

// DefaultPoints is awarded per question unless the source declares otherwise.
const DefaultPoints = 1

// Question is a single extracted question. IDs are unique within one
// extraction batch, not globally.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Points        int      `json:"points"`
}

// Quiz is the pipeline's terminal output and the only artifact external
// collaborators (persistence, UI) depend on.
type Quiz struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	Questions   []Question `json:"questions"`
}

// ValidationReport carries soft validation outcomes so a caller can show
// warnings without blocking quiz creation.
type ValidationReport struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
