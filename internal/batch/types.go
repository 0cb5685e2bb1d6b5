package batch

import (
	"github.com/quizforge/quizforge/internal/analyze"
	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/merge"
	"github.com/quizforge/quizforge/internal/quiz"
)

// FileInput is one uploaded document, by name and raw bytes.
type FileInput struct {
	Filename string `json:"filename"`
	Data     []byte `json:"-"`
}

// ProcessOptions tunes a whole batch run. Zero value uses the
// smart-merge strategy with default thresholds. Title, Description, and
// Subject become the metadata of the merged quiz.
type ProcessOptions struct {
	Strategy            merge.Strategy    `json:"strategy"`
	SimilarityThreshold float64           `json:"similarityThreshold"`
	ExpectedOptionCount int               `json:"expectedOptionCount"`
	Templates           []detect.Template `json:"templates"`
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	Subject             string            `json:"subject"`
}

// FileResult records the outcome of one file. A failed file carries its
// error and never aborts the rest of the batch.
type FileResult struct {
	Filename   string             `json:"filename"`
	Success    bool               `json:"success"`
	Error      string             `json:"error,omitempty"`
	Format     detect.Format      `json:"detectedFormat,omitempty"`
	Confidence float64            `json:"confidence,omitempty"`
	Questions  []quiz.Question    `json:"questions,omitempty"`
	Analyses   []analyze.Analysis `json:"analyses,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	DurationMS int64              `json:"durationMs"`
}

// Result is the aggregate outcome of a batch run. TotalQuestions counts
// extracted questions across the successful files before merging;
// UniqueQuestions is the merged count.
type Result struct {
	TotalFiles        int                `json:"totalFiles"`
	Succeeded         int                `json:"succeeded"`
	Failed            int                `json:"failed"`
	TotalQuestions    int                `json:"totalQuestions"`
	UniqueQuestions   int                `json:"uniqueQuestions"`
	MergeStrategy     merge.Strategy     `json:"mergeStrategy"`
	Questions         []quiz.Question    `json:"questions"`
	MergedQuiz        quiz.Quiz          `json:"mergedQuiz"`
	Conflicts         []merge.Conflict   `json:"conflicts"`
	DuplicatesRemoved int                `json:"duplicatesRemoved"`
	Report            analyze.QuizReport `json:"report"`
	Files             []FileResult       `json:"fileResults"`
	ElapsedMS         int64              `json:"elapsedMs"`
}

// Progress stages, in pipeline order.
const (
	StageIngest  = "ingest"
	StageDetect  = "detect"
	StageExtract = "extract"
	StageAnalyze = "analyze"
	StageMerge   = "merge"
	StageDone    = "done"
)

// ProgressEvent is published after each pipeline stage so clients can
// render a live progress view.
type ProgressEvent struct {
	BatchID   string `json:"batchId"`
	Stage     string `json:"stage"`
	Filename  string `json:"filename,omitempty"`
	FileIndex int    `json:"fileIndex"`
	FileCount int    `json:"fileCount"`
	Error     string `json:"error,omitempty"`
}

// ProgressSink receives progress events. Implementations must not
// block; the pipeline publishes inline.
type ProgressSink interface {
	Publish(event ProgressEvent)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Publish(ProgressEvent) {}
