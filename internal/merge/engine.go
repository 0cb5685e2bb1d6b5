package merge

import (
	"fmt"

	"github.com/quizforge/quizforge/internal/quiz"
)

// Strategy names a policy for combining question lists across files.
type Strategy string

const (
	StrategyAppend       Strategy = "append"
	StrategyReplace      Strategy = "replace"
	StrategyMergeByTopic Strategy = "merge-by-topic"
	StrategySmartMerge   Strategy = "smart-merge"
)

// DefaultStrategy applies when a caller passes an empty strategy string.
const DefaultStrategy = StrategySmartMerge

// ConflictType classifies the relationship between a new question and an
// already-merged one.
type ConflictType string

const (
	ConflictDuplicate      ConflictType = "duplicate"
	ConflictSimilar        ConflictType = "similar"
	ConflictFormatMismatch ConflictType = "format-mismatch"
)

// Resolution records what was done about a conflict.
type Resolution string

const (
	ResolutionKeepOriginal Resolution = "keep-original"
	ResolutionUseNew       Resolution = "use-new"
	ResolutionMerge        Resolution = "merge"
	ResolutionSkip         Resolution = "skip"
)

// resolutionPolicy maps (strategy, conflict type) to the action taken, so
// adding a strategy never duplicates branching logic.
var resolutionPolicy = map[Strategy]map[ConflictType]Resolution{
	StrategyMergeByTopic: {
		ConflictSimilar: ResolutionSkip,
	},
	StrategySmartMerge: {
		ConflictDuplicate:      ResolutionSkip,
		ConflictSimilar:        ResolutionMerge,
		ConflictFormatMismatch: ResolutionKeepOriginal,
	},
}

// Conflict is an immutable log entry created during merging.
type Conflict struct {
	QuestionID   string       `json:"questionId"`
	OriginalText string       `json:"originalText"`
	NewText      string       `json:"newText"`
	SourceFile   string       `json:"sourceFile"`
	Type         ConflictType `json:"conflictType"`
	Resolution   Resolution   `json:"resolution"`
}

// DefaultSimilarityThreshold is the Jaccard cutoff above which two
// questions count as similar. Strictly greater-than applies, so a
// similarity of exactly 0.8 is not a match.
const DefaultSimilarityThreshold = 0.8

// Options tunes the engine. Zero value uses the default threshold.
type Options struct {
	SimilarityThreshold float64
}

func (o Options) threshold() float64 {
	if o.SimilarityThreshold > 0 {
		return o.SimilarityThreshold
	}
	return DefaultSimilarityThreshold
}

// FileQuestions is one file's extracted question list, in upload order.
type FileQuestions struct {
	Filename  string
	Questions []quiz.Question
}

// Output is the merged list plus everything needed to audit it.
type Output struct {
	Questions         []quiz.Question
	Conflicts         []Conflict
	DuplicatesRemoved int
}

// Merge combines question lists from multiple files. It is a
// single-threaded reduction: for a fixed input order and strategy the
// output order and conflict log are identical on every run.
func Merge(strategy Strategy, files []FileQuestions, opts Options) (Output, error) {
	if strategy == "" {
		strategy = DefaultStrategy
	}

	var out Output
	switch strategy {
	case StrategyAppend:
		for _, f := range files {
			out.Questions = append(out.Questions, f.Questions...)
		}
		// Append is the one strategy with no dedup of any kind.
		return out, nil
	case StrategyReplace:
		if len(files) > 0 {
			newest := files[len(files)-1]
			out.Questions = append(out.Questions, newest.Questions...)
		}
	case StrategyMergeByTopic:
		out = mergeByTopic(files, opts.threshold())
	case StrategySmartMerge:
		out = smartMerge(files, opts.threshold())
	default:
		return Output{}, fmt.Errorf("unknown merge strategy %q", strategy)
	}

	dedupExact(&out)
	return out, nil
}

func mergeByTopic(files []FileQuestions, threshold float64) Output {
	var out Output
	for _, f := range files {
		for _, q := range f.Questions {
			if match, found := findSimilar(out.Questions, q.Text, threshold); found {
				out.Conflicts = append(out.Conflicts, Conflict{
					QuestionID:   match.ID,
					OriginalText: match.Text,
					NewText:      q.Text,
					SourceFile:   f.Filename,
					Type:         ConflictSimilar,
					Resolution:   resolutionPolicy[StrategyMergeByTopic][ConflictSimilar],
				})
				continue
			}
			out.Questions = append(out.Questions, q)
		}
	}
	return out
}

func smartMerge(files []FileQuestions, threshold float64) Output {
	var out Output
	for _, f := range files {
		for _, q := range f.Questions {
			if idx := findExact(out.Questions, q.Text); idx >= 0 {
				existing := out.Questions[idx]
				conflictType := ConflictDuplicate
				if existing.Type != q.Type {
					conflictType = ConflictFormatMismatch
				}
				out.Conflicts = append(out.Conflicts, Conflict{
					QuestionID:   existing.ID,
					OriginalText: existing.Text,
					NewText:      q.Text,
					SourceFile:   f.Filename,
					Type:         conflictType,
					Resolution:   resolutionPolicy[StrategySmartMerge][conflictType],
				})
				if conflictType == ConflictDuplicate {
					out.DuplicatesRemoved++
				}
				continue
			}
			if match, found := findSimilar(out.Questions, q.Text, threshold); found {
				originalText := match.Text
				merged := synthesizeMerge(*match, q)
				*match = merged
				out.Conflicts = append(out.Conflicts, Conflict{
					QuestionID:   merged.ID,
					OriginalText: originalText,
					NewText:      q.Text,
					SourceFile:   f.Filename,
					Type:         ConflictSimilar,
					Resolution:   resolutionPolicy[StrategySmartMerge][ConflictSimilar],
				})
				continue
			}
			out.Questions = append(out.Questions, q)
		}
	}
	return out
}

// synthesizeMerge combines a similar pair: the longer text, the union of
// options in first-seen order, the first non-empty correct answer.
func synthesizeMerge(existing, incoming quiz.Question) quiz.Question {
	merged := existing
	if len(incoming.Text) > len(existing.Text) {
		merged.Text = incoming.Text
	}

	seen := make(map[string]struct{}, len(existing.Options)+len(incoming.Options))
	var options []string
	for _, opt := range append(append([]string{}, existing.Options...), incoming.Options...) {
		if _, dup := seen[opt]; dup {
			continue
		}
		seen[opt] = struct{}{}
		options = append(options, opt)
	}
	merged.Options = options

	if merged.CorrectAnswer == "" {
		merged.CorrectAnswer = incoming.CorrectAnswer
	}
	return merged
}

// findExact locates a question whose normalized text equals the target's.
func findExact(questions []quiz.Question, text string) int {
	norm := NormalizeText(text)
	for i := range questions {
		if NormalizeText(questions[i].Text) == norm {
			return i
		}
	}
	return -1
}

// findSimilar locates the first question strictly above the similarity
// threshold.
func findSimilar(questions []quiz.Question, text string, threshold float64) (*quiz.Question, bool) {
	for i := range questions {
		if Jaccard(questions[i].Text, text) > threshold {
			return &questions[i], true
		}
	}
	return nil, false
}

// dedupExact is the independent safety net applied after per-strategy
// merging: any exact-duplicate texts still present are removed, keeping
// the first occurrence.
func dedupExact(out *Output) {
	seen := make(map[string]struct{}, len(out.Questions))
	kept := out.Questions[:0]
	for _, q := range out.Questions {
		key := NormalizeText(q.Text)
		if _, dup := seen[key]; dup {
			out.DuplicatesRemoved++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, q)
	}
	out.Questions = kept
}
