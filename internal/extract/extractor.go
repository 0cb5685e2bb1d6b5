package extract

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/quiz"
)

// DefaultExpectedOptionCount is how many options a multiple-choice
// question is padded to. Inherited from the source material; no
// documented rationale beyond convention.
const DefaultExpectedOptionCount = 4

const defaultMinBlockLength = 20

// Options tunes the extractor. Zero value uses the defaults.
type Options struct {
	ExpectedOptionCount int
	MinBlockLength      int
}

// Extractor turns normalized document text into structured questions.
type Extractor struct {
	opts Options
}

func New(opts Options) *Extractor {
	if opts.ExpectedOptionCount <= 0 {
		opts.ExpectedOptionCount = DefaultExpectedOptionCount
	}
	if opts.MinBlockLength <= 0 {
		opts.MinBlockLength = defaultMinBlockLength
	}
	return &Extractor{opts: opts}
}

// Extract pulls questions out of text, using hint to bias block parsing.
// It always returns at least one question for non-empty input; problems
// are collected into the second return value, never raised.
func (e *Extractor) Extract(text string, hint detect.Format) ([]quiz.Question, []string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	for _, bp := range boundaryPatterns {
		blocks := splitBlocks(text, bp, e.opts.MinBlockLength)
		if len(blocks) == 0 {
			continue
		}
		var questions []quiz.Question
		var errs []string
		for i, block := range blocks {
			q, blockErrs := e.parseBlock(block, hint)
			for _, be := range blockErrs {
				errs = append(errs, fmt.Sprintf("question %d: %s", i+1, be))
			}
			questions = append(questions, q)
		}
		if len(questions) > 0 {
			return questions, errs
		}
	}

	return e.synthesize(text)
}

// splitBlocks partitions text at every match of the boundary pattern.
// The pattern only succeeds when at least one block is long enough to
// plausibly hold a question.
func splitBlocks(text string, bp boundaryPattern, minLen int) []string {
	locs := bp.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var blocks []string
	longEnough := false
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := strings.TrimSpace(text[loc[1]:end])
		if block == "" {
			continue
		}
		if len(block) > minLen {
			longEnough = true
		}
		blocks = append(blocks, block)
	}
	if !longEnough {
		return nil
	}
	return blocks
}

func (e *Extractor) parseBlock(block string, hint detect.Format) (quiz.Question, []string) {
	var errs []string
	q := quiz.Question{ID: uuid.NewString(), Points: quiz.DefaultPoints}

	// Answer markers first, strongest to weakest: explicit Answer line,
	// inline star/checkmark (handled in option parsing), "X is correct".
	var answerToken string
	if loc := answerLineRe.FindStringSubmatchIndex(block); loc != nil {
		answerToken = strings.TrimSpace(block[loc[2]:loc[3]])
		block = strings.TrimSpace(block[:loc[0]])
	}
	var correctSentence string
	if m := isCorrectRe.FindStringSubmatch(block); m != nil {
		correctSentence = strings.TrimSpace(m[1])
	}

	options, markedIdx, questionText := parseOptions(block)

	if len(options) == 0 {
		return e.parseUnoptioned(q, block, hint, answerToken, errs)
	}

	if tf, ok := asTrueFalse(options); ok {
		q.Type = quiz.TypeTrueFalse
		q.Text = questionText
		q.Options = tf
		q.CorrectAnswer = resolveAnswer(answerToken, markedIdx, correctSentence, tf, &errs)
	} else {
		q.Type = quiz.TypeMultipleChoice
		q.Text = questionText
		found := len(options)
		if found < 2 {
			errs = append(errs, fmt.Sprintf("only %d option found", found))
		}
		q.Options = e.padOptions(options)
		if len(q.Options) != found {
			errs = append(errs, fmt.Sprintf("padded from %d to %d options", found, len(q.Options)))
		}
		q.CorrectAnswer = resolveAnswer(answerToken, markedIdx, correctSentence, q.Options, &errs)
	}

	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, "empty question text")
	}
	return q, errs
}

// parseUnoptioned handles blocks with no recognizable option markers:
// true/false statements and open questions.
func (e *Extractor) parseUnoptioned(q quiz.Question, block string, hint detect.Format, answerToken string, errs []string) (quiz.Question, []string) {
	if hint == detect.FormatTrueFalse || trailingTrueFalseRe.MatchString(block) {
		q.Type = quiz.TypeTrueFalse
		q.Text = strings.TrimSpace(trailingTrueFalseRe.ReplaceAllString(block, ""))
		q.Options = []string{"True", "False"}
		switch strings.ToLower(answerToken) {
		case "true", "t":
			q.CorrectAnswer = "True"
		case "false", "f":
			q.CorrectAnswer = "False"
		default:
			if answerToken != "" {
				errs = append(errs, fmt.Sprintf("unrecognized true/false answer %q", answerToken))
			}
		}
	} else {
		q.Type = quiz.TypeShortAnswer
		q.Text = strings.TrimSpace(block)
		q.CorrectAnswer = answerToken
	}
	if q.Text == "" {
		errs = append(errs, "empty question text")
	}
	return q, errs
}

// parseOptions tries each option pattern in order and returns the option
// texts, the index of a star/checkmark-marked option (-1 if none), and
// the question text preceding the first marker.
func parseOptions(block string) ([]string, int, string) {
	for _, op := range optionPatterns {
		matches := op.re.FindAllStringSubmatchIndex(block, -1)
		if len(matches) < 2 {
			continue
		}

		questionText := strings.TrimSpace(block[:matches[0][0]])
		options := make([]string, 0, len(matches))
		markedIdx := -1
		for i, m := range matches {
			end := len(block)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
			marker := block[m[0]:m[1]]
			text := strings.TrimSpace(block[m[1]:end])
			if strings.Contains(marker, "*") || checkmarkRe.MatchString(text) {
				markedIdx = i
				text = strings.TrimSpace(checkmarkRe.ReplaceAllString(text, ""))
				text = strings.TrimSuffix(text, "*")
				text = strings.TrimSpace(text)
			}
			options = append(options, text)
		}
		return options, markedIdx, questionText
	}
	return nil, -1, block
}

// resolveAnswer maps the strongest available answer marker onto one of
// the final options. Letter and digit tokens are clamped into range;
// with nothing resolvable the first option is the declared policy.
func resolveAnswer(token string, markedIdx int, correctSentence string, options []string, errs *[]string) string {
	if len(options) == 0 {
		return token
	}

	if idx, ok := indexFromToken(token, len(options)); ok {
		return options[idx]
	}
	if token != "" {
		if opt, ok := matchOption(token, options); ok {
			return opt
		}
	}
	if markedIdx >= 0 && markedIdx < len(options) {
		return options[markedIdx]
	}
	if correctSentence != "" {
		if idx, ok := indexFromToken(correctSentence, len(options)); ok {
			return options[idx]
		}
		if opt, ok := matchOption(correctSentence, options); ok {
			return opt
		}
	}

	*errs = append(*errs, "correct answer unresolved, defaulting to first option")
	return options[0]
}

// indexFromToken interprets a bare letter ("B") or 1-based digit ("2")
// answer token, clamping out-of-range indexes into the option list.
func indexFromToken(token string, n int) (int, bool) {
	token = strings.TrimRight(strings.TrimSpace(token), ".)")
	if len(token) != 1 || n == 0 {
		return 0, false
	}
	c := token[0]
	var idx int
	switch {
	case c >= 'A' && c <= 'H':
		idx = int(c - 'A')
	case c >= 'a' && c <= 'h':
		idx = int(c - 'a')
	case c >= '1' && c <= '8':
		idx = int(c - '1')
	default:
		return 0, false
	}
	if idx >= n {
		idx = n - 1
	}
	return idx, true
}

func matchOption(token string, options []string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(token))
	for _, opt := range options {
		if strings.ToLower(opt) == lower {
			return opt, true
		}
	}
	for _, opt := range options {
		lo := strings.ToLower(opt)
		if lo != "" && (strings.Contains(lower, lo) || strings.Contains(lo, lower)) {
			return opt, true
		}
	}
	return "", false
}

// asTrueFalse recognizes an option pair that spells out true/false.
func asTrueFalse(options []string) ([]string, bool) {
	if len(options) != 2 {
		return nil, false
	}
	a, b := strings.ToLower(options[0]), strings.ToLower(options[1])
	if (a == "true" && b == "false") || (a == "false" && b == "true") {
		return []string{options[0], options[1]}, true
	}
	return nil, false
}

// padOptions synthesizes distinctly-labeled placeholders up to the
// expected count so downstream consumers never see a short option list.
func (e *Extractor) padOptions(options []string) []string {
	if len(options) >= e.opts.ExpectedOptionCount {
		return options
	}
	padded := make([]string, len(options), e.opts.ExpectedOptionCount)
	copy(padded, options)
	for i := len(options); i < e.opts.ExpectedOptionCount; i++ {
		padded = append(padded, fmt.Sprintf("Option %c", 'A'+i))
	}
	return padded
}

// synthesize is the last-resort path: no structured markers at all, so
// pseudo-questions are built from sentence clusters. Output is explicitly
// low-confidence and marked as such in the error list.
func (e *Extractor) synthesize(text string) ([]quiz.Question, []string) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}

	var questions []quiz.Question
	var errs []string
	for start := 0; start < len(sentences); start += 3 {
		lead := sentences[start]
		if len(lead) > 160 {
			lead = lead[:160]
		}
		questions = append(questions, quiz.Question{
			ID:            uuid.NewString(),
			Type:          quiz.TypeShortAnswer,
			Text:          fmt.Sprintf("In your own words, explain: %s", lead),
			CorrectAnswer: "",
			Points:        quiz.DefaultPoints,
		})
		errs = append(errs, fmt.Sprintf("question %d: synthesized from prose, low confidence", len(questions)))
	}
	return questions, errs
}

func splitSentences(text string) []string {
	parts := sentenceCutRe.Split(text, -1)
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 20 {
			out = append(out, p)
		}
	}
	return out
}
