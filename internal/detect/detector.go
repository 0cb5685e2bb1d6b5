package detect

import (
	"strings"
)

// Format is a document's detected layout convention.
type Format string

const (
	FormatMCQ         Format = "mcq"
	FormatTrueFalse   Format = "true-false"
	FormatShortAnswer Format = "short-answer"
	FormatMixed       Format = "mixed"
	FormatUnknown     Format = "unknown"
)

// MaxConfidence caps every strategy's self-reported confidence. The score
// is a heuristic, not a probability; no strategy gets to claim certainty.
const MaxConfidence = 0.95

// Stats summarizes the line-level counts the strategies vote on.
type Stats struct {
	TotalLines     int     `json:"totalLines"`
	QuestionLines  int     `json:"questionLines"`
	OptionLines    int     `json:"optionLines"`
	AnswerLines    int     `json:"answerLines"`
	TrueFalseLines int     `json:"trueFalseLines"`
	QuestionRatio  float64 `json:"questionRatio"`
	OptionRatio    float64 `json:"optionRatio"`
}

// Result is the detector's verdict plus everything needed to explain it.
type Result struct {
	Format      Format       `json:"detectedFormat"`
	Confidence  float64      `json:"confidence"`
	Patterns    []string     `json:"formatPatterns"`
	Issues      []Issue      `json:"issues"`
	Suggestions []string     `json:"suggestions"`
	Corrections []Correction `json:"corrections"`
	Stats       Stats        `json:"statistics"`
}

// strategyResult is one strategy's vote. The four strategies never see
// each other; a single selectBest reduces them.
type strategyResult struct {
	strategy   string
	format     Format
	confidence float64
	patterns   []string
}

// Detect classifies the layout of normalized document text. It never
// fails: empty or unusable input yields FormatUnknown with confidence 0.
func Detect(text string) Result {
	return DetectWithTemplates(text, nil)
}

// DetectWithTemplates runs detection with additional caller-supplied
// templates. Invalid template patterns are reported as issues and the
// template is skipped; the rest of the run is unaffected.
func DetectWithTemplates(text string, extra []Template) Result {
	lines := nonEmptyLines(text)
	stats := computeStats(lines)

	result := Result{Format: FormatUnknown, Stats: stats}

	templates, templateIssues := compileTemplates(extra)
	result.Issues = append(result.Issues, templateIssues...)

	if len(lines) == 0 {
		return result
	}

	votes := []strategyResult{
		byPatternFrequency(lines, stats),
		byTemplate(lines, templates),
		byStatistics(stats),
		byKeywords(text),
	}

	best := selectBest(votes)
	result.Format = best.format
	result.Confidence = best.confidence
	result.Patterns = best.patterns

	issues, corrections, suggestions := findIssues(lines)
	result.Issues = append(result.Issues, issues...)
	result.Corrections = corrections
	result.Suggestions = suggestions

	return result
}

// selectBest reduces strategy votes: highest confidence wins, ties go to
// the earlier strategy (pattern-frequency > template > statistical >
// content-keyword, the order votes arrive in).
func selectBest(votes []strategyResult) strategyResult {
	best := strategyResult{format: FormatUnknown}
	for _, v := range votes {
		if v.confidence > MaxConfidence {
			v.confidence = MaxConfidence
		}
		if v.confidence > best.confidence && v.format != FormatUnknown {
			best = v
		}
	}
	return best
}

func computeStats(lines []string) Stats {
	s := Stats{TotalLines: len(lines)}
	for _, line := range lines {
		if _, ok := matchRole(line, RoleQuestion); ok {
			s.QuestionLines++
		}
		if _, ok := matchRole(line, RoleOption); ok {
			s.OptionLines++
		}
		if _, ok := matchRole(line, RoleAnswer); ok {
			s.AnswerLines++
		}
		if _, ok := matchRole(line, RoleTrueFalse); ok {
			s.TrueFalseLines++
		}
	}
	if s.TotalLines > 0 {
		s.QuestionRatio = float64(s.QuestionLines) / float64(s.TotalLines)
		s.OptionRatio = float64(s.OptionLines) / float64(s.TotalLines)
	}
	return s
}

// byPatternFrequency is the primary strategy: relative counts of
// question-numbering, option-lettering and true/false lines.
func byPatternFrequency(lines []string, s Stats) strategyResult {
	res := strategyResult{strategy: "pattern-frequency", format: FormatUnknown}
	if s.QuestionLines == 0 && s.OptionLines == 0 && s.TrueFalseLines == 0 {
		return res
	}

	switch {
	case s.TrueFalseLines > 0 && s.QuestionLines > 0 && 2*s.TrueFalseLines > s.QuestionLines:
		tfRatio := float64(s.TrueFalseLines) / float64(s.QuestionLines)
		if tfRatio > 1 {
			tfRatio = 1
		}
		res.format = FormatTrueFalse
		res.confidence = 0.7 + 0.25*tfRatio
		res.patterns = append(res.patterns, "true-false-token")
	case s.QuestionLines > 0 && s.OptionLines >= 2*s.QuestionLines:
		density := float64(s.OptionLines) / float64(4*s.QuestionLines)
		if density > 1 {
			density = 1
		}
		res.format = FormatMCQ
		res.confidence = 0.6 + 0.35*density
		res.patterns = matchedPatternNames(lines, RoleQuestion, RoleOption)
	case s.QuestionLines > 0 && s.OptionLines == 0 && s.AnswerLines == 0:
		res.format = FormatShortAnswer
		res.confidence = 0.5 + 0.3*s.QuestionRatio
		res.patterns = matchedPatternNames(lines, RoleQuestion)
	case s.QuestionLines > 0:
		res.format = FormatMixed
		res.confidence = 0.5
		res.patterns = matchedPatternNames(lines, RoleQuestion, RoleOption)
	}
	return res
}

// byStatistics votes on line ratios alone, independent of which regex
// matched. A weaker, shape-only signal.
func byStatistics(s Stats) strategyResult {
	res := strategyResult{strategy: "statistical-ratio", format: FormatUnknown}
	switch {
	case s.OptionRatio > 0.4 && s.QuestionRatio > 0.08:
		res.format = FormatMCQ
		res.confidence = 0.45 + 0.4*s.OptionRatio
	case s.QuestionRatio > 0.3 && s.OptionRatio < 0.05:
		res.format = FormatShortAnswer
		res.confidence = 0.4 + 0.3*s.QuestionRatio
	case s.QuestionRatio > 0.1 && s.OptionRatio > 0.1:
		res.format = FormatMixed
		res.confidence = 0.4
	}
	return res
}

// byKeywords is the weak tertiary signal: lexical presence only.
func byKeywords(text string) strategyResult {
	res := strategyResult{strategy: "content-keyword", format: FormatUnknown}
	lower := strings.ToLower(text)

	hasTrue := strings.Contains(lower, "true")
	hasFalse := strings.Contains(lower, "false")
	letterMarkers := 0
	for _, marker := range []string{"a)", "b)", "c)", "d)"} {
		if strings.Contains(lower, marker) {
			letterMarkers++
		}
	}

	switch {
	case letterMarkers >= 3:
		res.format = FormatMCQ
		res.confidence = 0.35
		res.patterns = []string{"letter-markers"}
	case hasTrue && hasFalse:
		res.format = FormatTrueFalse
		res.confidence = 0.3
		res.patterns = []string{"true-false-words"}
	}
	return res
}

func matchedPatternNames(lines []string, roles ...Role) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, line := range lines {
		for _, role := range roles {
			if name, ok := matchRole(line, role); ok {
				if _, dup := seen[name]; !dup {
					seen[name] = struct{}{}
					names = append(names, name)
				}
			}
		}
	}
	return names
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
