package detect

import (
	"fmt"
	"regexp"
)

// Template names a document layout by three line regexes. Callers may
// register their own; the built-ins cover the common quiz shapes.
type Template struct {
	Name     string `json:"name"`
	Format   Format `json:"format"`
	Question string `json:"question"`
	Option   string `json:"option"`
	Answer   string `json:"answer"`
}

type compiledTemplate struct {
	name     string
	format   Format
	question *regexp.Regexp
	option   *regexp.Regexp
	answer   *regexp.Regexp
}

var builtinTemplates = []compiledTemplate{
	{
		name:     "standard-lettered-mcq",
		format:   FormatMCQ,
		question: regexp.MustCompile(`^\s*\d{1,3}[.)]\s+\S`),
		option:   regexp.MustCompile(`^\s*[A-Da-d][.)]\s+\S`),
		answer:   regexp.MustCompile(`(?i)^\s*answer\s*[:.]`),
	},
	{
		name:     "numbered-option-mcq",
		format:   FormatMCQ,
		question: regexp.MustCompile(`(?i)^\s*(q|question\s+)\d{1,3}\b`),
		option:   regexp.MustCompile(`^\s*\d\)\s+\S`),
		answer:   regexp.MustCompile(`(?i)^\s*(answer|correct)\s*[:.]`),
	},
	{
		name:     "true-false",
		format:   FormatTrueFalse,
		question: regexp.MustCompile(`^\s*\d{1,3}[.)]\s+\S`),
		option:   regexp.MustCompile(`(?i)\btrue\b|\bfalse\b`),
		answer:   regexp.MustCompile(`(?i)^\s*answer\s*[:.]`),
	},
}

// compileTemplates compiles caller templates, collecting one issue per
// invalid pattern instead of failing the run.
func compileTemplates(extra []Template) ([]compiledTemplate, []Issue) {
	templates := make([]compiledTemplate, len(builtinTemplates))
	copy(templates, builtinTemplates)

	var issues []Issue
	for _, t := range extra {
		ct := compiledTemplate{name: t.Name, format: t.Format}
		var err error
		if ct.question, err = regexp.Compile(t.Question); err != nil {
			issues = append(issues, Issue{Kind: IssueInvalidTemplate, Text: fmt.Sprintf("template %q: bad question pattern: %v", t.Name, err)})
			continue
		}
		if ct.option, err = regexp.Compile(t.Option); err != nil {
			issues = append(issues, Issue{Kind: IssueInvalidTemplate, Text: fmt.Sprintf("template %q: bad option pattern: %v", t.Name, err)})
			continue
		}
		if ct.answer, err = regexp.Compile(t.Answer); err != nil {
			issues = append(issues, Issue{Kind: IssueInvalidTemplate, Text: fmt.Sprintf("template %q: bad answer pattern: %v", t.Name, err)})
			continue
		}
		if ct.format == "" {
			ct.format = FormatMCQ
		}
		templates = append(templates, ct)
	}
	return templates, issues
}

// byTemplate scores each template by the fraction of lines matching any
// of its three regexes, discounted by how many of the template's roles
// actually appear. A document of bare questions must not fully score an
// MCQ template whose options and answers never match.
func byTemplate(lines []string, templates []compiledTemplate) strategyResult {
	res := strategyResult{strategy: "template-matching", format: FormatUnknown}
	if len(lines) == 0 {
		return res
	}

	for _, t := range templates {
		matched := 0
		rolesSeen := [3]bool{}
		for _, line := range lines {
			hit := false
			if t.question.MatchString(line) {
				rolesSeen[0] = true
				hit = true
			}
			if t.option.MatchString(line) {
				rolesSeen[1] = true
				hit = true
			}
			if t.answer.MatchString(line) {
				rolesSeen[2] = true
				hit = true
			}
			if hit {
				matched++
			}
		}
		roleCount := 0
		for _, seen := range rolesSeen {
			if seen {
				roleCount++
			}
		}
		score := float64(matched) / float64(len(lines)) * float64(roleCount) / 3
		if score > res.confidence {
			res.confidence = score
			res.format = t.format
			res.patterns = []string{t.name}
		}
	}

	if res.confidence > MaxConfidence {
		res.confidence = MaxConfidence
	}
	return res
}
