package detect

import (
	"regexp"
	"strings"
)

// Issue kinds surfaced by the independent formatting scan.
const (
	IssueMissingSpacing   = "missing-spacing"
	IssueRunTogetherPunct = "run-together-punctuation"
	IssueDoubleSpace      = "double-space"
	IssueUnterminated     = "unterminated-question"
	IssueInvalidTemplate  = "invalid-template"
)

// Issue is one formatting problem found on a line. Line is 1-based over
// the non-empty lines of the document; 0 for document-level issues.
type Issue struct {
	Line int    `json:"line"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Correction pairs a flagged line with a best-effort fix. Corrections are
// advisory; the detector never rewrites input.
type Correction struct {
	Line      int    `json:"line"`
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
}

var (
	missingSpaceRe = regexp.MustCompile(`([a-z])([A-Z])`)
	runTogetherRe  = regexp.MustCompile(`([.?!,;:])([A-Za-z])`)
	doubleSpaceRe  = regexp.MustCompile(`  +`)
)

// findIssues scans for formatting problems independently of format
// selection, pairing each flagged line with an auto-corrected variant.
func findIssues(lines []string) ([]Issue, []Correction, []string) {
	var issues []Issue
	var corrections []Correction
	kinds := make(map[string]struct{})

	for i, line := range lines {
		lineNo := i + 1
		corrected := line
		touched := false

		if missingSpaceRe.MatchString(line) {
			issues = append(issues, Issue{Line: lineNo, Kind: IssueMissingSpacing, Text: line})
			kinds[IssueMissingSpacing] = struct{}{}
			corrected = missingSpaceRe.ReplaceAllString(corrected, "$1 $2")
			touched = true
		}
		if runTogetherRe.MatchString(line) {
			issues = append(issues, Issue{Line: lineNo, Kind: IssueRunTogetherPunct, Text: line})
			kinds[IssueRunTogetherPunct] = struct{}{}
			corrected = runTogetherRe.ReplaceAllString(corrected, "$1 $2")
			touched = true
		}
		if doubleSpaceRe.MatchString(line) {
			issues = append(issues, Issue{Line: lineNo, Kind: IssueDoubleSpace, Text: line})
			kinds[IssueDoubleSpace] = struct{}{}
			corrected = doubleSpaceRe.ReplaceAllString(corrected, " ")
			touched = true
		}
		if isUnterminatedQuestion(line) {
			issues = append(issues, Issue{Line: lineNo, Kind: IssueUnterminated, Text: line})
			kinds[IssueUnterminated] = struct{}{}
			corrected = strings.TrimRight(corrected, " ") + "?"
			touched = true
		}

		if touched && corrected != line {
			corrections = append(corrections, Correction{Line: lineNo, Original: line, Corrected: corrected})
		}
	}

	return issues, corrections, suggestionsFor(kinds)
}

// isUnterminatedQuestion flags question lines with no terminal
// punctuation at all.
func isUnterminatedQuestion(line string) bool {
	if _, ok := matchRole(line, RoleQuestion); !ok {
		return false
	}
	trimmed := strings.TrimRight(line, " ")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '?', '.', '!', ':', ';':
		return false
	}
	// Lines that embed their options inline end with option text, not the
	// question itself; leave them alone.
	if _, ok := matchRole(trimmed, RoleAnswer); ok {
		return false
	}
	return !strings.ContainsAny(trimmed, "?")
}

func suggestionsFor(kinds map[string]struct{}) []string {
	var out []string
	if _, ok := kinds[IssueMissingSpacing]; ok {
		out = append(out, "add spacing between run-together words")
	}
	if _, ok := kinds[IssueRunTogetherPunct]; ok {
		out = append(out, "add a space after sentence punctuation")
	}
	if _, ok := kinds[IssueDoubleSpace]; ok {
		out = append(out, "collapse repeated spaces")
	}
	if _, ok := kinds[IssueUnterminated]; ok {
		out = append(out, "terminate questions with punctuation")
	}
	return out
}
