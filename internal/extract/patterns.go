package extract

import "regexp"

// boundaryPattern splits a document into question blocks. Patterns are
// tried in priority order; the first one that partitions the text into at
// least one usable block wins.
type boundaryPattern struct {
	name string
	re   *regexp.Regexp
}

var boundaryPatterns = []boundaryPattern{
	{name: "numbered", re: regexp.MustCompile(`(?m)^\s*\d{1,3}[.)]\s+`)},
	{name: "q-prefixed", re: regexp.MustCompile(`(?mi)^\s*q\d{1,3}\s*[:.)]?\s+`)},
	{name: "question-word", re: regexp.MustCompile(`(?mi)^\s*question\s+\d{1,3}\s*[:.]?\s*`)},
	{name: "parenthetical", re: regexp.MustCompile(`(?m)^\s*\(\d{1,3}\)\s*`)},
	{name: "lettered", re: regexp.MustCompile(`(?m)^\s*[A-Z][.)]\s+`)},
}

// optionPattern finds option markers inside one question block. The
// capture group is the marker label (letter or digit).
type optionPattern struct {
	name string
	re   *regexp.Regexp
}

var optionPatterns = []optionPattern{
	{name: "lettered", re: regexp.MustCompile(`(?:^|\s)\*?([A-Ha-h])[.)]\s*`)},
	{name: "numbered", re: regexp.MustCompile(`(?:^|\s)\*?([1-8])[.)]\s+`)},
	{name: "bracketed", re: regexp.MustCompile(`\[([A-Ha-h1-8])\]\s*`)},
	{name: "parenthetical", re: regexp.MustCompile(`(?:^|\s)\(([A-Ha-h])\)\s*`)},
}

var (
	// "Answer: B" or "Correct answer: Paris" at the end of a block.
	answerLineRe = regexp.MustCompile(`(?is)\b(?:correct\s+answer|answer|ans)\s*[:.]\s*(.+?)\s*$`)
	// "Paris is correct" / "B is the correct answer".
	isCorrectRe = regexp.MustCompile(`(?i)(?:^|\.\s*)([^.\n]+?)\s+is\s+(?:the\s+)?correct\b`)
	// Inline correctness marks adjacent to an option.
	checkmarkRe = regexp.MustCompile(`[✓✔]`)

	// "... True/False" or "(True or False)" trailing a statement.
	trailingTrueFalseRe = regexp.MustCompile(`(?i)\(?\s*true\s*(?:/|or)\s*false\s*\)?\??\.?\s*$`)

	sentenceCutRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)
