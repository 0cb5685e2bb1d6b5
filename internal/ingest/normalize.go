package ingest

import (
	"strings"
)

// Normalize strips extraction artifacts from raw document text so the
// detector and extractor see one consistent shape: LF line endings, single
// spaces, no trailing whitespace, at most one blank line in a row.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", " ")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		line = collapseSpaces(strings.TrimRight(line, " "))
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func collapseSpaces(line string) string {
	for strings.Contains(line, "  ") {
		line = strings.ReplaceAll(line, "  ", " ")
	}
	return line
}
