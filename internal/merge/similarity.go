package merge

import (
	"regexp"
	"strings"
)

var punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeText reduces question text to its comparable core: lowercase,
// punctuation stripped, whitespace collapsed. Two questions whose
// normalized texts are equal are exact duplicates.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = punctRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Jaccard is intersection-over-union of the two texts' lowercase word
// sets. 1 for identical sets, 0 for disjoint or empty ones.
func Jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(NormalizeText(text)) {
		set[w] = struct{}{}
	}
	return set
}
