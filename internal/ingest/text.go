package ingest

import (
	"strings"
	"unicode/utf8"
)

// extractText passes plain text through, dropping a UTF-8 BOM and any
// bytes that do not form valid UTF-8.
func extractText(data []byte) (string, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	if utf8.ValidString(text) {
		return text, nil
	}
	return strings.ToValidUTF8(text, ""), nil
}
