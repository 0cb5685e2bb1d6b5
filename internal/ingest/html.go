package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractHTML pulls the visible text out of an HTML document, one line per
// block-level element. Scripts, styles and head content are dropped.
func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, head").Remove()

	var sb strings.Builder
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, td, th, div, pre").Each(func(_ int, sel *goquery.Selection) {
		// Skip containers whose text is already covered by a nested block.
		if sel.ChildrenFiltered("p, li, h1, h2, h3, h4, h5, h6, div, pre").Length() > 0 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	})

	if sb.Len() == 0 {
		// No block structure at all; fall back to the whole body text.
		return strings.TrimSpace(doc.Find("body").Text()), nil
	}
	return sb.String(), nil
}
