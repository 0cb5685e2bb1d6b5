package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStripsArtifacts(t *testing.T) {
	raw := "\ufeffFirst  line\t\r\nSecond   line   \r\n\r\n\r\n\r\nThird"
	got := Normalize(raw)
	assert.Equal(t, "First line\nSecond line\n\nThird", got)
	assert.NotContains(t, got, "\r")
	assert.NotContains(t, got, "\t")
	assert.NotContains(t, got, "  ")
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("  \r\n \t "))
}

func TestFromBytesRejectsOversizedBeforeParsing(t *testing.T) {
	data := []byte(strings.Repeat("x", 100))
	_, err := FromBytes(data, SourceText, Options{MaxFileBytes: 10})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestFromBytesRejectsEmptyDocument(t *testing.T) {
	_, err := FromBytes([]byte("   \n \n"), SourceText, Options{})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestTypeForFilename(t *testing.T) {
	cases := map[string]SourceType{
		"notes.pdf":  SourcePDF,
		"page.HTML":  SourceHTML,
		"quiz.txt":   SourceText,
		"readme.md":  SourceText,
		"index.htm":  SourceHTML,
	}
	for name, want := range cases {
		got, err := TypeForFilename(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := TypeForFilename("archive.zip")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractHTMLDropsScriptsAndStyles(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
		<script>var x = 1;</script>
		<h1>Chapter Quiz</h1>
		<p>1. What is 2+2?</p>
		<li>A) 3</li><li>B) 4</li>
	</body></html>`

	text, err := FromBytes([]byte(html), SourceHTML, Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "Chapter Quiz")
	assert.Contains(t, text, "1. What is 2+2?")
	assert.Contains(t, text, "B) 4")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "color:red")
}

func TestExtractTextDropsBOMAndInvalidUTF8(t *testing.T) {
	data := append([]byte("\ufeffhello "), 0xff, 0xfe)
	text, err := extractText(data)
	require.NoError(t, err)
	assert.Equal(t, "hello ", text)
}

func TestWatcherClosesDocumentsWhenDirMissing(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), Options{}, zerolog.Nop())
	require.NoError(t, err)

	require.Error(t, w.Run(context.Background()))

	// A consumer ranging over Documents must not hang on a failed start.
	_, open := <-w.Documents()
	assert.False(t, open)
}

func TestWatcherIngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, Options{}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "drop.txt"), []byte("1. What is 2+2?"), 0o644))

	select {
	case doc := <-w.Documents():
		assert.Equal(t, filepath.Join(dir, "drop.txt"), doc.Filename)
		assert.Contains(t, doc.Text, "What is 2+2?")
	case <-ctx.Done():
		t.Fatal("no document received")
	}
}
