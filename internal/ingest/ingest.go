package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceType declares how a document's bytes should be read.
type SourceType string

const (
	SourcePDF  SourceType = "pdf"
	SourceHTML SourceType = "html"
	SourceText SourceType = "text"
)

const defaultMaxFileBytes = 10 << 20 // 10 MiB

var (
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyDocument   = errors.New("document contains no text")
)

// Options guards ingestion. Zero value uses the default size limit.
type Options struct {
	MaxFileBytes int64
}

func (o Options) limit() int64 {
	if o.MaxFileBytes > 0 {
		return o.MaxFileBytes
	}
	return defaultMaxFileBytes
}

// TypeForFilename maps a filename extension to a source type.
func TypeForFilename(name string) (SourceType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return SourcePDF, nil
	case ".html", ".htm":
		return SourceHTML, nil
	case ".txt", ".text", ".md":
		return SourceText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(name))
	}
}

// FromBytes extracts normalized text from raw document bytes.
// Rejection happens before any parsing begins.
func FromBytes(data []byte, src SourceType, opts Options) (string, error) {
	if int64(len(data)) > opts.limit() {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(data))
	}

	var raw string
	var err error
	switch src {
	case SourcePDF:
		raw, err = extractPDF(data)
	case SourceHTML:
		raw, err = extractHTML(data)
	case SourceText:
		raw, err = extractText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, src)
	}
	if err != nil {
		return "", err
	}

	text := Normalize(raw)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// FromFile reads a file from disk and extracts its text, detecting the
// source type from the extension.
func FromFile(path string, opts Options) (string, error) {
	src, err := TypeForFilename(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > opts.limit() {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return FromBytes(data, src, opts)
}
