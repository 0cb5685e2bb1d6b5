package ingest

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Document is a single ingested file handed to the watcher's sink.
type Document struct {
	Filename string
	Text     string
}

// Watcher monitors a drop directory and ingests every new document that
// lands in it, emitting the extracted text on Documents.
type Watcher struct {
	fs     *fsnotify.Watcher
	dir    string
	opts   Options
	out    chan Document
	logger zerolog.Logger
}

// NewWatcher builds a watcher for dir. Call Run to start it.
func NewWatcher(dir string, opts Options, logger zerolog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:     fs,
		dir:    dir,
		opts:   opts,
		out:    make(chan Document, 16),
		logger: logger,
	}, nil
}

// Documents delivers ingested files. Closed when Run returns.
func (w *Watcher) Documents() <-chan Document {
	return w.out
}

// Run blocks until ctx is canceled, ingesting files as they appear.
// Unsupported or oversized files are logged and skipped, never fatal.
func (w *Watcher) Run(ctx context.Context) error {
	// Close the output channel on every exit path, including a failed
	// Add, so consumers ranging over Documents never hang.
	defer close(w.out)
	defer w.fs.Close()

	if err := w.fs.Add(w.dir); err != nil {
		return err
	}

	w.logger.Info().Str("dir", w.dir).Msg("ingest watcher started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("ingest watcher stopping")
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	if _, err := TypeForFilename(path); err != nil {
		return
	}
	text, err := FromFile(path, w.opts)
	if err != nil {
		w.logger.Warn().Err(err).Str("file", path).Msg("ingest failed")
		return
	}
	select {
	case w.out <- Document{Filename: path, Text: text}:
	case <-ctx.Done():
	}
}
