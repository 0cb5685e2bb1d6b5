package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/analyze"
	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/export"
	"github.com/quizforge/quizforge/internal/extract"
	"github.com/quizforge/quizforge/internal/ingest"
	"github.com/quizforge/quizforge/internal/merge"
	"github.com/quizforge/quizforge/internal/quiz"
)

// extract is the offline companion to the API: it runs the same
// pipeline over local files and writes the merged quiz to stdout or a
// file, no server required.
func main() {
	var (
		format   = flag.String("format", "json", "Export format: json, csv, txt, html, markdown, pdf")
		strategy = flag.String("strategy", string(merge.DefaultStrategy), "Merge strategy: append, replace, merge-by-topic, smart-merge")
		title    = flag.String("title", "", "Quiz title")
		subject  = flag.String("subject", "", "Quiz subject")
		answers  = flag.Bool("answers", true, "Include correct answers")
		points   = flag.Bool("points", false, "Include point values")
		output   = flag.String("o", "", "Output file (default: stdout)")
		verbose  = flag.Bool("v", false, "Log per-file details to stderr")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		logger = zerolog.Nop()
	}

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: extract [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	extractor := extract.New(extract.Options{})
	var files []merge.FileQuestions
	failures := 0

	for _, path := range paths {
		text, err := ingest.FromFile(path, ingest.Options{})
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("ingest failed")
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			failures++
			continue
		}

		detection := detect.Detect(text)
		questions, warnings := extractor.Extract(text, detection.Format)
		logger.Info().
			Str("file", path).
			Str("format", string(detection.Format)).
			Float64("confidence", detection.Confidence).
			Int("questions", len(questions)).
			Msg("extracted")
		for _, warning := range warnings {
			logger.Warn().Str("file", path).Msg(warning)
		}

		files = append(files, merge.FileQuestions{Filename: path, Questions: questions})
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no files could be processed")
		os.Exit(1)
	}

	out, err := merge.Merge(merge.Strategy(*strategy), files, merge.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, conflict := range out.Conflicts {
		logger.Info().
			Str("type", string(conflict.Type)).
			Str("resolution", string(conflict.Resolution)).
			Str("source", conflict.SourceFile).
			Msg("merge conflict")
	}

	q := quiz.Quiz{Title: *title, Subject: *subject, Questions: out.Questions}
	if q.Title == "" {
		q.Title = strings.TrimSuffix(paths[0], ".txt")
	}

	_, report := analyze.AnalyzeQuiz(q.Questions)
	logger.Info().
		Float64("average_score", report.AverageScore).
		Int("questions", len(q.Questions)).
		Int("duplicates_removed", out.DuplicatesRemoved).
		Msg("quiz assembled")
	for _, flagged := range report.Flags {
		fmt.Fprintln(os.Stderr, "note: "+flagged)
	}

	artifact, err := export.Export(q, export.Options{
		Format:          export.Format(*format),
		IncludeMetadata: true,
		IncludeAnswers:  *answers,
		IncludePoints:   *points,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *output == "" {
		os.Stdout.Write(artifact.Content)
	} else {
		if err := os.WriteFile(*output, artifact.Content, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", *output, artifact.Size)
	}

	if failures > 0 {
		os.Exit(1)
	}
}
