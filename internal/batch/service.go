package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/analyze"
	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/extract"
	"github.com/quizforge/quizforge/internal/ingest"
	"github.com/quizforge/quizforge/internal/merge"
	"github.com/quizforge/quizforge/internal/quiz"
)

// Service runs the document pipeline over a batch of uploads: each file
// is read, format-detected, extracted, and analyzed on its own, then
// the per-file question lists are merged in upload order.
type Service struct {
	cache   FileCache
	sink    ProgressSink
	metrics *Metrics
	logger  zerolog.Logger
	ingest  ingest.Options
}

type ServiceOptions struct {
	IngestOptions ingest.Options
}

// NewService wires the pipeline. Cache, sink, and metrics are optional;
// nil disables them.
func NewService(cache FileCache, sink ProgressSink, metrics *Metrics, logger zerolog.Logger, opts ServiceOptions) *Service {
	if sink == nil {
		sink = NopSink{}
	}
	return &Service{
		cache:   cache,
		sink:    sink,
		metrics: metrics,
		logger:  logger,
		ingest:  opts.IngestOptions,
	}
}

// ProcessFiles runs the batch. One bad file marks its own FileResult
// failed and the run continues; the batch as a whole errors only when
// no file succeeds or the merge strategy is unknown.
func (s *Service) ProcessFiles(ctx context.Context, files []FileInput, opts ProcessOptions) (Result, error) {
	if len(files) == 0 {
		return Result{}, fmt.Errorf("no files to process")
	}

	batchID := uuid.NewString()
	started := time.Now()
	result := Result{TotalFiles: len(files)}

	var merged []merge.FileQuestions
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		fr := s.processFile(ctx, batchID, file, i, len(files), opts)
		result.Files = append(result.Files, fr)
		if fr.Success {
			result.Succeeded++
			result.TotalQuestions += len(fr.Questions)
			merged = append(merged, merge.FileQuestions{Filename: file.Filename, Questions: fr.Questions})
		} else {
			result.Failed++
		}
	}

	if result.Succeeded == 0 {
		return result, fmt.Errorf("all %d files failed", len(files))
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = merge.DefaultStrategy
	}
	s.sink.Publish(ProgressEvent{BatchID: batchID, Stage: StageMerge, FileCount: len(files)})
	out, err := merge.Merge(strategy, merged, merge.Options{SimilarityThreshold: opts.SimilarityThreshold})
	if err != nil {
		return result, err
	}
	result.MergeStrategy = strategy
	result.Questions = out.Questions
	result.UniqueQuestions = len(out.Questions)
	result.MergedQuiz = quiz.Quiz{
		Title:       opts.Title,
		Description: opts.Description,
		Subject:     opts.Subject,
		Questions:   out.Questions,
	}
	result.Conflicts = out.Conflicts
	result.DuplicatesRemoved = out.DuplicatesRemoved

	_, result.Report = analyze.AnalyzeQuiz(result.Questions)
	result.ElapsedMS = time.Since(started).Milliseconds()

	s.sink.Publish(ProgressEvent{BatchID: batchID, Stage: StageDone, FileCount: len(files)})
	s.logger.Info().
		Str("batch_id", batchID).
		Int("files", len(files)).
		Int("succeeded", result.Succeeded).
		Int("questions", len(result.Questions)).
		Int("conflicts", len(result.Conflicts)).
		Dur("elapsed", time.Since(started)).
		Msg("batch processed")
	return result, nil
}

func (s *Service) processFile(ctx context.Context, batchID string, file FileInput, idx, total int, opts ProcessOptions) FileResult {
	started := time.Now()
	fr := FileResult{Filename: file.Filename}
	fail := func(err error) FileResult {
		fr.Error = err.Error()
		fr.DurationMS = time.Since(started).Milliseconds()
		s.observe(fr, started)
		s.sink.Publish(ProgressEvent{BatchID: batchID, Stage: StageDone, Filename: file.Filename, FileIndex: idx, FileCount: total, Error: fr.Error})
		s.logger.Warn().Err(err).Str("filename", file.Filename).Msg("file failed")
		return fr
	}
	progress := func(stage string) {
		s.sink.Publish(ProgressEvent{BatchID: batchID, Stage: stage, Filename: file.Filename, FileIndex: idx, FileCount: total})
	}

	if cached := s.lookupCache(ctx, file.Data); cached != nil {
		fr.Success = true
		fr.Format = cached.Format
		fr.Confidence = cached.Confidence
		fr.Questions = cached.Questions
		fr.Warnings = cached.Warnings
		fr.Analyses = analyzeAll(cached.Questions)
		fr.DurationMS = time.Since(started).Milliseconds()
		if s.metrics != nil {
			s.metrics.CacheHits.Inc()
		}
		s.observe(fr, started)
		progress(StageDone)
		return fr
	}

	progress(StageIngest)
	src, err := ingest.TypeForFilename(file.Filename)
	if err != nil {
		return fail(err)
	}
	text, err := ingest.FromBytes(file.Data, src, s.ingest)
	if err != nil {
		return fail(err)
	}

	progress(StageDetect)
	detection := detect.DetectWithTemplates(text, opts.Templates)
	fr.Format = detection.Format
	fr.Confidence = detection.Confidence

	progress(StageExtract)
	extractor := extract.New(extract.Options{ExpectedOptionCount: opts.ExpectedOptionCount})
	questions, warnings := extractor.Extract(text, detection.Format)
	fr.Questions = questions
	fr.Warnings = warnings

	progress(StageAnalyze)
	fr.Analyses = analyzeAll(questions)

	fr.Success = true
	fr.DurationMS = time.Since(started).Milliseconds()
	s.observe(fr, started)
	s.storeCache(ctx, file.Data, CachedExtraction{
		Format:     fr.Format,
		Confidence: fr.Confidence,
		Questions:  fr.Questions,
		Warnings:   fr.Warnings,
	})
	return fr
}

func (s *Service) lookupCache(ctx context.Context, data []byte) *CachedExtraction {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, CacheKey(data))
	if err != nil {
		s.logger.Warn().Err(err).Msg("extraction cache get failed")
		return nil
	}
	return cached
}

func (s *Service) storeCache(ctx context.Context, data []byte, value CachedExtraction) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, CacheKey(data), value); err != nil {
		s.logger.Warn().Err(err).Msg("extraction cache set failed")
	}
}

func (s *Service) observe(fr FileResult, started time.Time) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if !fr.Success {
		outcome = "failure"
	}
	s.metrics.FilesProcessed.WithLabelValues(outcome).Inc()
	s.metrics.QuestionsExtracted.Add(float64(len(fr.Questions)))
	s.metrics.FileDuration.Observe(time.Since(started).Seconds())
}

func analyzeAll(questions []quiz.Question) []analyze.Analysis {
	analyses := make([]analyze.Analysis, 0, len(questions))
	for _, q := range questions {
		analyses = append(analyses, analyze.Analyze(q))
	}
	return analyses
}
