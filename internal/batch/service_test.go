package batch

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/merge"
	"github.com/quizforge/quizforge/internal/quiz"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string]CachedExtraction
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]CachedExtraction{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (*CachedExtraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.items[key]; ok {
		return &v, nil
	}
	return nil, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value CachedExtraction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recordingSink) Publish(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Stage)
	}
	return out
}

const mcqDoc = `1. What is 2+2?
A) 3
B) 4
C) 5
D) 6
Answer: B

2. What is the capital of France?
A) London
B) Berlin
C) Paris
D) Madrid
Answer: C
`

func newTestService(cache FileCache, sink ProgressSink) *Service {
	return NewService(cache, sink, nil, zerolog.Nop(), ServiceOptions{})
}

func TestProcessFilesHappyPath(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "math.txt", Data: []byte(mcqDoc)},
	}, ProcessOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalFiles)
	assert.Equal(t, 1, result.Succeeded)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Questions, 2)
	assert.Equal(t, "What is 2+2?", result.Questions[0].Text)
	assert.Equal(t, detect.FormatMCQ, result.Files[0].Format)
	assert.True(t, result.Files[0].Success)
	require.Len(t, result.Files[0].Analyses, 2)
	assert.NotZero(t, result.Report.AverageScore)
}

func TestProcessFilesReportsMergeCountsAndQuiz(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "a.txt", Data: []byte(mcqDoc)},
		{Filename: "b.txt", Data: []byte(mcqDoc)},
	}, ProcessOptions{Title: "Arithmetic", Subject: "math"})
	require.NoError(t, err)

	// Two identical files: four extracted, two after smart-merge.
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 2, result.UniqueQuestions)
	assert.Equal(t, merge.StrategySmartMerge, result.MergeStrategy)

	assert.Equal(t, "Arithmetic", result.MergedQuiz.Title)
	assert.Equal(t, "math", result.MergedQuiz.Subject)
	assert.Equal(t, result.Questions, result.MergedQuiz.Questions)
}

func TestProcessFilesIsolatesFailures(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "quiz.txt", Data: []byte(mcqDoc)},
		{Filename: "broken.docx", Data: []byte("whatever")},
	}, ProcessOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Files, 2)
	assert.True(t, result.Files[0].Success)
	assert.False(t, result.Files[1].Success)
	assert.Contains(t, result.Files[1].Error, "unsupported file type")
	assert.Len(t, result.Questions, 2)
}

func TestProcessFilesAllFailed(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "a.docx", Data: []byte("x")},
		{Filename: "b.xlsx", Data: []byte("y")},
	}, ProcessOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 files failed")
	assert.Equal(t, 2, result.Failed)
}

func TestProcessFilesRejectsEmptyBatch(t *testing.T) {
	svc := newTestService(nil, nil)
	_, err := svc.ProcessFiles(context.Background(), nil, ProcessOptions{})
	require.Error(t, err)
}

func TestProcessFilesUnknownStrategy(t *testing.T) {
	svc := newTestService(nil, nil)
	_, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "quiz.txt", Data: []byte(mcqDoc)},
	}, ProcessOptions{Strategy: "zipper"})
	require.Error(t, err)
}

func TestProcessFilesUsesCache(t *testing.T) {
	cache := newMemoryCache()
	cache.items[CacheKey([]byte("cached content"))] = CachedExtraction{
		Format:     detect.FormatShortAnswer,
		Confidence: 0.9,
		Questions: []quiz.Question{{
			ID: "cached-1", Text: "From cache?", Type: quiz.TypeShortAnswer, Points: 1,
		}},
	}
	svc := newTestService(cache, nil)

	result, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "anything.txt", Data: []byte("cached content")},
	}, ProcessOptions{})
	require.NoError(t, err)

	require.Len(t, result.Questions, 1)
	assert.Equal(t, "cached-1", result.Questions[0].ID)
	assert.Equal(t, detect.FormatShortAnswer, result.Files[0].Format)
}

func TestProcessFilesPopulatesCache(t *testing.T) {
	cache := newMemoryCache()
	svc := newTestService(cache, nil)

	_, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "quiz.txt", Data: []byte(mcqDoc)},
	}, ProcessOptions{})
	require.NoError(t, err)

	cached, err := cache.Get(context.Background(), CacheKey([]byte(mcqDoc)))
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Len(t, cached.Questions, 2)
}

func TestProcessFilesPublishesProgress(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(nil, sink)

	_, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "quiz.txt", Data: []byte(mcqDoc)},
	}, ProcessOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{StageIngest, StageDetect, StageExtract, StageAnalyze, StageMerge, StageDone}, sink.stages())
}

func TestProcessFilesAppendKeepsDuplicates(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.ProcessFiles(context.Background(), []FileInput{
		{Filename: "a.txt", Data: []byte(mcqDoc)},
		{Filename: "b.txt", Data: []byte(mcqDoc)},
	}, ProcessOptions{Strategy: merge.StrategyAppend})
	require.NoError(t, err)

	assert.Len(t, result.Questions, 4)
	assert.Empty(t, result.Conflicts)
}

func TestProcessFilesHonorsContextCancel(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ProcessFiles(ctx, []FileInput{
		{Filename: "quiz.txt", Data: []byte(mcqDoc)},
	}, ProcessOptions{})
	require.ErrorIs(t, err, context.Canceled)
}
