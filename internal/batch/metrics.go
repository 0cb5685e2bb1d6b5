package batch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects pipeline counters for the /metrics endpoint.
type Metrics struct {
	FilesProcessed     *prometheus.CounterVec
	QuestionsExtracted prometheus.Counter
	CacheHits          prometheus.Counter
	FileDuration       prometheus.Histogram
}

// NewMetrics registers pipeline metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizforge_files_processed_total",
			Help: "Documents processed, labeled by outcome.",
		}, []string{"outcome"}),
		QuestionsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizforge_questions_extracted_total",
			Help: "Questions produced by the extraction pipeline.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizforge_extraction_cache_hits_total",
			Help: "Uploads served from the extraction cache.",
		}),
		FileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quizforge_file_processing_seconds",
			Help:    "Per-file pipeline latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.FilesProcessed, m.QuestionsExtracted, m.CacheHits, m.FileDuration)
	return m
}
