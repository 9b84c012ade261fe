package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// ImportedQuestions counts importer outcomes: found, accepted, inserted, duplicate, failed.
	ImportedQuestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_import_questions_total",
			Help: "Questions seen by the importer, by outcome",
		},
		[]string{"outcome"},
	)

	ImportedFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_import_files_total",
			Help: "Fixture files processed by the importer, by strategy and result",
		},
		[]string{"strategy", "result"},
	)

	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_cache_requests_total",
			Help: "Cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	AnswersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_submitted_total",
			Help: "Recorded answers, by correctness",
		},
		[]string{"correct"},
	)
)

const (
	OutcomeFound     = "found"
	OutcomeAccepted  = "accepted"
	OutcomeInserted  = "inserted"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

var initOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ImportedQuestions,
			ImportedFiles,
			CacheRequests,
			AnswersSubmitted,
		)
	})
}
