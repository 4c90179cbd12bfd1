package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation metrics
	ReportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgreport_reports_generated_total",
			Help: "Total number of report documents written by profile",
		},
		[]string{"profile"},
	)

	ReportFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgreport_report_failures_total",
			Help: "Total number of failed generations by profile and error type",
		},
		[]string{"profile", "type"},
	)

	ReportPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgreport_report_pages_total",
			Help: "Total number of pages written by profile and part",
		},
		[]string{"profile", "part"}, // front, body
	)

	ReportDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bgreport_report_duration_seconds",
			Help:    "Time spent assembling one report document",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"profile"},
	)

	CandidatesProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bgreport_candidates_processed_total",
			Help: "Total number of candidate records rendered",
		},
	)

	// Watch mode
	WatchEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgreport_watch_events_total",
			Help: "Input files picked up by the watcher by outcome",
		},
		[]string{"outcome"}, // generated, failed, skipped
	)
)

// RecordReportGenerated records one written document
func RecordReportGenerated(profile string, frontPages, bodyPages, candidates int, took time.Duration) {
	ReportsGeneratedTotal.WithLabelValues(profile).Inc()
	ReportPagesTotal.WithLabelValues(profile, "front").Add(float64(frontPages))
	ReportPagesTotal.WithLabelValues(profile, "body").Add(float64(bodyPages))
	ReportDurationSeconds.WithLabelValues(profile).Observe(took.Seconds())
	CandidatesProcessedTotal.Add(float64(candidates))
}

// RecordReportFailed records a failed generation
func RecordReportFailed(profile, errorType string) {
	ReportFailuresTotal.WithLabelValues(profile, errorType).Inc()
}

// RecordWatchEvent records how the watcher handled an input file
func RecordWatchEvent(outcome string) {
	WatchEventsTotal.WithLabelValues(outcome).Inc()
}
