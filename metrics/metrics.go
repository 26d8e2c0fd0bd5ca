package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsequence_events_ingested_total",
			Help: "Total number of events ingested",
		},
		[]string{"format"},
	)

	LinesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsequence_lines_skipped_total",
			Help: "Total number of log lines skipped during ingestion",
		},
		[]string{"reason"},
	)

	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsequence_records_dropped_total",
			Help: "Total number of records dropped by ingestion caps",
		},
		[]string{"reason"},
	)

	InconsistenciesFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logsequence_inconsistencies_total",
			Help: "Total number of inconsistencies detected",
		},
		[]string{"kind"},
	)

	AuditDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logsequence_audit_duration_seconds",
			Help:    "Time taken to audit all correlation groups",
			Buckets: prometheus.DefBuckets,
		},
	)
)
