package ingest

import (
	"logsequence/core"
	"logsequence/metrics"

	"go.uber.org/zap"
)

// Record is the raw adapter output for one usable log line: the correlation
// ID and state are already extracted, the timestamp is still the raw string.
// Adapters drop lines without both ID and state before a Record exists.
type Record struct {
	ID           string
	State        string
	TimestampRaw string
	Source       string
	LineNo       int
	RawLine      string
}

// Limits bounds ingestion memory. Zero means unlimited.
//
// MaxIDs caps the number of distinct correlation IDs: once reached, records
// for new IDs are dropped while already-known IDs keep accumulating (the cap
// bounds breadth, not depth). MaxEventsPerID caps events per ID in encounter
// order, so the earliest-encountered events are the ones retained.
type Limits struct {
	MaxIDs         int
	MaxEventsPerID int
}

// Ingestor normalizes adapter Records into a correlation Group, applying the
// configured limits and timestamp parsing strategy. It performs no I/O; file
// access is an adapter concern.
type Ingestor struct {
	parseTS TimestampParser
	limits  Limits
	format  string
	group   core.Group
	logger  *zap.SugaredLogger
}

// NewIngestor creates an Ingestor. The format tag only labels metrics.
func NewIngestor(parseTS TimestampParser, limits Limits, format string, logger *zap.SugaredLogger) *Ingestor {
	return &Ingestor{
		parseTS: parseTS,
		limits:  limits,
		format:  format,
		group:   make(core.Group),
		logger:  logger,
	}
}

// Add applies the ingestion limits to one record and, if accepted, appends
// the resulting event to its correlation group. Returns false when the
// record was dropped by a cap.
func (in *Ingestor) Add(rec Record) bool {
	events, known := in.group[rec.ID]

	if in.limits.MaxIDs > 0 && !known && len(in.group) >= in.limits.MaxIDs {
		metrics.RecordsDropped.WithLabelValues("max_ids").Inc()
		return false
	}
	if in.limits.MaxEventsPerID > 0 && len(events) >= in.limits.MaxEventsPerID {
		metrics.RecordsDropped.WithLabelValues("max_events_per_id").Inc()
		return false
	}

	in.group[rec.ID] = append(events, &core.Event{
		CorrelationID: rec.ID,
		State:         rec.State,
		Timestamp:     in.parseTS(rec.TimestampRaw),
		Source:        rec.Source,
		LineNo:        rec.LineNo,
		RawLine:       rec.RawLine,
	})
	metrics.EventsIngested.WithLabelValues(in.format).Inc()
	return true
}

// Group returns the accumulated correlation group.
func (in *Ingestor) Group() core.Group {
	return in.group
}
