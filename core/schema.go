package core

import (
	"sort"
	"time"
)

// Event is a single normalized log line tagged with a correlation ID and a
// state label. Timestamp is nil when the source line carried no parseable
// timestamp; a nil timestamp sorts as the earliest possible instant with the
// original line number as tie-break, so ordering never fails.
type Event struct {
	CorrelationID string     `json:"id"`
	State         string     `json:"state"`
	Timestamp     *time.Time `json:"timestamp"`
	Source        string     `json:"source_file"`
	LineNo        int        `json:"line_no"`
	RawLine       string     `json:"raw_line"`
}

// When returns the sort instant for the event. Missing timestamps collapse
// to the zero time so they order before any real timestamp.
func (e *Event) When() time.Time {
	if e.Timestamp == nil {
		return time.Time{}
	}
	return *e.Timestamp
}

// SortEvents returns a new slice sorted by (timestamp-or-earliest, line
// number) ascending. The input slice is not modified. The line-number
// tie-break keeps the ordering stable and reproducible even when timestamps
// are partially missing or source lines interleave across files.
func SortEvents(events []*Event) []*Event {
	sorted := make([]*Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].When(), sorted[j].When()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return sorted[i].LineNo < sorted[j].LineNo
	})
	return sorted
}

// Group maps a correlation ID to the events ingested for that ID. Insertion
// order of IDs is irrelevant; the auditor re-derives event order per ID.
type Group map[string][]*Event

// IDs returns the correlation IDs in sorted order.
func (g Group) IDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TotalEvents returns the number of events across all IDs.
func (g Group) TotalEvents() int {
	total := 0
	for _, events := range g {
		total += len(events)
	}
	return total
}
