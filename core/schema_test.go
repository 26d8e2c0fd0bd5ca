package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &parsed
}

func TestSortEvents_ByTimestamp(t *testing.T) {
	events := []*Event{
		{State: "DONE", Timestamp: ts(t, "2025-11-21T13:05:18Z"), LineNo: 3},
		{State: "NEW", Timestamp: ts(t, "2025-11-21T13:05:12Z"), LineNo: 1},
		{State: "RUNNING", Timestamp: ts(t, "2025-11-21T13:05:14Z"), LineNo: 2},
	}

	sorted := SortEvents(events)
	assert.Equal(t, []string{"NEW", "RUNNING", "DONE"}, statesOf(sorted))
	// input untouched
	assert.Equal(t, "DONE", events[0].State)
}

func TestSortEvents_MissingTimestampsSortEarliest(t *testing.T) {
	events := []*Event{
		{State: "RUNNING", Timestamp: ts(t, "2025-11-21T13:05:14Z"), LineNo: 1},
		{State: "NEW", Timestamp: nil, LineNo: 2},
	}

	sorted := SortEvents(events)
	assert.Equal(t, []string{"NEW", "RUNNING"}, statesOf(sorted))
}

func TestSortEvents_LineNoTieBreak(t *testing.T) {
	events := []*Event{
		{State: "C", Timestamp: nil, LineNo: 7},
		{State: "A", Timestamp: nil, LineNo: 2},
		{State: "B", Timestamp: nil, LineNo: 5},
	}

	sorted := SortEvents(events)
	assert.Equal(t, []string{"A", "B", "C"}, statesOf(sorted))
}

func TestEvent_When(t *testing.T) {
	ev := &Event{Timestamp: nil}
	assert.True(t, ev.When().IsZero())

	stamp := ts(t, "2025-11-21T13:05:12Z")
	ev = &Event{Timestamp: stamp}
	assert.Equal(t, *stamp, ev.When())
}

func TestGroup_IDsAndTotals(t *testing.T) {
	g := Group{
		"b": {{State: "NEW"}, {State: "DONE"}},
		"a": {{State: "NEW"}},
	}

	assert.Equal(t, []string{"a", "b"}, g.IDs())
	assert.Equal(t, 3, g.TotalEvents())

	empty := Group{}
	assert.Empty(t, empty.IDs())
	assert.Equal(t, 0, empty.TotalEvents())
}

func statesOf(events []*Event) []string {
	states := make([]string, len(events))
	for i, ev := range events {
		states[i] = ev.State
	}
	return states
}
