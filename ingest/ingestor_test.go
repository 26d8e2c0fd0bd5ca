package ingest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIngestor(t *testing.T, limits Limits) *Ingestor {
	t.Helper()
	parse, err := ParserForMode(TimestampModeAuto)
	require.NoError(t, err)
	return NewIngestor(parse, limits, "json", zap.NewNop().Sugar())
}

func TestIngestor_Add(t *testing.T) {
	ing := newTestIngestor(t, Limits{})

	ok := ing.Add(Record{ID: "abc", State: "NEW", TimestampRaw: "2025-11-21T13:05:12Z", Source: "a.log", LineNo: 1})
	assert.True(t, ok)

	group := ing.Group()
	require.Len(t, group["abc"], 1)
	ev := group["abc"][0]
	assert.Equal(t, "abc", ev.CorrelationID)
	assert.Equal(t, "NEW", ev.State)
	assert.NotNil(t, ev.Timestamp)
	assert.Equal(t, "a.log", ev.Source)
	assert.Equal(t, 1, ev.LineNo)
}

func TestIngestor_UnparsableTimestampKeptAbsent(t *testing.T) {
	ing := newTestIngestor(t, Limits{})

	ok := ing.Add(Record{ID: "abc", State: "NEW", TimestampRaw: "garbage"})
	assert.True(t, ok)
	assert.Nil(t, ing.Group()["abc"][0].Timestamp)
}

func TestIngestor_MaxEventsPerID(t *testing.T) {
	ing := newTestIngestor(t, Limits{MaxEventsPerID: 2})

	// Encounter order NEW, RUNNING, DONE: the cap keeps the two
	// earliest-encountered events regardless of timestamps.
	assert.True(t, ing.Add(Record{ID: "abc", State: "NEW", TimestampRaw: "2025-11-21T13:05:18Z"}))
	assert.True(t, ing.Add(Record{ID: "abc", State: "RUNNING", TimestampRaw: "2025-11-21T13:05:12Z"}))
	assert.False(t, ing.Add(Record{ID: "abc", State: "DONE", TimestampRaw: "2025-11-21T13:05:01Z"}))

	events := ing.Group()["abc"]
	require.Len(t, events, 2)
	assert.Equal(t, "NEW", events[0].State)
	assert.Equal(t, "RUNNING", events[1].State)
}

func TestIngestor_MaxIDs(t *testing.T) {
	ing := newTestIngestor(t, Limits{MaxIDs: 2})

	assert.True(t, ing.Add(Record{ID: "a", State: "NEW"}))
	assert.True(t, ing.Add(Record{ID: "b", State: "NEW"}))

	// New IDs are dropped once the cap is reached...
	assert.False(t, ing.Add(Record{ID: "c", State: "NEW"}))
	// ...but already-known IDs keep accumulating.
	assert.True(t, ing.Add(Record{ID: "a", State: "RUNNING"}))

	group := ing.Group()
	assert.Len(t, group, 2)
	assert.Len(t, group["a"], 2)
	assert.NotContains(t, group, "c")
}

func TestIngestor_ZeroLimitsMeanUnlimited(t *testing.T) {
	ing := newTestIngestor(t, Limits{})

	for i := 0; i < 50; i++ {
		assert.True(t, ing.Add(Record{ID: fmt.Sprintf("id-%d", i), State: "NEW"}))
	}
	assert.Len(t, ing.Group(), 50)
}
