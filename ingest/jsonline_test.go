package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFieldMap() FieldMap {
	return FieldMap{ID: "id", State: "state", Timestamp: "timestamp"}
}

func TestJSONAdapter_Extract(t *testing.T) {
	adapter := NewJSONAdapter(defaultFieldMap())

	line := `{"timestamp": "2025-11-21T13:05:12Z", "id": "abc", "state": "NEW"}`
	rec, ok := adapter.Extract(line)
	require.True(t, ok)
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, "NEW", rec.State)
	assert.Equal(t, "2025-11-21T13:05:12Z", rec.TimestampRaw)
	assert.Equal(t, line, rec.RawLine)
}

func TestJSONAdapter_ConfigurableFieldNames(t *testing.T) {
	adapter := NewJSONAdapter(FieldMap{ID: "request_id", State: "phase", Timestamp: "ts"})

	rec, ok := adapter.Extract(`{"ts": "2025-11-21T13:05:12Z", "request_id": "r1", "phase": "NEW"}`)
	require.True(t, ok)
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, "NEW", rec.State)
}

func TestJSONAdapter_SkipsUnparsableLine(t *testing.T) {
	adapter := NewJSONAdapter(defaultFieldMap())

	_, ok := adapter.Extract(`not json at all`)
	assert.False(t, ok)
}

func TestJSONAdapter_SkipsMissingFields(t *testing.T) {
	adapter := NewJSONAdapter(defaultFieldMap())

	_, ok := adapter.Extract(`{"id": "abc"}`)
	assert.False(t, ok)

	_, ok = adapter.Extract(`{"state": "NEW"}`)
	assert.False(t, ok)

	_, ok = adapter.Extract(`{"id": null, "state": "NEW"}`)
	assert.False(t, ok)
}

func TestJSONAdapter_MissingTimestampIsUsable(t *testing.T) {
	adapter := NewJSONAdapter(defaultFieldMap())

	rec, ok := adapter.Extract(`{"id": "abc", "state": "NEW"}`)
	require.True(t, ok)
	assert.Empty(t, rec.TimestampRaw)
}

func TestJSONAdapter_CoercesNonStringValues(t *testing.T) {
	adapter := NewJSONAdapter(defaultFieldMap())

	rec, ok := adapter.Extract(`{"id": 42, "state": "NEW"}`)
	require.True(t, ok)
	assert.Equal(t, "42", rec.ID)

	rec, ok = adapter.Extract(`{"id": 4.5, "state": "NEW"}`)
	require.True(t, ok)
	assert.Equal(t, "4.5", rec.ID)

	rec, ok = adapter.Extract(`{"id": true, "state": "NEW"}`)
	require.True(t, ok)
	assert.Equal(t, "true", rec.ID)
}
