package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserForMode_Unknown(t *testing.T) {
	_, err := ParserForMode("rfc1123")
	assert.Error(t, err)
}

func TestParseTimestamp_ISO8601Z(t *testing.T) {
	parse, err := ParserForMode(TimestampModeISO8601Z)
	require.NoError(t, err)

	got := parse("2025-11-21T13:05:12Z")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 11, 21, 13, 5, 12, 0, time.UTC), got.UTC())

	// Offset form does not belong to this mode.
	assert.Nil(t, parse("2025-11-21T13:05:12+0100"))
}

func TestParseTimestamp_ISO8601(t *testing.T) {
	parse, err := ParserForMode(TimestampModeISO8601)
	require.NoError(t, err)

	got := parse("2025-11-21T13:05:12+0100")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 11, 21, 12, 5, 12, 0, time.UTC), got.UTC())

	got = parse("2025-11-21T13:05:12+01:00")
	require.NotNil(t, got)

	assert.Nil(t, parse("2025-11-21 13:05:12"))
}

func TestParseTimestamp_Auto(t *testing.T) {
	parse, err := ParserForMode(TimestampModeAuto)
	require.NoError(t, err)

	for _, raw := range []string{
		"2025-11-21T13:05:12Z",
		"2025-11-21T13:05:12+0100",
		"2025-11-21T13:05:12+01:00",
		"2025-11-21 13:05:12",
		"2025-11-21 13:05:12+0100",
	} {
		assert.NotNil(t, parse(raw), "raw=%s", raw)
	}
}

func TestParseTimestamp_UnparsableIsNil(t *testing.T) {
	parse, err := ParserForMode(TimestampModeAuto)
	require.NoError(t, err)

	assert.Nil(t, parse("not a timestamp"))
	assert.Nil(t, parse(""))
	assert.Nil(t, parse("   "))
}
