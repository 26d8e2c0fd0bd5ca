package ingest

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp parsing modes. "auto" tries a small ordered list of known
// layouts; the fixed modes accept exactly one layout family.
const (
	TimestampModeAuto     = "auto"
	TimestampModeISO8601  = "iso8601"
	TimestampModeISO8601Z = "iso8601_z"
)

const (
	layoutISO8601         = "2006-01-02T15:04:05-0700"
	layoutISO8601Colon    = "2006-01-02T15:04:05-07:00"
	layoutISO8601Z        = "2006-01-02T15:04:05Z"
	layoutSpaceSeparated  = "2006-01-02 15:04:05"
	layoutSpaceWithOffset = "2006-01-02 15:04:05-0700"
)

// autoLayouts is the ordered list tried by auto mode.
var autoLayouts = []string{
	layoutISO8601,
	layoutISO8601Colon,
	layoutISO8601Z,
	layoutSpaceSeparated,
	layoutSpaceWithOffset,
}

// TimestampParser converts a raw timestamp string into an instant. A nil
// result means the value could not be parsed; that is not an error, the
// event is kept with an absent timestamp.
type TimestampParser func(raw string) *time.Time

// ParserForMode returns the TimestampParser for a configured mode name. An
// unrecognized mode is a configuration error.
func ParserForMode(mode string) (TimestampParser, error) {
	switch mode {
	case TimestampModeAuto:
		return parseWith(autoLayouts...), nil
	case TimestampModeISO8601:
		return parseWith(layoutISO8601, layoutISO8601Colon), nil
	case TimestampModeISO8601Z:
		return parseWith(layoutISO8601Z), nil
	default:
		return nil, fmt.Errorf("unknown timestamp format %q (want auto, iso8601 or iso8601_z)", mode)
	}
}

func parseWith(layouts ...string) TimestampParser {
	return func(raw string) *time.Time {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return &ts
			}
		}
		return nil
	}
}
