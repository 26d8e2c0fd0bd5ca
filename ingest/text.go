package ingest

import (
	"fmt"
	"regexp"

	"logsequence/metrics"
	"logsequence/util"
)

// Patterns holds the compiled extraction patterns for plain-text logs. ID
// and State are required; Timestamp may be nil when no timestamp pattern was
// configured.
type Patterns struct {
	ID        *regexp.Regexp
	State     *regexp.Regexp
	Timestamp *regexp.Regexp
}

// CompilePatterns validates and compiles the three extraction expressions.
// The patterns come from the command line, so each goes through the
// RegexValidator before compiling. A missing ID or state expression is a
// configuration error; the timestamp expression is optional.
func CompilePatterns(idExpr, stateExpr, tsExpr string, validator *util.RegexValidator) (*Patterns, error) {
	if idExpr == "" || stateExpr == "" {
		return nil, fmt.Errorf("regex-id and regex-state are required for text format")
	}
	p := &Patterns{}
	var err error
	if p.ID, err = validator.Compile(idExpr); err != nil {
		return nil, fmt.Errorf("invalid id pattern: %w", err)
	}
	if p.State, err = validator.Compile(stateExpr); err != nil {
		return nil, fmt.Errorf("invalid state pattern: %w", err)
	}
	if tsExpr != "" {
		if p.Timestamp, err = validator.Compile(tsExpr); err != nil {
			return nil, fmt.Errorf("invalid timestamp pattern: %w", err)
		}
	}
	return p, nil
}

// TextAdapter extracts Records from plain-text log lines via regex. Lines
// where either the ID or the state pattern fails to match are skipped.
type TextAdapter struct {
	patterns *Patterns
}

// NewTextAdapter creates a TextAdapter for compiled patterns.
func NewTextAdapter(patterns *Patterns) *TextAdapter {
	return &TextAdapter{patterns: patterns}
}

// Extract applies the patterns to one line. The second return value is
// false when the line is unusable.
func (a *TextAdapter) Extract(line string) (Record, bool) {
	id, okID := capture(a.patterns.ID, line, "id", false)
	state, okState := capture(a.patterns.State, line, "state", false)
	if !okID || !okState {
		metrics.LinesSkipped.WithLabelValues("missing_fields").Inc()
		return Record{}, false
	}

	tsRaw := ""
	if a.patterns.Timestamp != nil {
		// The timestamp falls back to the whole match when there is no
		// capture group; a non-matching timestamp just stays absent.
		tsRaw, _ = capture(a.patterns.Timestamp, line, "ts", true)
	}
	return Record{ID: id, State: state, TimestampRaw: tsRaw, RawLine: line}, true
}

// capture runs a pattern against a line and returns the extracted value: a
// named capture group is preferred, falling back to the first unnamed
// capture group, or to the whole match when wholeMatchFallback is set.
func capture(re *regexp.Regexp, line, name string, wholeMatchFallback bool) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if idx := re.SubexpIndex(name); idx > 0 && idx < len(m) && m[idx] != "" {
		return m[idx], true
	}
	if len(m) > 1 && m[1] != "" {
		return m[1], true
	}
	if wholeMatchFallback {
		return m[0], true
	}
	return "", false
}
