package ingest

import (
	"encoding/json"
	"fmt"

	"logsequence/metrics"
)

// FieldMap names the JSON fields to read the correlation ID, state and
// timestamp from. Multiple log shapes go through one code path by swapping
// the mapping instead of the parser.
type FieldMap struct {
	ID        string
	State     string
	Timestamp string
}

// JSONAdapter extracts Records from JSON-lines input. Lines that fail to
// decode or lack the ID or state field are skipped silently; that is the
// partial-failure policy, not an oversight.
type JSONAdapter struct {
	fields FieldMap
}

// NewJSONAdapter creates a JSONAdapter for the given field mapping.
func NewJSONAdapter(fields FieldMap) *JSONAdapter {
	return &JSONAdapter{fields: fields}
}

// Extract decodes one line. The second return value is false when the line
// is unusable.
func (a *JSONAdapter) Extract(line string) (Record, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		metrics.LinesSkipped.WithLabelValues("unparsable").Inc()
		return Record{}, false
	}

	id, okID := stringField(obj, a.fields.ID)
	state, okState := stringField(obj, a.fields.State)
	if !okID || !okState {
		metrics.LinesSkipped.WithLabelValues("missing_fields").Inc()
		return Record{}, false
	}

	tsRaw, _ := stringField(obj, a.fields.Timestamp)
	return Record{ID: id, State: state, TimestampRaw: tsRaw, RawLine: line}, true
}

// stringField reads a field and coerces it to a string. JSON numbers and
// booleans are usable correlation values; null and absent fields are not.
func stringField(obj map[string]interface{}, name string) (string, bool) {
	v, ok := obj[name]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		// Render integral values without a trailing ".0" so numeric IDs
		// match their textual form.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val)), true
		}
		return fmt.Sprintf("%v", val), true
	default:
		return fmt.Sprintf("%v", val), true
	}
}
