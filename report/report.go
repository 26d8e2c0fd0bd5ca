// Package report renders audit results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"logsequence/core"

	"github.com/fatih/color"
)

// Summary carries the run totals.
type Summary struct {
	TotalIDs             int `json:"total_ids"`
	TotalEvents          int `json:"total_events"`
	TotalInconsistencies int `json:"total_inconsistencies"`
}

// Report is the full result of one audit run. Empty flags the "no events
// parsed" condition, which is a valid (if suspicious) outcome and is
// surfaced as a warning, never a failure.
type Report struct {
	RunID           string               `json:"run_id"`
	CreatedAt       time.Time            `json:"created_at"`
	Summary         Summary              `json:"summary"`
	Inconsistencies []core.Inconsistency `json:"inconsistencies"`
	Empty           bool                 `json:"-"`
}

// New assembles a Report from a correlation group and the auditor's output.
func New(runID string, group core.Group, incs []core.Inconsistency) *Report {
	if incs == nil {
		incs = []core.Inconsistency{}
	}
	return &Report{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Summary: Summary{
			TotalIDs:             len(group),
			TotalEvents:          group.TotalEvents(),
			TotalInconsistencies: len(incs),
		},
		Inconsistencies: incs,
		Empty:           len(group) == 0,
	}
}

// Clean reports whether the audit found no inconsistencies.
func (r *Report) Clean() bool {
	return len(r.Inconsistencies) == 0
}

// WriteJSON serializes the report losslessly as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	headerColor = color.New(color.FgBlue, color.Bold)
)

// WriteHuman renders the line-oriented report.
func (r *Report) WriteHuman(w io.Writer) {
	fmt.Fprintf(w, "Total IDs: %d\n", r.Summary.TotalIDs)
	fmt.Fprintf(w, "Total events: %d\n", r.Summary.TotalEvents)
	fmt.Fprintf(w, "Total inconsistencies: %d\n\n", r.Summary.TotalInconsistencies)

	if r.Clean() {
		okColor.Fprintln(w, "No inconsistencies found.")
		return
	}

	failColor.Fprintln(w, "Inconsistencies:")
	sep := strings.Repeat("-", 80)
	fmt.Fprintln(w, sep)
	for i, inc := range r.Inconsistencies {
		headerColor.Fprintf(w, "[%d] ID=%s TYPE=%s\n", i+1, inc.CorrelationID, inc.Kind)
		fmt.Fprintf(w, "    %s\n", inc.Message)
		for _, ev := range inc.Events {
			fmt.Fprintf(w, "    at %s:%d ts=%s state=%s\n", ev.Source, ev.LineNo, formatTS(ev), ev.State)
			fmt.Fprintf(w, "      line: %s\n", ev.RawLine)
		}
		fmt.Fprintln(w, sep)
	}
}

func formatTS(ev *core.Event) string {
	if ev.Timestamp == nil {
		return "NA"
	}
	return ev.Timestamp.Format(time.RFC3339)
}
