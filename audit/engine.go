// Package audit implements the per-correlation-ID state sequence auditor.
//
// Given a correlation Group and an allowed StateOrder, the auditor walks
// each ID's events in canonical order and classifies every violation of the
// declared progression: unknown states, consecutive duplicates, rank
// regressions, and skipped states. The computation is pure and in-memory;
// IDs are independent and are fanned out across a worker pool.
package audit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"logsequence/core"
	"logsequence/metrics"

	"go.uber.org/zap"
)

// Auditor audits correlation groups against an allowed state order.
type Auditor struct {
	order            *core.StateOrder
	ignoreDuplicates bool
	workers          int
	logger           *zap.SugaredLogger
}

// New creates an Auditor. A nil or empty state order is a configuration
// error and is rejected here, before any group processing starts.
func New(order *core.StateOrder, ignoreDuplicates bool, workers int, logger *zap.SugaredLogger) (*Auditor, error) {
	if order == nil || order.Len() == 0 {
		return nil, fmt.Errorf("allowed-order definition is empty")
	}
	if workers < 1 {
		workers = 1
	}
	return &Auditor{
		order:            order,
		ignoreDuplicates: ignoreDuplicates,
		workers:          workers,
		logger:           logger,
	}, nil
}

// Run audits every correlation ID in the group and returns the merged
// inconsistency list. IDs are processed in parallel with per-ID result
// slots, then concatenated in sorted-ID order, so the output ordering is
// deterministic: by correlation ID, then by detection order within the ID.
// An empty group yields an empty list.
func (a *Auditor) Run(group core.Group) []core.Inconsistency {
	start := time.Now()
	ids := group.IDs()
	results := make([][]core.Inconsistency, len(ids))

	pool := core.NewWorkerPool(a.workers, len(ids), a.logger)
	pool.Start()
	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = a.auditSequence(id, group[id])
		}); err != nil {
			// Queue is sized to the ID count, so this only happens if the
			// pool was stopped underneath us; fall back to inline.
			results[i] = a.auditSequence(id, group[id])
			wg.Done()
		}
	}
	wg.Wait()
	pool.Stop()

	var all []core.Inconsistency
	for _, incs := range results {
		all = append(all, incs...)
	}
	for _, inc := range all {
		metrics.InconsistenciesFound.WithLabelValues(string(inc.Kind)).Inc()
	}
	metrics.AuditDuration.Observe(time.Since(start).Seconds())

	a.logger.Debugw("Audit complete",
		"ids", len(ids),
		"events", group.TotalEvents(),
		"inconsistencies", len(all),
		"elapsed", time.Since(start))
	return all
}

// auditSequence runs the single-pass audit for one correlation ID.
//
// The walk tracks (lastRank, lastState), both starting unset. An unknown
// state is reported but stays invisible to progression tracking, so a later
// known state is still compared against the last known state before it. A
// consecutive duplicate is reported (unless ignored) but updates tracking
// regardless; duplicates do not block progression. On a state change, the
// regression and skipped-state checks run independently: backward movement
// and non-contiguous movement are distinct questions even though rank is a
// total order.
func (a *Auditor) auditSequence(id string, events []*core.Event) []core.Inconsistency {
	var incs []core.Inconsistency

	lastRank := -1
	lastState := ""
	haveLast := false

	for _, ev := range core.SortEvents(events) {
		currRank, known := a.order.Rank(ev.State)
		if !known {
			incs = append(incs, core.Inconsistency{
				CorrelationID: id,
				Kind:          core.KindUnknownState,
				Message:       fmt.Sprintf("Unknown state '%s' for id=%s", ev.State, id),
				Events:        []*core.Event{ev},
			})
			continue
		}

		if haveLast && lastState == ev.State {
			if !a.ignoreDuplicates {
				incs = append(incs, core.Inconsistency{
					CorrelationID: id,
					Kind:          core.KindDuplicateState,
					Message:       fmt.Sprintf("Duplicate state '%s' for id=%s", ev.State, id),
					Events:        []*core.Event{ev},
				})
			}
		} else {
			if haveLast && currRank < lastRank {
				incs = append(incs, core.Inconsistency{
					CorrelationID: id,
					Kind:          core.KindRegression,
					Message:       fmt.Sprintf("State regression for id=%s: '%s' -> '%s'", id, lastState, ev.State),
					Events:        []*core.Event{ev},
				})
			}
			if haveLast && currRank > lastRank+1 {
				missing := a.order.Between(lastRank, currRank)
				incs = append(incs, core.Inconsistency{
					CorrelationID: id,
					Kind:          core.KindSkippedState,
					Message: fmt.Sprintf("Skipped states for id=%s: %s (jumped to '%s')",
						id, strings.Join(missing, " > "), ev.State),
					Events: []*core.Event{ev},
				})
			}
		}

		lastRank = currRank
		lastState = ev.State
		haveLast = true
	}

	return incs
}
