package core

// Kind classifies an inconsistency found during a sequence audit.
type Kind string

const (
	// KindUnknownState marks a state label absent from the allowed order.
	KindUnknownState Kind = "unknown_state"
	// KindDuplicateState marks a consecutive repeat of the same state.
	KindDuplicateState Kind = "duplicate_state"
	// KindRegression marks a transition to a strictly lower rank.
	KindRegression Kind = "regression"
	// KindSkippedState marks a rank advance of more than one step.
	KindSkippedState Kind = "skipped_state"
)

// Inconsistency is a single classified violation for one correlation ID.
// Events carries exactly the triggering event, never a range. Produced by
// the auditor and never mutated afterwards; ownership passes to the caller.
type Inconsistency struct {
	CorrelationID string   `json:"id"`
	Kind          Kind     `json:"type"`
	Message       string   `json:"message"`
	Events        []*Event `json:"events"`
}
