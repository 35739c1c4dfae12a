package api

import "context"

// Executor runs a validated graph to completion, threading content-addressed
// outputs between nodes and recording evidence for every step.
type Executor interface {
	// Run executes the graph strictly serially in topological order and
	// returns a fresh Result. On failure the returned error is an
	// ExecutionError wrapping the original cause; the Result still holds
	// the outputs committed before the failure point.
	Run(ctx context.Context, g *Graph) (*Result, error)
}

// EvidenceStore is an append-only, ordered store of evidence events.
type EvidenceStore interface {
	// AppendEvent appends one event. Append order is preserved.
	AppendEvent(ctx context.Context, ev Event) error

	// ListEvents returns the events of a run in append order. An empty
	// executionID returns every stored event.
	ListEvents(ctx context.Context, executionID string) ([]Event, error)
}

// Policy evaluates immutable rule and state-machine definitions against an
// evidence trail. Policy is law: definitions cannot be overridden after
// construction and enforcement is always strict.
type Policy interface {
	// Enforcement returns the engine's immutable enforcement mode.
	Enforcement() Enforcement

	// CheckRules evaluates every loaded rule against the evidence,
	// recording a policy_check event per rule. The whole batch is always
	// evaluated; if any error-severity rule failed, the result map is
	// returned together with a PolicyError for the first such rule.
	CheckRules(ctx context.Context, evidence []Event, rec Recorder) (map[string]bool, error)

	// CanTransition reports whether the named lifecycle transition is
	// legal given the evidence. Unknown states, transitions, or required
	// rule names fail closed.
	CanTransition(fromState, toState string, evidence []Event) bool
}

// Enforcement is the policy engine's enforcement mode. It is fixed at
// construction; there is no runtime override mechanism.
type Enforcement string

// EnforceStrict aborts the governed operation whenever an error-severity
// rule fails. It is the only mode this engine ships.
const EnforceStrict Enforcement = "strict"
