package api

import "time"

// EventType identifies a kind of evidence event.
type EventType string

const (
	EventExecutionStart    EventType = "execution_start"
	EventNodeExecution     EventType = "node_execution"
	EventExecutionComplete EventType = "execution_complete"
	EventExecutionFailure  EventType = "execution_failure"
	EventPolicyCheck       EventType = "policy_check"
	EventValidation        EventType = "validation"
	EventBundleSealed      EventType = "bundle_sealed"
)

// Event is one record in the append-only evidence trail of a run. Events
// are created once, at the moment the fact they describe becomes true, and
// never edited or deleted. Ordering between the events of one run is
// significant: execution_start precedes node events precedes
// execution_complete/execution_failure.
type Event struct {
	// ExecutionID ties the event to a run.
	ExecutionID string

	Type EventType
	At   time.Time

	// Fields holds the event-specific payload.
	Fields map[string]any
}

// Field looks up an event field for policy evaluation. The event type is
// addressable under the well-known key "event_type", all other keys read
// from the payload.
func (e Event) Field(key string) (any, bool) {
	switch key {
	case "event_type":
		return string(e.Type), true
	case "execution_id":
		if e.ExecutionID != "" {
			return e.ExecutionID, true
		}
	}
	v, ok := e.Fields[key]
	return v, ok
}

// FieldBool reads a field as a bool, false when absent or of another type.
func (e Event) FieldBool(key string) bool {
	v, ok := e.Field(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
