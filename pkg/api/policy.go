package api

// RuleType selects the evaluation strategy for a policy rule. Unknown
// types always fail closed under strict enforcement.
type RuleType string

const (
	RuleEvidenceCheck   RuleType = "evidence_check"
	RuleExecutionCheck  RuleType = "execution_check"
	RuleLineageCheck    RuleType = "lineage_check"
	RuleValidationCheck RuleType = "validation_check"
	RuleIntegrityCheck  RuleType = "integrity_check"
)

// Severity decides what a failing rule does: error aborts the governed
// operation, warning is recorded and ignored.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// PolicyRule is one immutable rule definition. Transition rules reusable
// across state transitions are structurally identical and referenced by
// Name.
type PolicyRule struct {
	ID       string
	Name     string
	Type     RuleType
	Severity Severity

	// Check names a type-specific named check, e.g. the execution_check
	// "deterministic_execution" or an integrity_check registered by name.
	Check string

	// EvidenceType selects the events an evidence_check looks at.
	EvidenceType string

	// Condition, when set, must hold for every matching event of an
	// evidence_check.
	Condition Condition
}

// StateTransition names a target state and the transition rules that must
// pass for the transition to be legal.
type StateTransition struct {
	To       string
	Requires []string
}

// StateDef is one lifecycle state and its outbound transitions.
type StateDef struct {
	ID          string
	Transitions []StateTransition
}

// IntegrityCheckFunc verifies collaborator-supplied integrity evidence,
// e.g. that a bundle was sealed. Checks are registered explicitly by name
// at policy construction.
type IntegrityCheckFunc func(evidence []Event) bool
