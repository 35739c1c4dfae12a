// Package policy implements the policy engine: immutable rule and
// state-machine definitions evaluated against an evidence trail. Policy is
// law here: a failing error-severity rule always aborts, unknown rule
// types and unresolved lookups fail closed, and nothing can be overridden
// after construction.
package policy

import (
	"context"
	"fmt"

	"github.com/provenantdev/provenant/pkg/api"
)

// Engine holds loaded definitions and answers rule checks and transition
// legality. All fields are fixed at construction, so an Engine may be
// shared read-only across concurrent evaluations.
type Engine struct {
	enforcement     api.Enforcement
	rules           []api.PolicyRule
	states          map[string]api.StateDef
	transitionRules map[string]api.PolicyRule
	integrity       map[string]api.IntegrityCheckFunc
}

// Config describes how to construct an Engine. External callers use the
// constructors in the provenant package.
type Config struct {
	Rules           []api.PolicyRule
	States          []api.StateDef
	TransitionRules []api.PolicyRule

	// IntegrityChecks registers named integrity_check verifiers in
	// addition to the built-in sealing check.
	IntegrityChecks map[string]api.IntegrityCheckFunc
}

// Ensure Engine implements the interface.
var _ api.Policy = (*Engine)(nil)

// New creates an Engine from explicit definitions.
func New(cfg Config) *Engine {
	e := &Engine{
		enforcement:     api.EnforceStrict,
		rules:           cfg.Rules,
		states:          make(map[string]api.StateDef, len(cfg.States)),
		transitionRules: make(map[string]api.PolicyRule, len(cfg.TransitionRules)),
		integrity:       make(map[string]api.IntegrityCheckFunc),
	}
	for _, st := range cfg.States {
		e.states[st.ID] = st
	}
	for _, r := range cfg.TransitionRules {
		name := r.Name
		if name == "" {
			name = r.ID
		}
		e.transitionRules[name] = r
	}

	// Built-in sealing check: passes iff collaborator-supplied sealing
	// evidence is present. "mtb_sealed" is the historical name.
	e.integrity["bundle_sealed"] = sealedEvidence
	e.integrity["mtb_sealed"] = sealedEvidence
	for name, fn := range cfg.IntegrityChecks {
		if fn != nil {
			e.integrity[name] = fn
		}
	}
	return e
}

// Enforcement returns the engine's immutable enforcement mode.
func (e *Engine) Enforcement() api.Enforcement { return e.enforcement }

// Rules returns a copy of the loaded rule definitions.
func (e *Engine) Rules() []api.PolicyRule {
	out := make([]api.PolicyRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// CheckRules evaluates every loaded rule against the evidence. Each
// evaluation is recorded via a policy_check event regardless of outcome.
// The full batch is always evaluated so the trail stays complete; if any
// error-severity rule failed, the first such failure surfaces as a
// PolicyError alongside the complete result map. Warning-severity failures
// are recorded but never abort.
func (e *Engine) CheckRules(ctx context.Context, evidence []api.Event, rec api.Recorder) (map[string]bool, error) {
	if rec == nil {
		rec = api.NoopRecorder{}
	}

	results := make(map[string]bool, len(e.rules))
	var violation *api.PolicyError

	for _, rule := range e.rules {
		passed := e.checkRule(rule, evidence)
		results[rule.ID] = passed

		if err := rec.RecordPolicyCheck(ctx, rule.ID, passed, map[string]any{
			"rule": describeRule(rule),
		}); err != nil {
			return results, fmt.Errorf("record policy check %s: %w", rule.ID, err)
		}

		if !passed && rule.Severity == api.SeverityError && violation == nil {
			violation = &api.PolicyError{RuleID: rule.ID, RuleName: rule.Name}
		}
	}

	if violation != nil && e.enforcement == api.EnforceStrict {
		return results, violation
	}
	return results, nil
}

// CanTransition reports whether the transition fromState → toState is
// legal given the evidence. Every lookup fails closed: an unknown state,
// an undeclared transition, or an undefined required rule name all deny
// the transition. The check is pure (no evidence is emitted), so short-
// circuiting on the first failing rule is fine.
func (e *Engine) CanTransition(fromState, toState string, evidence []api.Event) bool {
	st, ok := e.states[fromState]
	if !ok {
		return false
	}

	var transition *api.StateTransition
	for i := range st.Transitions {
		if st.Transitions[i].To == toState {
			transition = &st.Transitions[i]
			break
		}
	}
	if transition == nil {
		return false
	}

	for _, name := range transition.Requires {
		rule, ok := e.transitionRules[name]
		if !ok {
			return false
		}
		if !e.checkRule(rule, evidence) {
			return false
		}
	}
	return true
}

// checkRule dispatches a single rule by type. Unknown types fail closed:
// under strict enforcement a policy failure must never silently succeed.
func (e *Engine) checkRule(rule api.PolicyRule, evidence []api.Event) bool {
	switch rule.Type {
	case api.RuleEvidenceCheck:
		return checkEvidence(rule, evidence)
	case api.RuleExecutionCheck:
		return checkExecution(rule, evidence)
	case api.RuleLineageCheck:
		return checkLineage(evidence)
	case api.RuleValidationCheck:
		return checkValidation(evidence)
	case api.RuleIntegrityCheck:
		fn, ok := e.integrity[rule.Check]
		if !ok {
			return false
		}
		return fn(evidence)
	default:
		return false
	}
}

// checkEvidence passes when at least one event matches the rule's evidence
// type and, if a condition is given, every matching event satisfies it.
func checkEvidence(rule api.PolicyRule, evidence []api.Event) bool {
	var matched bool
	for _, ev := range evidence {
		if string(ev.Type) != rule.EvidenceType {
			continue
		}
		matched = true
		if rule.Condition != nil && !rule.Condition.Eval(ev) {
			return false
		}
	}
	return matched
}

// checkExecution handles named execution checks. Only
// "deterministic_execution" is defined: it passes iff the run completed.
// Unknown check names fail closed.
func checkExecution(rule api.PolicyRule, evidence []api.Event) bool {
	if rule.Check != "deterministic_execution" {
		return false
	}
	for _, ev := range evidence {
		if ev.Type == api.EventExecutionComplete {
			return true
		}
	}
	return false
}

// checkLineage passes when the evidence contains any execution trace at
// all: a start, a node execution, or a completion.
func checkLineage(evidence []api.Event) bool {
	for _, ev := range evidence {
		switch ev.Type {
		case api.EventExecutionStart, api.EventNodeExecution, api.EventExecutionComplete:
			return true
		}
	}
	return false
}

// checkValidation passes when at least one validation event exists and
// every one of them carries passed=true.
func checkValidation(evidence []api.Event) bool {
	var seen bool
	for _, ev := range evidence {
		if ev.Type != api.EventValidation {
			continue
		}
		seen = true
		if !ev.FieldBool("passed") {
			return false
		}
	}
	return seen
}

// sealedEvidence is the built-in integrity check: sealing evidence must be
// present in the trail.
func sealedEvidence(evidence []api.Event) bool {
	for _, ev := range evidence {
		if ev.Type == api.EventBundleSealed {
			return true
		}
	}
	return false
}

// describeRule flattens a rule definition for the policy_check event.
func describeRule(rule api.PolicyRule) map[string]any {
	desc := map[string]any{
		"id":       rule.ID,
		"type":     string(rule.Type),
		"severity": string(rule.Severity),
	}
	if rule.Name != "" {
		desc["name"] = rule.Name
	}
	if rule.Check != "" {
		desc["check"] = rule.Check
	}
	if rule.EvidenceType != "" {
		desc["evidence_type"] = rule.EvidenceType
	}
	if rule.Condition != nil {
		desc["condition"] = fmt.Sprintf("%+v", rule.Condition)
	}
	return desc
}
