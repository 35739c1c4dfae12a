package api

import (
	"errors"
	"fmt"
)

// GraphError reports a structural problem with a graph: a dependency
// cycle or an edge referencing an unknown node.
type GraphError struct {
	Reason string
}

// NewGraphError creates a GraphError with the given reason.
func NewGraphError(reason string) *GraphError {
	return &GraphError{Reason: reason}
}

func (e *GraphError) Error() string {
	return "graph: " + e.Reason
}

// IsGraphError returns the typed error if err is (or wraps) a GraphError.
func IsGraphError(err error) (*GraphError, bool) {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// ExecutionError reports a failed run: graph validation, input validation,
// node execution, or a dependency output that was unexpectedly absent.
// The original cause is retained and reachable via errors.As/Is.
type ExecutionError struct {
	// NodeID is the node being executed when the run failed, empty for
	// failures outside the per-node loop.
	NodeID string
	Reason string
	Cause  error
}

func (e *ExecutionError) Error() string {
	msg := "execution: "
	if e.NodeID != "" {
		msg += "node " + e.NodeID + ": "
	}
	msg += e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// IsExecutionError returns the typed error if err is (or wraps) an
// ExecutionError.
func IsExecutionError(err error) (*ExecutionError, bool) {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// DeterminismError reports a violated purity contract: the recomputed
// content hash of a node's output does not match its claimed address.
type DeterminismError struct {
	NodeID         string
	ContentAddress string
	ComputedHash   string
}

func (e *DeterminismError) Error() string {
	return fmt.Sprintf("determinism: node %s: content address %q does not match computed hash %q",
		e.NodeID, e.ContentAddress, e.ComputedHash)
}

// IsDeterminismError returns the typed error if err is (or wraps) a
// DeterminismError.
func IsDeterminismError(err error) (*DeterminismError, bool) {
	var de *DeterminismError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// PolicyError reports a failed error-severity policy rule under strict
// enforcement.
type PolicyError struct {
	RuleID   string
	RuleName string
}

func (e *PolicyError) Error() string {
	msg := "policy: rule " + e.RuleID + " failed"
	if e.RuleName != "" {
		msg += ": " + e.RuleName
	}
	return msg
}

// IsPolicyError returns the typed error if err is (or wraps) a PolicyError.
func IsPolicyError(err error) (*PolicyError, bool) {
	var pe *PolicyError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
