package api

import (
	"context"

	"github.com/google/uuid"
)

// NodeInput is one content-addressed input handed to a work node.
type NodeInput struct {
	// ContentAddress is a stable identifier derived from the content the
	// input references, e.g. "sha256:<hex>".
	ContentAddress string

	// Path points at the materialized content on disk.
	Path string

	// Metadata carries free-form, pass-through annotations.
	Metadata map[string]any
}

// NodeOutput is the result of executing a work node.
//
// ContentAddress must be a pure function of the content at Path: re-hashing
// the referenced bytes must reproduce (or be embedded in) the address. The
// executor enforces this after every node execution.
type NodeOutput struct {
	ContentAddress string
	Path           string
	Metadata       map[string]any

	// Evidence describes what happened during execution and is recorded
	// verbatim in the node's node_execution event.
	Evidence map[string]any
}

// Input re-wraps an output as an input for a downstream node. Content
// address, path and metadata are carried through unchanged.
func (o NodeOutput) Input() NodeInput {
	return NodeInput{
		ContentAddress: o.ContentAddress,
		Path:           o.Path,
		Metadata:       o.Metadata,
	}
}

// Node is the capability contract for a unit of work. Implementations must
// be stateless across runs and pure with respect to their declared inputs:
// the same inputs must produce output with the same content address.
type Node interface {
	// NodeID returns the node's identity within a graph.
	NodeID() string

	// NodeType returns a tag describing the kind of transformation.
	NodeType() string

	// ValidateInputs reports whether the node accepts the given inputs.
	ValidateInputs(inputs []NodeInput) bool

	// Execute performs the transformation.
	Execute(ctx context.Context, inputs []NodeInput, ec ExecutionContext) (NodeOutput, error)
}

// NodeFunc is the signature of a plain-function work node body.
type NodeFunc func(ctx context.Context, inputs []NodeInput, ec ExecutionContext) (NodeOutput, error)

// FuncNode adapts a NodeFunc into a Node, so simple transformations don't
// need a dedicated type.
type FuncNode struct {
	ID   string
	Type string

	// Validate, when nil, accepts any inputs.
	Validate func(inputs []NodeInput) bool

	Fn NodeFunc
}

var _ Node = (*FuncNode)(nil)

func (n *FuncNode) NodeID() string   { return n.ID }
func (n *FuncNode) NodeType() string { return n.Type }

func (n *FuncNode) ValidateInputs(inputs []NodeInput) bool {
	if n.Validate == nil {
		return true
	}
	return n.Validate(inputs)
}

func (n *FuncNode) Execute(ctx context.Context, inputs []NodeInput, ec ExecutionContext) (NodeOutput, error) {
	return n.Fn(ctx, inputs, ec)
}

// ExecutionContext is the immutable per-run identity handed to every node.
// It is created once per run by the caller and never mutated by the
// executor.
type ExecutionContext struct {
	// ExecutionID uniquely identifies the run.
	ExecutionID string

	// Recorder is the evidence destination for the run. A nil Recorder
	// means evidence is discarded.
	Recorder Recorder

	// WorkDir is scratch space nodes may use for materialized outputs.
	WorkDir string
}

// NewExecutionContext creates a run context with a fresh execution id.
func NewExecutionContext(rec Recorder) ExecutionContext {
	return ExecutionContext{
		ExecutionID: uuid.NewString(),
		Recorder:    rec,
	}
}

// WithWorkDir returns a copy of the context using dir as scratch space.
func (c ExecutionContext) WithWorkDir(dir string) ExecutionContext {
	c.WorkDir = dir
	return c
}
