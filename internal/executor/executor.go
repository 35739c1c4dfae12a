// Package executor implements the deterministic DAG executor: it walks a
// validated graph in topological order, threads content-addressed outputs
// between nodes, enforces the purity contract, and records the evidence
// trail for the run.
package executor

import (
	"context"
	"fmt"
	"os"

	"github.com/provenantdev/provenant/pkg/api"
)

// Executor runs one graph at a time, strictly serially. All per-run state
// lives in the Result it returns, so a single Executor value can drive
// multiple runs and separate Executor values can run concurrently.
type Executor struct {
	ec     api.ExecutionContext
	ingest map[string][]api.NodeInput
}

// Config describes how to construct an Executor. External callers use the
// constructors in the provenant package.
type Config struct {
	Context api.ExecutionContext

	// Ingest supplies inputs for root nodes, keyed by node id. Nodes with
	// dependencies never read from it; their inputs are exactly their
	// dependencies' outputs.
	Ingest map[string][]api.NodeInput
}

// Ensure Executor implements the interface.
var _ api.Executor = (*Executor)(nil)

// New creates an Executor for the given run context.
func New(ec api.ExecutionContext) *Executor {
	return NewWithConfig(Config{Context: ec})
}

// NewWithConfig creates an Executor from the given configuration.
func NewWithConfig(cfg Config) *Executor {
	return &Executor{
		ec:     cfg.Context,
		ingest: cfg.Ingest,
	}
}

func (e *Executor) recorder() api.Recorder {
	if e.ec.Recorder == nil {
		return api.NoopRecorder{}
	}
	return e.ec.Recorder
}

// Run executes the graph.
//
// Sequence: validate and order the graph (failing before any side effect),
// record execution_start, execute every node in order, record
// execution_complete. Any failure inside the loop records an
// execution_failure event and surfaces as an ExecutionError wrapping the
// original cause; the returned Result keeps the outputs committed before
// the failure point.
func (e *Executor) Run(ctx context.Context, g *api.Graph) (*api.Result, error) {
	if err := g.Validate(); err != nil {
		return nil, &api.ExecutionError{Reason: "graph validation failed", Cause: err}
	}
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, &api.ExecutionError{Reason: "graph ordering failed", Cause: err}
	}

	res := &api.Result{
		ExecutionID: e.ec.ExecutionID,
		Order:       order,
		Outputs:     make(map[string]api.NodeOutput, len(order)),
	}

	rec := e.recorder()
	if err := rec.RecordExecutionStart(ctx, e.ec.ExecutionID, g.ID(), order); err != nil {
		return res, &api.ExecutionError{Reason: "record execution start", Cause: err}
	}

	if err := e.runNodes(ctx, g, order, res, rec); err != nil {
		// The trail intentionally preserves everything recorded up to and
		// including the failure.
		_ = rec.RecordExecutionFailure(ctx, e.ec.ExecutionID, err)
		return res, &api.ExecutionError{Reason: "execution failed", Cause: err}
	}

	outputs := make(map[string]string, len(res.Outputs))
	for id, out := range res.Outputs {
		outputs[id] = out.ContentAddress
	}
	if err := rec.RecordExecutionComplete(ctx, e.ec.ExecutionID, outputs); err != nil {
		_ = rec.RecordExecutionFailure(ctx, e.ec.ExecutionID, err)
		return res, &api.ExecutionError{Reason: "record execution complete", Cause: err}
	}

	return res, nil
}

func (e *Executor) runNodes(ctx context.Context, g *api.Graph, order []string, res *api.Result, rec api.Recorder) error {
	for _, nodeID := range order {
		node, ok := g.Node(nodeID)
		if !ok {
			return &api.ExecutionError{NodeID: nodeID, Reason: "node missing from graph"}
		}

		inputs, err := e.collectInputs(nodeID, g.DependenciesOf(nodeID), res)
		if err != nil {
			return err
		}

		out, err := e.executeNode(ctx, node, inputs)
		if err != nil {
			return err
		}

		// Commit before recording so a dependent node can never observe a
		// recorded-but-uncommitted output.
		res.Outputs[nodeID] = out

		addrs := make([]string, 0, len(inputs))
		for _, in := range inputs {
			addrs = append(addrs, in.ContentAddress)
		}
		if err := rec.RecordNodeExecution(ctx, nodeID, node.NodeType(), addrs, out.ContentAddress, out.Evidence); err != nil {
			return &api.ExecutionError{NodeID: nodeID, Reason: "record node execution", Cause: err}
		}
	}
	return nil
}

// collectInputs resolves a node's inputs. Root nodes read from the ingest
// manifest; dependent nodes get exactly their dependencies' outputs,
// re-wrapped as inputs.
func (e *Executor) collectInputs(nodeID string, deps []string, res *api.Result) ([]api.NodeInput, error) {
	if len(deps) == 0 {
		return e.ingest[nodeID], nil
	}

	inputs := make([]api.NodeInput, 0, len(deps))
	for _, dep := range deps {
		out, ok := res.Outputs[dep]
		if !ok {
			// Given a correct topological sort this indicates an ordering
			// bug, never a runtime condition.
			return nil, &api.ExecutionError{
				NodeID: nodeID,
				Reason: fmt.Sprintf("depends on %s but output not found", dep),
			}
		}
		inputs = append(inputs, out.Input())
	}
	return inputs, nil
}

func (e *Executor) executeNode(ctx context.Context, node api.Node, inputs []api.NodeInput) (api.NodeOutput, error) {
	nodeID := node.NodeID()

	if !node.ValidateInputs(inputs) {
		return api.NodeOutput{}, &api.ExecutionError{NodeID: nodeID, Reason: "input validation failed"}
	}

	out, err := node.Execute(ctx, inputs, e.ec)
	if err != nil {
		return api.NodeOutput{}, &api.ExecutionError{NodeID: nodeID, Reason: "node execution failed", Cause: err}
	}

	if err := verifyDeterminism(nodeID, out); err != nil {
		return api.NodeOutput{}, err
	}
	return out, nil
}

// verifyDeterminism re-hashes the material the output references and
// confirms the digest matches the claimed content address. This is the
// purity gate of the whole system: a mismatch fails the run.
func verifyDeterminism(nodeID string, out api.NodeOutput) error {
	if out.ContentAddress == "" || out.Path == "" {
		return nil
	}
	if _, err := os.Stat(out.Path); err != nil {
		// Nothing materialized to re-hash; the address stands on its own.
		return nil
	}
	computed, err := api.HashFile(out.Path)
	if err != nil {
		return &api.ExecutionError{NodeID: nodeID, Reason: "hash output content", Cause: err}
	}
	if !api.AddressMatches(out.ContentAddress, computed) {
		return &api.DeterminismError{
			NodeID:         nodeID,
			ContentAddress: out.ContentAddress,
			ComputedHash:   computed,
		}
	}
	return nil
}
