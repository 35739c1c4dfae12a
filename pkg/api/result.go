package api

// Result holds the outcome of one run. Each run gets its own Result, so
// concurrent runs never share mutable state.
type Result struct {
	// ExecutionID is the identity of the run that produced this result.
	ExecutionID string

	// Order is the exact execution order used.
	Order []string

	// Outputs maps every completed node id to its output. After a failed
	// run it holds the outputs committed before the failure point.
	Outputs map[string]NodeOutput
}

// Output returns the committed output of a node.
func (r *Result) Output(nodeID string) (NodeOutput, bool) {
	out, ok := r.Outputs[nodeID]
	return out, ok
}

// Lineage exports the minimal data needed to independently re-derive what
// ran, in what order, producing what.
func (r *Result) Lineage() Lineage {
	outs := make(map[string]LineageOutput, len(r.Outputs))
	for id, out := range r.Outputs {
		outs[id] = LineageOutput{
			ContentAddress: out.ContentAddress,
			Metadata:       out.Metadata,
		}
	}
	order := make([]string, len(r.Order))
	copy(order, r.Order)
	return Lineage{
		ExecutionID:    r.ExecutionID,
		ExecutionOrder: order,
		Outputs:        outs,
	}
}

// Lineage is the exported execution record of a completed (or partially
// completed) run.
type Lineage struct {
	ExecutionID    string                   `json:"execution_id" yaml:"execution_id"`
	ExecutionOrder []string                 `json:"execution_order" yaml:"execution_order"`
	Outputs        map[string]LineageOutput `json:"outputs" yaml:"outputs"`
}

// LineageOutput is the per-node slice of a Lineage.
type LineageOutput struct {
	ContentAddress string         `json:"content_address" yaml:"content_address"`
	Metadata       map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
