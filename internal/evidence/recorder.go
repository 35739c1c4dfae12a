// Package evidence provides the evidence trail implementations: append-only
// stores (in-memory and SQLite) and the Recorder that materializes the
// contract calls as typed events.
package evidence

import (
	"context"
	"time"

	"github.com/provenantdev/provenant/pkg/api"
)

// StoreRecorder implements api.Recorder by appending one typed event per
// contract call to an EvidenceStore. It is bound to a single execution id
// at construction so every event it writes belongs to that run.
type StoreRecorder struct {
	store       api.EvidenceStore
	executionID string
}

// Ensure StoreRecorder implements the interface.
var _ api.Recorder = (*StoreRecorder)(nil)

// NewStoreRecorder creates a recorder writing to store on behalf of the
// given execution.
func NewStoreRecorder(store api.EvidenceStore, executionID string) *StoreRecorder {
	return &StoreRecorder{store: store, executionID: executionID}
}

func (r *StoreRecorder) append(ctx context.Context, typ api.EventType, fields map[string]any) error {
	return r.store.AppendEvent(ctx, api.Event{
		ExecutionID: r.executionID,
		Type:        typ,
		At:          time.Now(),
		Fields:      fields,
	})
}

func (r *StoreRecorder) RecordExecutionStart(ctx context.Context, executionID, graphID string, nodeOrder []string) error {
	return r.append(ctx, api.EventExecutionStart, map[string]any{
		"execution_id": executionID,
		"graph_id":     graphID,
		"node_order":   nodeOrder,
	})
}

func (r *StoreRecorder) RecordNodeExecution(ctx context.Context, nodeID, nodeType string, inputAddresses []string, outputAddress string, evidence map[string]any) error {
	return r.append(ctx, api.EventNodeExecution, map[string]any{
		"node_id":   nodeID,
		"node_type": nodeType,
		"inputs":    inputAddresses,
		"output":    outputAddress,
		"evidence":  evidence,
	})
}

func (r *StoreRecorder) RecordExecutionComplete(ctx context.Context, executionID string, outputs map[string]string) error {
	return r.append(ctx, api.EventExecutionComplete, map[string]any{
		"execution_id": executionID,
		"outputs":      outputs,
	})
}

func (r *StoreRecorder) RecordExecutionFailure(ctx context.Context, executionID string, cause error) error {
	return r.append(ctx, api.EventExecutionFailure, map[string]any{
		"execution_id": executionID,
		"error":        cause.Error(),
	})
}

func (r *StoreRecorder) RecordPolicyCheck(ctx context.Context, ruleID string, passed bool, details map[string]any) error {
	fields := map[string]any{
		"rule_id": ruleID,
		"passed":  passed,
	}
	for k, v := range details {
		fields[k] = v
	}
	return r.append(ctx, api.EventPolicyCheck, fields)
}
