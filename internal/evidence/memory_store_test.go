package evidence

import (
	"context"
	"testing"

	"github.com/provenantdev/provenant/pkg/api"
)

func TestMemoryStore_AppendAndListPreservesOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	types := []api.EventType{
		api.EventExecutionStart,
		api.EventNodeExecution,
		api.EventExecutionComplete,
	}
	for _, typ := range types {
		err := store.AppendEvent(ctx, api.Event{ExecutionID: "run-1", Type: typ})
		if err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}
	if err := store.AppendEvent(ctx, api.Event{ExecutionID: "run-2", Type: api.EventExecutionStart}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	events, err := store.ListEvents(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != len(types) {
		t.Fatalf("expected %d events, got %d", len(types), len(events))
	}
	for i, typ := range types {
		if events[i].Type != typ {
			t.Fatalf("event %d: expected %s, got %s", i, typ, events[i].Type)
		}
	}

	all, err := store.ListEvents(ctx, "")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 events across runs, got %d", len(all))
	}
}

func TestStoreRecorder_WritesTypedEvents(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	rec := NewStoreRecorder(store, "run-7")

	if err := rec.RecordExecutionStart(ctx, "run-7", "graph-1", []string{"a", "b"}); err != nil {
		t.Fatalf("RecordExecutionStart failed: %v", err)
	}
	if err := rec.RecordNodeExecution(ctx, "a", "parse", nil, "sha256:abc", map[string]any{"rows": 3}); err != nil {
		t.Fatalf("RecordNodeExecution failed: %v", err)
	}
	if err := rec.RecordPolicyCheck(ctx, "rule-1", false, map[string]any{"rule": "r"}); err != nil {
		t.Fatalf("RecordPolicyCheck failed: %v", err)
	}

	events, err := store.ListEvents(ctx, "run-7")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	start := events[0]
	if start.Type != api.EventExecutionStart {
		t.Fatalf("expected execution_start first, got %s", start.Type)
	}
	if v, _ := start.Field("graph_id"); v != "graph-1" {
		t.Fatalf("expected graph_id=graph-1, got %v", v)
	}

	node := events[1]
	if v, _ := node.Field("output"); v != "sha256:abc" {
		t.Fatalf("expected output address in node event, got %v", v)
	}

	check := events[2]
	if check.Type != api.EventPolicyCheck {
		t.Fatalf("expected policy_check, got %s", check.Type)
	}
	if check.FieldBool("passed") {
		t.Fatal("expected passed=false to be preserved")
	}
	if v, _ := check.Field("rule_id"); v != "rule-1" {
		t.Fatalf("expected rule_id=rule-1, got %v", v)
	}
}
