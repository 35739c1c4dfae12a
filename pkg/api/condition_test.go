package api

import "testing"

func evEvent(typ EventType, fields map[string]any) Event {
	return Event{Type: typ, Fields: fields}
}

func TestEq_Eval(t *testing.T) {
	ev := evEvent(EventNodeExecution, map[string]any{"node_id": "parse", "attempts": 1})

	if !(Eq{Key: "node_id", Value: "parse"}).Eval(ev) {
		t.Fatal("expected string field to match")
	}
	if !(Eq{Key: "attempts", Value: "1"}).Eval(ev) {
		t.Fatal("expected non-string field to match through its rendered form")
	}
	if (Eq{Key: "node_id", Value: "report"}).Eval(ev) {
		t.Fatal("expected mismatched value to fail")
	}
	if (Eq{Key: "missing", Value: "anything"}).Eval(ev) {
		t.Fatal("expected missing field to fail")
	}
	if !(Eq{Key: "event_type", Value: "node_execution"}).Eval(ev) {
		t.Fatal("expected event_type to be addressable as a field")
	}
}

func TestAndOrIn_Eval(t *testing.T) {
	ev := evEvent(EventValidation, map[string]any{"stage": "schema", "passed": true})

	and := AllOf(
		Eq{Key: "stage", Value: "schema"},
		Eq{Key: "passed", Value: "true"},
	)
	if !and.Eval(ev) {
		t.Fatal("expected conjunction to hold")
	}
	if AllOf(Eq{Key: "stage", Value: "schema"}, Eq{Key: "stage", Value: "other"}).Eval(ev) {
		t.Fatal("expected conjunction with failing branch to fail")
	}

	or := AnyOf(
		Eq{Key: "stage", Value: "other"},
		Eq{Key: "stage", Value: "schema"},
	)
	if !or.Eval(ev) {
		t.Fatal("expected disjunction to hold")
	}
	if AnyOf().Eval(ev) {
		t.Fatal("expected empty disjunction to match nothing")
	}

	in := In{Key: "stage", Values: []string{"ingest", "schema", "seal"}}
	if !in.Eval(ev) {
		t.Fatal("expected membership to hold")
	}
	if (In{Key: "stage", Values: []string{"ingest"}}).Eval(ev) {
		t.Fatal("expected non-member to fail")
	}
}

func TestParseCondition(t *testing.T) {
	cond, err := ParseCondition("node_id == parse")
	if err != nil {
		t.Fatalf("ParseCondition failed: %v", err)
	}
	eq, ok := cond.(Eq)
	if !ok {
		t.Fatalf("expected Eq, got %T", cond)
	}
	if eq.Key != "node_id" || eq.Value != "parse" {
		t.Fatalf("unexpected parse result: %+v", eq)
	}

	if _, err := ParseCondition("node_id != parse"); err == nil {
		t.Fatal("expected unsupported operator to be rejected")
	}
	if _, err := ParseCondition("== parse"); err == nil {
		t.Fatal("expected empty key to be rejected")
	}
}
