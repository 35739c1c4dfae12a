package evidence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/provenantdev/provenant/pkg/api"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	// A pooled second connection would see its own empty memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

func TestSQLiteStore_AppendAndList(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	events := []api.Event{
		{ExecutionID: "run-1", Type: api.EventExecutionStart, At: at, Fields: map[string]any{
			"graph_id":   "g",
			"node_order": []any{"a", "b"},
		}},
		{ExecutionID: "run-1", Type: api.EventNodeExecution, At: at.Add(time.Second), Fields: map[string]any{
			"node_id": "a",
			"output":  "sha256:abc",
		}},
		{ExecutionID: "run-2", Type: api.EventExecutionStart, At: at, Fields: map[string]any{}},
	}
	for _, ev := range events {
		if err := store.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	got, err := store.ListEvents(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for run-1, got %d", len(got))
	}
	if got[0].Type != api.EventExecutionStart || got[1].Type != api.EventNodeExecution {
		t.Fatalf("unexpected order: %s, %s", got[0].Type, got[1].Type)
	}
	if !got[0].At.Equal(at) {
		t.Fatalf("expected timestamp %v, got %v", at, got[0].At)
	}
	if v, _ := got[1].Field("node_id"); v != "a" {
		t.Fatalf("expected node_id=a after round trip, got %v", v)
	}

	all, err := store.ListEvents(ctx, "")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events in total, got %d", len(all))
	}
}

func TestSQLiteStore_ZeroTimestampDefaultsToNow(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := store.AppendEvent(ctx, api.Event{ExecutionID: "run-1", Type: api.EventExecutionStart}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	got, err := store.ListEvents(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].At.Before(before) {
		t.Fatalf("expected a fresh timestamp, got %v", got[0].At)
	}
}

func TestSQLiteStore_DurableAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "evidence.db")
	ctx := context.Background()

	db1, err := sql.Open("sqlite", "file:"+dbPath)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	store1, err := NewSQLiteStore(db1)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := store1.AppendEvent(ctx, api.Event{ExecutionID: "run-1", Type: api.EventExecutionComplete}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := db1.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	db2, err := sql.Open("sqlite", "file:"+dbPath)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })

	store2, err := NewSQLiteStore(db2)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	got, err := store2.ListEvents(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(got) != 1 || got[0].Type != api.EventExecutionComplete {
		t.Fatalf("expected the recorded event to survive reopen, got %v", got)
	}
}
