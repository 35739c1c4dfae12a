package evidence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/provenantdev/provenant/pkg/api"
)

// SQLiteStore stores evidence events in SQLite. The autoincrement row id
// preserves append order, which is what makes the trail's ordering
// guarantee durable.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements the interface.
var _ api.EvidenceStore = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS evidence_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			execution_id TEXT NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			fields TEXT NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS idx_evidence_events_execution_id ON evidence_events(execution_id, id);
	`)
	return err
}

func (s *SQLiteStore) AppendEvent(ctx context.Context, ev api.Event) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	fields, err := json.Marshal(ev.Fields)
	if err != nil {
		return fmt.Errorf("encode event fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evidence_events (execution_id, at, type, fields)
		VALUES (?, ?, ?, ?)`,
		ev.ExecutionID,
		at.UnixNano(),
		string(ev.Type),
		string(fields),
	)
	return err
}

func (s *SQLiteStore) ListEvents(ctx context.Context, executionID string) ([]api.Event, error) {
	query := `
		SELECT execution_id, at, type, fields
		FROM evidence_events
		ORDER BY id ASC`
	args := []any{}
	if executionID != "" {
		query = `
		SELECT execution_id, at, type, fields
		FROM evidence_events
		WHERE execution_id = ?
		ORDER BY id ASC`
		args = append(args, executionID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.Event
	for rows.Next() {
		var (
			execID    string
			atN       int64
			typ       string
			fieldsRaw string
		)
		if err := rows.Scan(&execID, &atN, &typ, &fieldsRaw); err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal([]byte(fieldsRaw), &fields); err != nil {
			return nil, fmt.Errorf("decode event fields: %w", err)
		}
		out = append(out, api.Event{
			ExecutionID: execID,
			At:          time.Unix(0, atN),
			Type:        api.EventType(typ),
			Fields:      fields,
		})
	}
	return out, rows.Err()
}
