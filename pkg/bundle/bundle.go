// Package bundle seals the artifacts and evidence of a completed run into
// a trust bundle: a directory any third party can verify with public rules
// only, no engine or authority required.
//
// A bundle directory contains a manifest (manifest.yaml), the exported run
// evidence (evidence.json), the lineage record (lineage.json), and the
// content-addressed artifact files the manifest lists. Verification
// re-hashes every listed file and checks the evidence chain, so tampering
// with any artifact or with the trail is detectable offline.
package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/provenantdev/provenant/pkg/api"
)

const (
	// ManifestFile is the manifest's file name inside a bundle directory.
	ManifestFile = "manifest.yaml"

	// EvidenceFile holds the run's exported evidence events.
	EvidenceFile = "evidence.json"

	// LineageFile holds the run's exported lineage record.
	LineageFile = "lineage.json"
)

// Manifest is the sealed index of a bundle. Every Entry's content address
// must re-derive from the bytes of the file it names.
type Manifest struct {
	SealID      string    `yaml:"seal_id"`
	ExecutionID string    `yaml:"execution_id"`
	GraphID     string    `yaml:"graph_id,omitempty"`
	SealedAt    time.Time `yaml:"sealed_at"`
	Entries     []Entry   `yaml:"entries"`
}

// Entry is one content-addressed file inside the bundle.
type Entry struct {
	// Path is relative to the bundle directory.
	Path           string `yaml:"path"`
	ContentAddress string `yaml:"content_address"`

	// NodeID ties artifact entries back to the node that produced them.
	// Empty for the bundle's own evidence and lineage files.
	NodeID string `yaml:"node_id,omitempty"`
}

// Seal writes a bundle for the given run into dir and appends a
// bundle_sealed event to the store. The directory is created if needed.
//
// Node outputs whose Path lies inside dir are listed as artifact entries;
// outputs materialized elsewhere are identified by content address alone.
func Seal(ctx context.Context, dir string, res *api.Result, store api.EvidenceStore) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bundle dir: %w", err)
	}

	m := &Manifest{
		SealID:      uuid.NewString(),
		ExecutionID: res.ExecutionID,
		SealedAt:    time.Now().UTC(),
	}

	for _, nodeID := range res.Order {
		out, ok := res.Outputs[nodeID]
		if !ok || out.Path == "" {
			continue
		}
		rel, err := filepath.Rel(dir, out.Path)
		if err != nil || !filepath.IsLocal(rel) {
			continue
		}
		m.Entries = append(m.Entries, Entry{
			Path:           rel,
			ContentAddress: out.ContentAddress,
			NodeID:         nodeID,
		})
	}

	events, err := store.ListEvents(ctx, res.ExecutionID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	if err := m.addJSONEntry(dir, EvidenceFile, exportEvents(events)); err != nil {
		return nil, err
	}
	if err := m.addJSONEntry(dir, LineageFile, res.Lineage()); err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	// The seal itself becomes evidence: policy integrity checks look for
	// this event when gating a transition to sealed.
	if err := store.AppendEvent(ctx, api.Event{
		ExecutionID: res.ExecutionID,
		Type:        api.EventBundleSealed,
		At:          time.Now(),
		Fields: map[string]any{
			"seal_id":       m.SealID,
			"manifest_hash": api.AddressFor(data),
			"entries":       len(m.Entries),
		},
	}); err != nil {
		return nil, fmt.Errorf("record seal: %w", err)
	}

	return m, nil
}

func (m *Manifest) addJSONEntry(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	m.Entries = append(m.Entries, Entry{
		Path:           name,
		ContentAddress: api.AddressFor(data),
	})
	return nil
}

// exportedEvent is the stable on-disk form of an evidence event.
type exportedEvent struct {
	ExecutionID string         `json:"execution_id"`
	Type        string         `json:"event_type"`
	At          time.Time      `json:"at"`
	Fields      map[string]any `json:"fields,omitempty"`
}

func exportEvents(events []api.Event) []exportedEvent {
	out := make([]exportedEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, exportedEvent{
			ExecutionID: ev.ExecutionID,
			Type:        string(ev.Type),
			At:          ev.At,
			Fields:      ev.Fields,
		})
	}
	return out
}
