package evidence

import (
	"context"
	"sync"

	"github.com/provenantdev/provenant/pkg/api"
)

// MemoryStore is a goroutine-safe, append-only evidence store backed by a
// slice. It preserves append order and never mutates stored events.
type MemoryStore struct {
	mu     sync.RWMutex
	events []api.Event
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Ensure MemoryStore implements the interface.
var _ api.EvidenceStore = (*MemoryStore)(nil)

func (s *MemoryStore) AppendEvent(ctx context.Context, ev api.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
	return nil
}

func (s *MemoryStore) ListEvents(ctx context.Context, executionID string) ([]api.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []api.Event
	for _, ev := range s.events {
		if executionID != "" && ev.ExecutionID != executionID {
			continue
		}
		result = append(result, ev)
	}
	return result, nil
}
