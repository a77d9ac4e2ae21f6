package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/match-predictor/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	entries []roster.Entry
}

func NewRosterRepository(entries []roster.Entry) *RosterRepository {
	return &RosterRepository{entries: append([]roster.Entry(nil), entries...)}
}

func (r *RosterRepository) List(_ context.Context) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, 0, len(r.entries))
	out = append(out, r.entries...)
	return out, nil
}

// Replace swaps the whole roster, as an ingestion run would.
func (r *RosterRepository) Replace(entries []roster.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]roster.Entry(nil), entries...)
}
