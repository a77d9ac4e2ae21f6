package fixture

import (
	"context"
	"time"
)

// Source lists the fixtures currently considered active by the provider.
type Source interface {
	FetchActiveFixtures(ctx context.Context) ([]Entry, error)
}

// Snapshot is an immutable view of the cached fixtures. It is built once and
// then only read, so it can be shared between goroutines without locking.
type Snapshot struct {
	entries     []Entry
	byMatchID   map[string]int
	refreshedAt time.Time
}

func NewSnapshot(entries []Entry, refreshedAt time.Time) *Snapshot {
	copied := append([]Entry(nil), entries...)
	index := make(map[string]int, len(copied))
	for i, item := range copied {
		if item.MatchID == "" {
			continue
		}
		if _, dup := index[item.MatchID]; dup {
			continue
		}
		index[item.MatchID] = i
	}
	return &Snapshot{entries: copied, byMatchID: index, refreshedAt: refreshedAt}
}

func (s *Snapshot) Lookup(matchID string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	i, ok := s.byMatchID[matchID]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

func (s *Snapshot) List() []Entry {
	if s == nil {
		return []Entry{}
	}
	return append([]Entry(nil), s.entries...)
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *Snapshot) RefreshedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.refreshedAt
}
