package roster

import (
	"context"
	"strings"
)

const (
	StatusAvailable = "available"
	StatusInjured   = "injured"
	StatusSuspended = "suspended"
)

// Entry is one row of roster side-data: a player, the club as written by the
// ingesting source, and their availability.
type Entry struct {
	Team     string
	Name     string
	Position string
	Status   string
	Matches  int
	Goals    int
	Assists  int
}

func (e Entry) IsInjured() bool {
	return strings.EqualFold(strings.TrimSpace(e.Status), StatusInjured)
}

func (e Entry) IsSuspended() bool {
	return strings.EqualFold(strings.TrimSpace(e.Status), StatusSuspended)
}

// Repository exposes roster side-data. Team names are stored as ingested, so
// callers normalize before matching.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
}
