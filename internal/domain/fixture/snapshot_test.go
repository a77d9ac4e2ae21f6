package fixture

import (
	"testing"
	"time"
)

func TestSnapshot_LookupAndCopy(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{MatchID: "12345", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: StatusScheduled},
		{MatchID: "12346", HomeTeam: "Everton", AwayTeam: "Fulham", Status: StatusLive},
	}
	snap := NewSnapshot(entries, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	entries[0].HomeTeam = "mutated"

	got, ok := snap.Lookup("12345")
	if !ok {
		t.Fatalf("expected match 12345 in snapshot")
	}
	if got.HomeTeam != "Arsenal" {
		t.Fatalf("expected snapshot to be isolated from input slice, got %q", got.HomeTeam)
	}

	list := snap.List()
	list[1].AwayTeam = "mutated"
	if again, _ := snap.Lookup("12346"); again.AwayTeam != "Fulham" {
		t.Fatalf("expected List to return a copy, got %q", again.AwayTeam)
	}

	if _, ok := snap.Lookup("99999"); ok {
		t.Fatalf("did not expect unknown match id")
	}
}

func TestNilSnapshotIsEmpty(t *testing.T) {
	t.Parallel()

	var snap *Snapshot
	if snap.Len() != 0 || len(snap.List()) != 0 {
		t.Fatalf("expected empty nil snapshot")
	}
	if _, ok := snap.Lookup("1"); ok {
		t.Fatalf("expected lookup miss on nil snapshot")
	}
}

func TestStatusFromCode(t *testing.T) {
	t.Parallel()

	if got := StatusFromCode(1); got != StatusScheduled {
		t.Fatalf("expected %s, got %s", StatusScheduled, got)
	}
	if got := StatusFromCode(3); !IsUpcoming(got) {
		t.Fatalf("expected live fixture to count as upcoming")
	}
	if got := StatusFromCode(42); got != StatusUnknown {
		t.Fatalf("expected %s, got %s", StatusUnknown, got)
	}
}
