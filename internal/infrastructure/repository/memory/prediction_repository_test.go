package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

func TestPredictionRepository_UpsertReplacesExisting(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	a := prediction.Artifact{MatchID: "12345", CompetitionName: "Premier League", HomeTeam: "Arsenal", AwayTeam: "Chelsea", CreatedAt: first, UpdatedAt: first}
	a.Prediction.Analysis = "first run"
	b := a
	b.CreatedAt, b.UpdatedAt = second, second
	b.Prediction.Analysis = "second run"

	if err := repo.Upsert(t.Context(), a); err != nil {
		t.Fatalf("upsert a: %v", err)
	}
	if err := repo.Upsert(t.Context(), b); err != nil {
		t.Fatalf("upsert b: %v", err)
	}

	if repo.Len() != 1 {
		t.Fatalf("expected one stored artifact, got %d", repo.Len())
	}
	got, ok, err := repo.GetByMatchID(t.Context(), "12345")
	if err != nil || !ok {
		t.Fatalf("expected stored artifact, ok=%v err=%v", ok, err)
	}
	if got.Prediction.Analysis != "second run" {
		t.Fatalf("expected last writer to win, got %q", got.Prediction.Analysis)
	}
	if !got.CreatedAt.Equal(first) || !got.UpdatedAt.Equal(second) {
		t.Fatalf("expected created_at kept and updated_at replaced, got %s / %s", got.CreatedAt, got.UpdatedAt)
	}
}

func TestPredictionRepository_RejectsBlankMatchID(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	err := repo.Upsert(t.Context(), prediction.Artifact{MatchID: "  "})
	if !errors.Is(err, prediction.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestPredictionRepository_ConcurrentUpsertsKeepOneRow(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Upsert(t.Context(), prediction.Artifact{MatchID: "777", CompetitionName: "Serie A", HomeTeam: "Roma", AwayTeam: "Lazio"})
		}()
	}
	wg.Wait()

	if repo.Len() != 1 {
		t.Fatalf("expected one stored artifact, got %d", repo.Len())
	}
}

func TestPredictionRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	item := prediction.Artifact{MatchID: "1", ContextNotes: map[string]string{"weather": "Weather data not available."}}
	item.Prediction.KeyFactors = []string{"form"}
	if err := repo.Upsert(t.Context(), item); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _, _ := repo.GetByMatchID(t.Context(), "1")
	got.Prediction.KeyFactors[0] = "mutated"
	got.ContextNotes["weather"] = "mutated"

	again, _, _ := repo.GetByMatchID(t.Context(), "1")
	if again.Prediction.KeyFactors[0] != "form" || again.ContextNotes["weather"] != "Weather data not available." {
		t.Fatalf("expected stored artifact to be isolated from caller mutations")
	}
}

func TestPredictionRepository_KeepsEmptyListsNonNil(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	item := prediction.Artifact{MatchID: "55", HomeTeam: "Arsenal", AwayTeam: "Chelsea"}
	item.Prediction.KeyPlayers.Home = []prediction.KeyPlayer{}
	item.Prediction.KeyPlayers.Away = []prediction.KeyPlayer{}
	item.Prediction.SameGameParlaySuggestions = []string{}
	item.Prediction.KeyFactors = []string{}
	item.Prediction.BettingTips = []string{}
	if err := repo.Upsert(t.Context(), item); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _, err := repo.GetByMatchID(t.Context(), "55")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	p := got.Prediction
	if p.KeyPlayers.Home == nil || p.KeyPlayers.Away == nil || p.SameGameParlaySuggestions == nil || p.KeyFactors == nil || p.BettingTips == nil {
		t.Fatalf("expected empty lists to stay non-nil, got %+v", p)
	}
}
