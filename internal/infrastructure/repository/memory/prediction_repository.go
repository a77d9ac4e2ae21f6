package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

// PredictionRepository keeps one artifact per match id. Upserts for the same
// id are serialized by the mutex; the last writer wins.
type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Artifact
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[string]prediction.Artifact)}
}

func (r *PredictionRepository) Upsert(_ context.Context, artifact prediction.Artifact) error {
	key := strings.TrimSpace(artifact.MatchID)
	if key == "" {
		return prediction.ErrConstraintViolation
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clonePrediction(artifact)
	if existing, ok := r.items[key]; ok && !existing.CreatedAt.IsZero() {
		stored.CreatedAt = existing.CreatedAt
	}
	r.items[key] = stored
	return nil
}

func (r *PredictionRepository) GetByMatchID(_ context.Context, matchID string) (prediction.Artifact, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[strings.TrimSpace(matchID)]
	if !ok {
		return prediction.Artifact{}, false, nil
	}
	return clonePrediction(item), true, nil
}

// Len reports the number of stored artifacts.
func (r *PredictionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

func clonePrediction(item prediction.Artifact) prediction.Artifact {
	copied := item
	copied.Prediction.KeyPlayers.Home = slices.Clone(item.Prediction.KeyPlayers.Home)
	copied.Prediction.KeyPlayers.Away = slices.Clone(item.Prediction.KeyPlayers.Away)
	copied.Prediction.SameGameParlaySuggestions = slices.Clone(item.Prediction.SameGameParlaySuggestions)
	copied.Prediction.KeyFactors = slices.Clone(item.Prediction.KeyFactors)
	copied.Prediction.BettingTips = slices.Clone(item.Prediction.BettingTips)
	if item.ContextNotes != nil {
		copied.ContextNotes = make(map[string]string, len(item.ContextNotes))
		for k, v := range item.ContextNotes {
			copied.ContextNotes[k] = v
		}
	}
	return copied
}
