package prediction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrConstraintViolation = errors.New("prediction store constraint violation")
	ErrStoreUnavailable    = errors.New("prediction store unavailable")
)

// Artifact is a validated model output plus the provenance it was produced for.
// Exactly one Artifact exists per MatchID.
type Artifact struct {
	MatchID         string            `validate:"required"`
	CompetitionName string            `validate:"required"`
	MatchDate       time.Time
	HomeTeam        string            `validate:"required"`
	AwayTeam        string            `validate:"required"`
	Prediction      Args
	ContextNotes    map[string]string `validate:"-"`
	Model           string
	RunID           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Args mirrors the output schema returned by Schema.
type Args struct {
	HomeTeam                  string                `json:"homeTeam"`
	AwayTeam                  string                `json:"awayTeam"`
	ExpectedOutcome           ExpectedOutcome       `json:"expectedOutcome"`
	KeyPlayers                KeyPlayers            `json:"keyPlayers"`
	SameGameParlaySuggestions []string              `json:"sameGameParlaySuggestions"`
	AdditionalPredictions     AdditionalPredictions `json:"additionalPredictions"`
	Analysis                  string                `json:"analysis"`
	KeyFactors                []string              `json:"keyFactors"`
	BettingTips               []string              `json:"bettingTips"`
}

type ExpectedOutcome struct {
	Goals         Score         `json:"goals"`
	Corners       Score         `json:"corners"`
	GoalsByPeriod GoalsByPeriod `json:"goalsByPeriod"`
}

type Score struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

type GoalsByPeriod struct {
	FirstHalf  Score `json:"firstHalf"`
	SecondHalf Score `json:"secondHalf"`
	FullTime   Score `json:"fullTime"`
}

type KeyPlayers struct {
	Home []KeyPlayer `json:"home"`
	Away []KeyPlayer `json:"away"`
}

type KeyPlayer struct {
	Name          string  `json:"name"`
	Shots         float64 `json:"shots"`
	ShotsOnTarget float64 `json:"shotsOnTarget"`
	Assists       float64 `json:"assists"`
}

type AdditionalPredictions struct {
	TotalGoalsOverUnder          OverUnder `json:"totalGoalsOverUnder"`
	MostProbableSingleBetOutcome string    `json:"mostProbableSingleBetOutcome"`
}

type OverUnder struct {
	FirstHalf  string `json:"firstHalf"`
	SecondHalf string `json:"secondHalf"`
}

var structValidator = validator.New()

// Check verifies the provenance fields required before persisting.
func (a Artifact) Check() error {
	if err := structValidator.Struct(a); err != nil {
		return fmt.Errorf("invalid prediction artifact: %w", err)
	}
	if strings.TrimSpace(a.MatchID) == "" {
		return fmt.Errorf("invalid prediction artifact: blank match id")
	}
	return nil
}

// Repository persists artifacts keyed by match id with insert-or-update semantics.
type Repository interface {
	Upsert(ctx context.Context, artifact Artifact) error
	GetByMatchID(ctx context.Context, matchID string) (Artifact, bool, error)
}
