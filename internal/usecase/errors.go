package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrPrimaryNotFound is returned when the primary match record cannot be
	// fetched. It also matches ErrNotFound.
	ErrPrimaryNotFound = fmt.Errorf("primary match record not found: %w", ErrNotFound)
	// ErrInvalidGeneratedData is returned when the model output fails schema
	// validation. Violations are logged, never returned.
	ErrInvalidGeneratedData = errors.New("invalid generated data")
)

type AggregationKind string

const (
	AggregationPrimaryNotFound   AggregationKind = "primary_not_found"
	AggregationSecondaryDegraded AggregationKind = "secondary_degraded"
)

// AggregationError describes a failed aggregation input. Only the primary kind
// is ever returned to callers; degraded secondary sources are logged and
// recorded as fallbacks on the context.
type AggregationError struct {
	Kind    AggregationKind
	MatchID string
	Source  matchcontext.Source
	Err     error
}

func (e *AggregationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("aggregate match_id=%s: %s (%s): %v", e.MatchID, e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("aggregate match_id=%s: %s: %v", e.MatchID, e.Kind, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

func (e *AggregationError) Is(target error) bool {
	if e.Kind != AggregationPrimaryNotFound {
		return false
	}
	return target == ErrPrimaryNotFound || target == ErrNotFound
}
