package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/id"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

type PredictionServiceConfig struct {
	ModelName string
	Logger    *logging.Logger
	Metrics   *Metrics
	Now       func() time.Time
}

// PredictionService runs the full pipeline for one match: aggregate, compile,
// generate, validate and upsert. Runs for different matches share no state.
type PredictionService struct {
	aggregator *ContextAggregator
	compiler   *PromptCompiler
	model      ModelClient
	repo       prediction.Repository
	ids        id.Generator
	modelName  string
	logger     *logging.Logger
	metrics    *Metrics
	now        func() time.Time
}

func NewPredictionService(
	aggregator *ContextAggregator,
	compiler *PromptCompiler,
	model ModelClient,
	repo prediction.Repository,
	ids id.Generator,
	cfg PredictionServiceConfig,
) *PredictionService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if compiler == nil {
		compiler = NewPromptCompiler()
	}

	return &PredictionService{
		aggregator: aggregator,
		compiler:   compiler,
		model:      model,
		repo:       repo,
		ids:        ids,
		modelName:  cfg.ModelName,
		logger:     logger,
		metrics:    cfg.Metrics,
		now:        now,
	}
}

func (s *PredictionService) Predict(ctx context.Context, matchID string) (artifact prediction.Artifact, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return prediction.Artifact{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	start := s.now()
	runID, idErr := s.ids.NewID()
	if idErr != nil {
		return prediction.Artifact{}, fmt.Errorf("generate run id: %w", idErr)
	}
	logger := s.logger.With("match_id", matchID, "run_id", runID)

	var degraded []string
	outcome := outcomeError
	defer func() {
		elapsed := s.now().Sub(start)
		s.metrics.observeRun(outcome, elapsed)
		if err != nil {
			logger.WarnContext(ctx, "prediction run failed",
				"outcome", outcome,
				"duration_ms", elapsed.Milliseconds(),
				"degraded", degraded,
				"error", err,
			)
			return
		}
		logger.InfoContext(ctx, "prediction run completed",
			"outcome", outcome,
			"duration_ms", elapsed.Milliseconds(),
			"degraded", degraded,
		)
	}()

	mc, err := s.aggregator.Aggregate(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrPrimaryNotFound) {
			outcome = outcomeNotFound
		}
		return prediction.Artifact{}, err
	}
	degraded = sourceNames(mc.Degraded())

	req := s.compiler.Compile(mc)
	raw, err := s.model.Generate(ctx, req)
	if err != nil {
		outcome = outcomeModelFailed
		return prediction.Artifact{}, fmt.Errorf("%w: generate prediction: %w", ErrDependencyUnavailable, err)
	}

	args, err := prediction.Validate(raw, req.Schema)
	if err != nil {
		outcome = outcomeInvalidOutput
		var verr *prediction.ValidationError
		if errors.As(err, &verr) {
			logger.WarnContext(ctx, "model output rejected", "violations", verr.Messages())
		} else {
			logger.WarnContext(ctx, "model output rejected", "error", err)
		}
		return prediction.Artifact{}, ErrInvalidGeneratedData
	}

	now := s.now().UTC()
	artifact = prediction.Artifact{
		MatchID:         matchID,
		CompetitionName: firstNonEmpty(mc.Competition.Name, matchcontext.FallbackCompetition),
		MatchDate:       mc.KickoffAt,
		HomeTeam:        firstNonEmpty(mc.Home.Name, args.HomeTeam),
		AwayTeam:        firstNonEmpty(mc.Away.Name, args.AwayTeam),
		Prediction:      args,
		ContextNotes:    contextNotes(mc),
		Model:           s.modelName,
		RunID:           runID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := artifact.Check(); err != nil {
		outcome = outcomeInvalidOutput
		logger.WarnContext(ctx, "prediction artifact rejected", "error", err)
		return prediction.Artifact{}, ErrInvalidGeneratedData
	}

	if err := s.repo.Upsert(ctx, artifact); err != nil {
		outcome = outcomeStoreFailed
		if errors.Is(err, prediction.ErrStoreUnavailable) {
			return prediction.Artifact{}, fmt.Errorf("%w: upsert prediction: %w", ErrDependencyUnavailable, err)
		}
		return prediction.Artifact{}, fmt.Errorf("upsert prediction: %w", err)
	}

	outcome = outcomeSuccess
	return artifact, nil
}

// GetPrediction reads back the stored artifact for matchID.
func (s *PredictionService) GetPrediction(ctx context.Context, matchID string) (prediction.Artifact, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GetPrediction")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return prediction.Artifact{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	artifact, exists, err := s.repo.GetByMatchID(ctx, matchID)
	if err != nil {
		return prediction.Artifact{}, fmt.Errorf("get prediction: %w", err)
	}
	if !exists {
		return prediction.Artifact{}, fmt.Errorf("%w: prediction match_id=%s", ErrNotFound, matchID)
	}

	return artifact, nil
}

func contextNotes(mc matchcontext.Context) map[string]string {
	if len(mc.Fallbacks) == 0 {
		return nil
	}
	out := make(map[string]string, len(mc.Fallbacks))
	for source, text := range mc.Fallbacks {
		out[string(source)] = text
	}
	return out
}

func sourceNames(sources []matchcontext.Source) []string {
	out := make([]string, 0, len(sources))
	for _, source := range sources {
		out = append(out, string(source))
	}
	return out
}
