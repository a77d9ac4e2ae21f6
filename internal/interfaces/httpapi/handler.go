package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

// PredictionRunner runs and reads back match predictions.
type PredictionRunner interface {
	Predict(ctx context.Context, matchID string) (prediction.Artifact, error)
	GetPrediction(ctx context.Context, matchID string) (prediction.Artifact, error)
}

// FixtureReader serves the fixture cache snapshot.
type FixtureReader interface {
	List() []fixture.Entry
	Lookup(matchID string) (fixture.Entry, error)
	RefreshedAt() time.Time
}

type Handler struct {
	predictions PredictionRunner
	fixtures    FixtureReader
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(predictions PredictionRunner, fixtures FixtureReader, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	v := validator.New()
	_ = v.RegisterValidation("matchid", validMatchID)

	return &Handler{
		predictions: predictions,
		fixtures:    fixtures,
		logger:      logger,
		validator:   v,
	}
}

type matchPathParams struct {
	MatchID string `validate:"required,max=64,matchid"`
}

// validMatchID accepts any printable ASCII id without spaces or slashes.
func validMatchID(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r <= ' ' || r > '~' || r == '/' {
			return false
		}
	}
	return true
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) PredictMatchOutcome(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictMatchOutcome")
	defer span.End()

	params := matchPathParams{MatchID: r.PathValue("matchID")}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err)
		return
	}

	artifact, err := h.predictions.Predict(ctx, params.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "predict match outcome failed", "match_id", params.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(artifact))
}

func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrediction")
	defer span.End()

	params := matchPathParams{MatchID: r.PathValue("matchID")}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err)
		return
	}

	artifact, err := h.predictions.GetPrediction(ctx, params.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get prediction failed", "match_id", params.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(artifact))
}

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingMatches")
	defer span.End()

	entries := h.fixtures.List()
	items := make([]fixtureDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, fixtureToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureListDTO{
		Items:       items,
		RefreshedAt: formatTime(h.fixtures.RefreshedAt()),
	})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	params := matchPathParams{MatchID: r.PathValue("matchID")}
	if err := h.validateRequest(ctx, params); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.fixtures.Lookup(params.MatchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(entry))
}
