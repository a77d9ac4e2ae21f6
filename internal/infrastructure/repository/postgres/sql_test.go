package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

func TestStoreError(t *testing.T) {
	t.Run("unique violation maps to constraint violation", func(t *testing.T) {
		err := storeError("upsert prediction", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
		if !errors.Is(err, prediction.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("connection failure maps to store unavailable", func(t *testing.T) {
		for _, cause := range []error{
			driver.ErrBadConn,
			&pq.Error{Code: "08006", Message: "connection failure"},
			&pq.Error{Code: "57P01", Message: "terminating connection due to administrator command"},
		} {
			err := storeError("upsert prediction", cause)
			if !errors.Is(err, prediction.ErrStoreUnavailable) {
				t.Fatalf("expected ErrStoreUnavailable for %v, got %v", cause, err)
			}
		}
	})

	t.Run("other errors keep only the cause", func(t *testing.T) {
		cause := fakeErr("pq: relation match_predictions does not exist")
		err := storeError("get prediction", cause)
		if errors.Is(err, prediction.ErrStoreUnavailable) || errors.Is(err, prediction.ErrConstraintViolation) {
			t.Fatalf("expected untagged error, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Fatalf("expected cause in chain, got %v", err)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if storeError("noop", nil) != nil {
			t.Fatalf("expected nil")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestPredictionUpsertQuery(t *testing.T) {
	artifact := prediction.Artifact{
		MatchID:         " 12345 ",
		CompetitionName: "Premier League",
		HomeTeam:        "Manchester United",
		AwayTeam:        "Liverpool",
		ContextNotes:    map[string]string{"weather": "Weather data not available."},
		Model:           "gpt-4o-2024-08-06",
		RunID:           "run-1",
	}
	artifact.Prediction.Analysis = "Liverpool edge it."

	model, err := predictionInsertFromArtifact(artifact)
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}
	if model.MatchID != "12345" || model.MatchDate.Valid {
		t.Fatalf("expected trimmed id and null match date, got %+v", model)
	}

	query, args, err := predictionUpsertQuery(model)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO match_predictions (match_id, competition_name, match_date, home_team, away_team, prediction, context_notes, model, run_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)") {
		t.Fatalf("unexpected insert clause: %s", query)
	}
	if !strings.HasSuffix(query, "ON CONFLICT (match_id) DO UPDATE SET competition_name = EXCLUDED.competition_name, match_date = EXCLUDED.match_date, home_team = EXCLUDED.home_team, away_team = EXCLUDED.away_team, prediction = EXCLUDED.prediction, context_notes = EXCLUDED.context_notes, model = EXCLUDED.model, run_id = EXCLUDED.run_id, updated_at = NOW()") {
		t.Fatalf("unexpected conflict clause: %s", query)
	}
	if len(args) != 9 {
		t.Fatalf("expected 9 args, got %d", len(args))
	}
	if notes, _ := args[6].(string); notes != `{"weather":"Weather data not available."}` {
		t.Fatalf("unexpected context notes payload: %v", args[6])
	}
}

func TestPredictionInsertFromArtifact_BlankID(t *testing.T) {
	_, err := predictionInsertFromArtifact(prediction.Artifact{MatchID: " "})
	if !errors.Is(err, prediction.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestPredictionFromRow(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	row := predictionTableModel{
		MatchID:         "12345",
		CompetitionName: "Premier League",
		MatchDate:       sql.NullTime{Time: kickoff, Valid: true},
		HomeTeam:        "Manchester United",
		AwayTeam:        "Liverpool",
		Prediction:      []byte(`{"analysis":"Liverpool edge it.","expectedOutcome":{"goals":{"home":1,"away":2}}}`),
		ContextNotes:    []byte(`{}`),
	}

	got, err := predictionFromRow(row)
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if !got.MatchDate.Equal(kickoff) || got.Prediction.Analysis != "Liverpool edge it." || got.Prediction.ExpectedOutcome.Goals.Away != 2 {
		t.Fatalf("unexpected artifact: %+v", got)
	}
	if got.ContextNotes != nil {
		t.Fatalf("expected empty notes to decode as nil, got %v", got.ContextNotes)
	}

	row.Prediction = []byte(`{"analysis":`)
	if _, err := predictionFromRow(row); err == nil {
		t.Fatalf("expected decode error for truncated payload")
	}
}

func TestRosterFromRow_DefaultsStatus(t *testing.T) {
	got := rosterFromRow(rosterTableModel{TeamName: "Arsenal", PlayerName: "Bukayo Saka"})
	if got.Status != "available" || got.Team != "Arsenal" {
		t.Fatalf("unexpected roster entry: %+v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
