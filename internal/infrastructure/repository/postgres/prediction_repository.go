package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert writes the artifact in one transaction. The unique match_id
// constraint turns a repeated run into an update of the same row.
func (r *PredictionRepository) Upsert(ctx context.Context, artifact prediction.Artifact) error {
	insertModel, err := predictionInsertFromArtifact(artifact)
	if err != nil {
		return err
	}

	query, args, err := predictionUpsertQuery(insertModel)
	if err != nil {
		return fmt.Errorf("build prediction upsert query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeError("begin tx upsert prediction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return storeError(fmt.Sprintf("upsert prediction match_id=%s", artifact.MatchID), err)
	}
	if err := tx.Commit(); err != nil {
		return storeError("commit upsert prediction tx", err)
	}

	return nil
}

func (r *PredictionRepository) GetByMatchID(ctx context.Context, matchID string) (prediction.Artifact, bool, error) {
	query, args, err := qb.Select("*").
		From(predictionTable).
		Where(qb.Eq("match_id", strings.TrimSpace(matchID))).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Artifact{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Artifact{}, false, nil
		}
		return prediction.Artifact{}, false, storeError("get prediction", err)
	}

	artifact, err := predictionFromRow(row)
	if err != nil {
		return prediction.Artifact{}, false, err
	}
	return artifact, true, nil
}

func predictionUpsertQuery(model predictionInsertModel) (string, []any, error) {
	suffix := qb.OnConflictUpdate([]string{"match_id"}, predictionUpdateColumns, map[string]string{"updated_at": "NOW()"})
	return qb.InsertModel(predictionTable, model, suffix)
}

func predictionInsertFromArtifact(artifact prediction.Artifact) (predictionInsertModel, error) {
	matchID := strings.TrimSpace(artifact.MatchID)
	if matchID == "" {
		return predictionInsertModel{}, fmt.Errorf("%w: blank match id", prediction.ErrConstraintViolation)
	}

	payload, err := jsoniter.Marshal(artifact.Prediction)
	if err != nil {
		return predictionInsertModel{}, fmt.Errorf("marshal prediction match_id=%s: %w", matchID, err)
	}
	notes := []byte("{}")
	if len(artifact.ContextNotes) > 0 {
		notes, err = jsoniter.Marshal(artifact.ContextNotes)
		if err != nil {
			return predictionInsertModel{}, fmt.Errorf("marshal context notes match_id=%s: %w", matchID, err)
		}
	}

	return predictionInsertModel{
		MatchID:         matchID,
		CompetitionName: artifact.CompetitionName,
		MatchDate:       nullableTime(artifact.MatchDate),
		HomeTeam:        artifact.HomeTeam,
		AwayTeam:        artifact.AwayTeam,
		Prediction:      string(payload),
		ContextNotes:    string(notes),
		Model:           artifact.Model,
		RunID:           artifact.RunID,
	}, nil
}

func predictionFromRow(row predictionTableModel) (prediction.Artifact, error) {
	out := prediction.Artifact{
		MatchID:         row.MatchID,
		CompetitionName: row.CompetitionName,
		HomeTeam:        row.HomeTeam,
		AwayTeam:        row.AwayTeam,
		Model:           row.Model,
		RunID:           row.RunID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.MatchDate.Valid {
		out.MatchDate = row.MatchDate.Time
	}
	if len(row.Prediction) > 0 {
		if err := jsoniter.Unmarshal(row.Prediction, &out.Prediction); err != nil {
			return prediction.Artifact{}, fmt.Errorf("decode prediction match_id=%s: %w", row.MatchID, err)
		}
	}
	if len(row.ContextNotes) > 0 {
		var notes map[string]string
		if err := jsoniter.Unmarshal(row.ContextNotes, &notes); err != nil {
			return prediction.Artifact{}, fmt.Errorf("decode context notes match_id=%s: %w", row.MatchID, err)
		}
		if len(notes) > 0 {
			out.ContextNotes = notes
		}
	}
	return out, nil
}
