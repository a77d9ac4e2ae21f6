package postgres

import (
	"database/sql"
	"time"
)

const predictionTable = "match_predictions"

type predictionTableModel struct {
	ID              int64        `db:"id"`
	MatchID         string       `db:"match_id"`
	CompetitionName string       `db:"competition_name"`
	MatchDate       sql.NullTime `db:"match_date"`
	HomeTeam        string       `db:"home_team"`
	AwayTeam        string       `db:"away_team"`
	Prediction      []byte       `db:"prediction"`
	ContextNotes    []byte       `db:"context_notes"`
	Model           string       `db:"model"`
	RunID           string       `db:"run_id"`
	CreatedAt       time.Time    `db:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"`
}

type predictionInsertModel struct {
	MatchID         string       `db:"match_id"`
	CompetitionName string       `db:"competition_name"`
	MatchDate       sql.NullTime `db:"match_date"`
	HomeTeam        string       `db:"home_team"`
	AwayTeam        string       `db:"away_team"`
	Prediction      string       `db:"prediction"`
	ContextNotes    string       `db:"context_notes"`
	Model           string       `db:"model"`
	RunID           string       `db:"run_id"`
}

var predictionUpdateColumns = []string{
	"competition_name",
	"match_date",
	"home_team",
	"away_team",
	"prediction",
	"context_notes",
	"model",
	"run_id",
	"updated_at",
}
