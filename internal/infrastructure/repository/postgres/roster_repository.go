package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-predictor/internal/domain/roster"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

type rosterTableModel struct {
	ID         int64      `db:"id"`
	TeamName   string     `db:"team_name"`
	PlayerName string     `db:"player_name"`
	Position   string     `db:"position"`
	Status     string     `db:"status"`
	Matches    int        `db:"matches"`
	Goals      int        `db:"goals"`
	Assists    int        `db:"assists"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

// RosterRepository reads roster side-data written by the ingestion job.
type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Entry, error) {
	query, args, err := qb.Select("*").
		From("roster_entries").
		Where(qb.IsNull("deleted_at")).
		OrderBy("team_name", "player_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeError("list roster entries", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, rosterFromRow(row))
	}
	return out, nil
}

func rosterFromRow(row rosterTableModel) roster.Entry {
	status := row.Status
	if status == "" {
		status = roster.StatusAvailable
	}
	return roster.Entry{
		Team:     row.TeamName,
		Name:     row.PlayerName,
		Position: row.Position,
		Status:   status,
		Matches:  row.Matches,
		Goals:    row.Goals,
		Assists:  row.Assists,
	}
}
