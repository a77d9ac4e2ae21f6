package httpapi

import (
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
)

type predictionDTO struct {
	MatchID         string            `json:"matchId"`
	CompetitionName string            `json:"competitionName"`
	MatchDate       string            `json:"matchDate,omitempty"`
	HomeTeam        string            `json:"homeTeam"`
	AwayTeam        string            `json:"awayTeam"`
	Prediction      prediction.Args   `json:"prediction"`
	ContextNotes    map[string]string `json:"contextNotes,omitempty"`
	Model           string            `json:"model,omitempty"`
	RunID           string            `json:"runId,omitempty"`
	CreatedAt       string            `json:"createdAt,omitempty"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`
}

type fixtureDTO struct {
	MatchID         string `json:"matchId"`
	Status          string `json:"status"`
	CompetitionID   string `json:"competitionId,omitempty"`
	CompetitionName string `json:"competitionName,omitempty"`
	HomeTeamID      string `json:"homeTeamId,omitempty"`
	HomeTeam        string `json:"homeTeam"`
	AwayTeamID      string `json:"awayTeamId,omitempty"`
	AwayTeam        string `json:"awayTeam"`
	Venue           string `json:"venue,omitempty"`
	KickoffAt       string `json:"kickoffAt,omitempty"`
}

type fixtureListDTO struct {
	Items       []fixtureDTO `json:"items"`
	RefreshedAt string       `json:"refreshedAt,omitempty"`
}

func predictionToDTO(v prediction.Artifact) predictionDTO {
	return predictionDTO{
		MatchID:         v.MatchID,
		CompetitionName: v.CompetitionName,
		MatchDate:       formatTime(v.MatchDate),
		HomeTeam:        v.HomeTeam,
		AwayTeam:        v.AwayTeam,
		Prediction:      v.Prediction,
		ContextNotes:    v.ContextNotes,
		Model:           v.Model,
		RunID:           v.RunID,
		CreatedAt:       formatTime(v.CreatedAt),
		UpdatedAt:       formatTime(v.UpdatedAt),
	}
}

func fixtureToDTO(v fixture.Entry) fixtureDTO {
	return fixtureDTO{
		MatchID:         v.MatchID,
		Status:          fixture.NormalizeStatus(v.Status),
		CompetitionID:   v.CompetitionID,
		CompetitionName: v.CompetitionName,
		HomeTeamID:      v.HomeTeamID,
		HomeTeam:        v.HomeTeam,
		AwayTeamID:      v.AwayTeamID,
		AwayTeam:        v.AwayTeam,
		Venue:           v.Venue,
		KickoffAt:       formatTime(v.KickoffAt),
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
