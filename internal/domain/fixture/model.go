package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusUnknown   = "UNKNOWN"
)

// Entry is the lightweight fixture summary held by the fixture cache.
type Entry struct {
	MatchID         string    `json:"match_id"`
	Status          string    `json:"status"`
	CompetitionID   string    `json:"competition_id,omitempty"`
	CompetitionName string    `json:"competition_name,omitempty"`
	HomeTeamID      string    `json:"home_team_id,omitempty"`
	HomeTeam        string    `json:"home_team"`
	AwayTeamID      string    `json:"away_team_id,omitempty"`
	AwayTeam        string    `json:"away_team"`
	Venue           string    `json:"venue,omitempty"`
	KickoffAt       time.Time `json:"kickoff_at"`
}

// StatusFromCode maps the provider's numeric match status.
func StatusFromCode(code int) string {
	switch code {
	case 1:
		return StatusScheduled
	case 2:
		return StatusFinished
	case 3:
		return StatusLive
	case 4:
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusUnknown
	}
	return status
}

func IsUpcoming(status string) bool {
	switch NormalizeStatus(status) {
	case StatusScheduled, StatusLive:
		return true
	default:
		return false
	}
}
