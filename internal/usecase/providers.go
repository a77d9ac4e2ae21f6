package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
)

// SoccerDataProvider is the fixture/competition data source consumed by the
// context aggregator.
type SoccerDataProvider interface {
	FetchMatchInfo(ctx context.Context, matchID string) (ExternalMatchInfo, error)
	FetchCompetition(ctx context.Context, competitionID string) (ExternalCompetition, error)
	FetchCompetitionStats(ctx context.Context, competitionID string) ([]matchcontext.PlayerStatLine, error)
	FetchCompetitionSquad(ctx context.Context, competitionID string) ([]ExternalSquadTeam, error)
	FetchPresquad(ctx context.Context, matchID string) (ExternalPresquad, error)
	FetchTeamRecentMatches(ctx context.Context, teamID string) ([]ExternalTeamMatch, error)
	FetchPlayerProfile(ctx context.Context, playerID string) (matchcontext.PlayerProfile, error)
}

type WeatherProvider interface {
	FetchByLocation(ctx context.Context, location string) (matchcontext.Weather, error)
}

// ModelClient submits a compiled request to the generative model and returns
// the raw arguments of the forced function call.
type ModelClient interface {
	Generate(ctx context.Context, req StructuredRequest) ([]byte, error)
}

// ExternalMatchInfo is the primary match record.
type ExternalMatchInfo struct {
	MatchID         string
	KickoffRaw      string
	KickoffAt       time.Time
	Venue           matchcontext.Venue
	CompetitionID   string
	CompetitionName string
	HomeTeamID      string
	HomeTeamName    string
	AwayTeamID      string
	AwayTeamName    string
	HomeLineup      matchcontext.Lineup
	AwayLineup      matchcontext.Lineup
	HeadToHead      matchcontext.HeadToHead
}

type ExternalCompetition struct {
	ID         string
	Name       string
	TeamNames  []string
	GroupName  string
	GroupLabel string
	Standings  matchcontext.Standings
}

type ExternalSquadTeam struct {
	TeamID   string
	TeamName string
	Players  []matchcontext.RosterPlayer
}

type ExternalPresquad struct {
	Home []matchcontext.PresquadPlayer
	Away []matchcontext.PresquadPlayer
}

// ExternalTeamMatch is one finished match from a team's history, home/away as
// played.
type ExternalTeamMatch struct {
	MatchID    string
	Date       string
	PlayedAt   time.Time
	HomeTeamID string
	HomeTeam   string
	AwayTeamID string
	AwayTeam   string
	HomeScore  int
	AwayScore  int
	Winner     string
	FirstHalf  matchcontext.ScorePair
	SecondHalf matchcontext.ScorePair
	FullTime   matchcontext.ScorePair
}
