package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/riskibarqy/match-predictor/external/provider"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
)

var errProviderDown = errors.New("provider down")

// fakeSoccer serves a fixed set of matches. Fields named fail* make the
// matching fetch fail.
type fakeSoccer struct {
	matches map[string]ExternalMatchInfo

	failCompetition bool
	failStats       bool
	failSquad       bool
	failPresquad    bool
	failRecent      bool
	failProfiles    map[string]bool
	delay           time.Duration

	primaryCalls   atomic.Int32
	secondaryCalls atomic.Int32
	profileCalls   atomic.Int32
}

func newFakeSoccer() *fakeSoccer {
	return &fakeSoccer{
		matches: map[string]ExternalMatchInfo{
			"12345": sampleMatchInfo(),
		},
	}
}

func sampleMatchInfo() ExternalMatchInfo {
	return ExternalMatchInfo{
		MatchID:         "12345",
		KickoffRaw:      "2026-03-14 15:00:00",
		KickoffAt:       time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		Venue:           matchcontext.Venue{Name: "Old Trafford", Location: "Manchester"},
		CompetitionID:   "c-1",
		CompetitionName: "Premier League",
		HomeTeamID:      "t-home",
		HomeTeamName:    "Man Utd",
		AwayTeamID:      "t-away",
		AwayTeamName:    "Liverpool",
		HomeLineup: matchcontext.Lineup{
			Available: true,
			Formation: "4-2-3-1",
			Players:   []matchcontext.LineupPlayer{{ID: "p1", Name: "Bruno Fernandes", Position: "MF", MatchPosition: "10"}},
		},
		HeadToHead: matchcontext.HeadToHead{Available: true, HomeWins: 3, AwayWins: 4, Draws: 2},
	}
}

func (f *fakeSoccer) FetchMatchInfo(ctx context.Context, matchID string) (ExternalMatchInfo, error) {
	f.primaryCalls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ExternalMatchInfo{}, ctx.Err()
		}
	}
	info, ok := f.matches[matchID]
	if !ok {
		return ExternalMatchInfo{}, provider.NewFetchError("soccer_api", "match_info", provider.ErrNotFound, errors.New("no match"))
	}
	return info, nil
}

func (f *fakeSoccer) FetchCompetition(context.Context, string) (ExternalCompetition, error) {
	f.secondaryCalls.Add(1)
	if f.failCompetition {
		return ExternalCompetition{}, errProviderDown
	}
	return ExternalCompetition{
		ID:        "c-1",
		Name:      "Premier League",
		TeamNames: []string{"Manchester United", "Liverpool"},
		GroupName: "Regular Season",
		Standings: matchcontext.Standings{
			Overall: []matchcontext.StandingRow{
				{TeamName: "Liverpool", Position: 1, Points: 70, Played: 29, Won: 22, Drawn: 4, Lost: 3},
				{TeamName: "Manchester United", Position: 6, Points: 48, Played: 29, Won: 14, Drawn: 6, Lost: 9},
			},
		},
	}, nil
}

func (f *fakeSoccer) FetchCompetitionStats(context.Context, string) ([]matchcontext.PlayerStatLine, error) {
	f.secondaryCalls.Add(1)
	if f.failStats {
		return nil, errProviderDown
	}
	return []matchcontext.PlayerStatLine{{Name: "Mohamed Salah", TeamName: "Liverpool", Goals: 21, Assists: 12, ShotsOnTarget: 40}}, nil
}

func (f *fakeSoccer) FetchCompetitionSquad(context.Context, string) ([]ExternalSquadTeam, error) {
	f.secondaryCalls.Add(1)
	if f.failSquad {
		return nil, errProviderDown
	}
	return []ExternalSquadTeam{
		{TeamID: "t-away", TeamName: "Liverpool FC", Players: []matchcontext.RosterPlayer{{Name: "Virgil van Dijk", Position: "Defender"}}},
	}, nil
}

func (f *fakeSoccer) FetchPresquad(context.Context, string) (ExternalPresquad, error) {
	f.secondaryCalls.Add(1)
	if f.failPresquad {
		return ExternalPresquad{}, errProviderDown
	}
	return ExternalPresquad{
		Home: []matchcontext.PresquadPlayer{{ID: "p1", Name: "Bruno Fernandes", Role: "mid", Rating: "9"}},
		Away: []matchcontext.PresquadPlayer{
			{ID: "p2", Name: "Mohamed Salah", Role: "fwd", Rating: "10"},
			{ID: "p3", Name: "Unknown Youth", Role: "fwd", Rating: "6"},
		},
	}, nil
}

func (f *fakeSoccer) FetchTeamRecentMatches(_ context.Context, teamID string) ([]ExternalTeamMatch, error) {
	f.secondaryCalls.Add(1)
	if f.failRecent {
		return nil, errProviderDown
	}
	return []ExternalTeamMatch{
		{
			MatchID: "m-1", Date: "2026-03-01", HomeTeamID: teamID, HomeTeam: "Self", AwayTeamID: "x", AwayTeam: "Other",
			HomeScore: 2, AwayScore: 1, Winner: "home",
			FirstHalf: matchcontext.ScorePair{Home: 1, Away: 0}, SecondHalf: matchcontext.ScorePair{Home: 1, Away: 1}, FullTime: matchcontext.ScorePair{Home: 2, Away: 1},
		},
	}, nil
}

func (f *fakeSoccer) FetchPlayerProfile(_ context.Context, playerID string) (matchcontext.PlayerProfile, error) {
	f.profileCalls.Add(1)
	if f.failProfiles[playerID] {
		return matchcontext.PlayerProfile{}, errProviderDown
	}
	return matchcontext.PlayerProfile{
		FullName: "Player " + playerID,
		Position: "Forward",
		Seasons: []matchcontext.SeasonStats{
			{TeamName: "Club", CompetitionName: "League", Year: "2025/26", Goals: 10},
			{TeamName: "Club", CompetitionName: "League", Year: "2019", Goals: 3},
		},
	}, nil
}

func (f *fakeSoccer) totalSecondaryCalls() int32 {
	return f.secondaryCalls.Load() + f.profileCalls.Load()
}

type fakeWeather struct {
	fail  bool
	calls atomic.Int32
}

func (f *fakeWeather) FetchByLocation(context.Context, string) (matchcontext.Weather, error) {
	f.calls.Add(1)
	if f.fail {
		return matchcontext.Weather{}, provider.NewFetchError("weather", "current", provider.ErrTimeout, context.DeadlineExceeded)
	}
	return matchcontext.Weather{TemperatureC: 11.5, Description: "light rain", WindSpeedMS: 4.1, HumidityPct: 81}, nil
}

type fakeModel struct {
	mu       sync.Mutex
	payload  []byte
	err      error
	requests []StructuredRequest
}

func (f *fakeModel) Generate(_ context.Context, req StructuredRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type fakeFixtureSource struct {
	mu      sync.Mutex
	entries []fixture.Entry
	err     error
}

func (f *fakeFixtureSource) set(entries []fixture.Entry, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries, f.err = entries, err
}

func (f *fakeFixtureSource) FetchActiveFixtures(context.Context) ([]fixture.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return append([]fixture.Entry(nil), f.entries...), nil
}

const validModelPayload = `{
  "homeTeam": "Manchester United",
  "awayTeam": "Liverpool",
  "expectedOutcome": {
    "goals": {"home": 1, "away": 2},
    "corners": {"home": 5, "away": 6},
    "goalsByPeriod": {
      "firstHalf": {"home": 0, "away": 1},
      "secondHalf": {"home": 1, "away": 1},
      "fullTime": {"home": 1, "away": 2}
    }
  },
  "keyPlayers": {
    "home": [{"name": "Bruno Fernandes", "shots": 3, "shotsOnTarget": 1, "assists": 1}],
    "away": [{"name": "Mohamed Salah", "shots": 5, "shotsOnTarget": 3, "assists": 0}]
  },
  "sameGameParlaySuggestions": ["Liverpool win & both teams to score"],
  "additionalPredictions": {
    "totalGoalsOverUnder": {"firstHalf": "Under 1.5", "secondHalf": "Over 0.5"},
    "mostProbableSingleBetOutcome": "Liverpool to win"
  },
  "analysis": "Liverpool's form and Salah's output give them the edge at Old Trafford.",
  "keyFactors": ["away form", "home injuries"],
  "bettingTips": ["Back Liverpool draw no bet"]
}`

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
