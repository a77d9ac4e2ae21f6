package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/memory"
)

var aggregatorNow = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func newTestAggregator(soccer *fakeSoccer, weather *fakeWeather, metrics *Metrics) *ContextAggregator {
	return NewContextAggregator(soccer, weather, memory.NewRosterRepository(memory.SeedRoster()), ContextAggregatorConfig{
		ProfileConcurrency: 2,
		Metrics:            metrics,
		Now:                func() time.Time { return aggregatorNow },
	})
}

func TestContextAggregator_PrimaryFailureSkipsSecondaryFetches(t *testing.T) {
	t.Parallel()

	soccer := newFakeSoccer()
	weather := &fakeWeather{}
	aggregator := newTestAggregator(soccer, weather, nil)

	_, err := aggregator.Aggregate(t.Context(), "99999")
	if !errors.Is(err, ErrPrimaryNotFound) {
		t.Fatalf("expected ErrPrimaryNotFound, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected primary failure to match ErrNotFound, got %v", err)
	}
	var aggErr *AggregationError
	if !errors.As(err, &aggErr) || aggErr.Kind != AggregationPrimaryNotFound {
		t.Fatalf("expected AggregationError with primary kind, got %#v", err)
	}
	if got := soccer.totalSecondaryCalls() + weather.calls.Load(); got != 0 {
		t.Fatalf("expected no secondary fetches, got %d", got)
	}
}

func TestContextAggregator_RejectsBlankMatchID(t *testing.T) {
	t.Parallel()

	soccer := newFakeSoccer()
	_, err := newTestAggregator(soccer, &fakeWeather{}, nil).Aggregate(t.Context(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if soccer.primaryCalls.Load() != 0 {
		t.Fatalf("expected no provider call for blank id")
	}
}

func TestContextAggregator_WeatherFailureUsesFallback(t *testing.T) {
	t.Parallel()

	soccer := newFakeSoccer()
	soccer.failProfiles = map[string]bool{"p3": true}
	reg := prometheus.NewRegistry()
	aggregator := newTestAggregator(soccer, &fakeWeather{fail: true}, NewMetrics(reg))

	mc, err := aggregator.Aggregate(t.Context(), "12345")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if text, ok := mc.Fallback(matchcontext.SourceWeather); !ok || text != "Weather data not available." {
		t.Fatalf("expected weather fallback, got %q (ok=%v)", text, ok)
	}
	if mc.Weather.Available {
		t.Fatalf("expected weather to be unavailable")
	}
	if _, ok := mc.Fallback(matchcontext.SourceAwayLineup); !ok {
		t.Fatalf("expected away lineup fallback when provider has no lineup")
	}
	for _, source := range []matchcontext.Source{
		matchcontext.SourceCompetition,
		matchcontext.SourceStandings,
		matchcontext.SourceHomeRecentForm,
		matchcontext.SourceHomeRoster,
		matchcontext.SourceAwayRoster,
		matchcontext.SourcePresquad,
		matchcontext.SourceHeadToHead,
	} {
		if _, ok := mc.Fallback(source); ok {
			t.Fatalf("expected live data for %s, got fallback", source)
		}
	}

	if mc.Home.CanonicalName != "manchester united" {
		t.Fatalf("expected canonical home name, got %q", mc.Home.CanonicalName)
	}
	if len(mc.Home.Roster) != 3 {
		t.Fatalf("expected roster side-data matched through alias, got %d rows", len(mc.Home.Roster))
	}

	if len(mc.Home.Profiles) != 1 || len(mc.Away.Profiles) != 2 {
		t.Fatalf("expected profiles split by side, got home=%d away=%d", len(mc.Home.Profiles), len(mc.Away.Profiles))
	}
	if !mc.Home.Profiles[0].Available || len(mc.Home.Profiles[0].Seasons) != 1 {
		t.Fatalf("expected recent seasons only, got %+v", mc.Home.Profiles[0])
	}
	if mc.Away.Profiles[1].Available || mc.Away.Profiles[1].PlayerID != "p3" {
		t.Fatalf("expected failed profile kept as unavailable placeholder, got %+v", mc.Away.Profiles[1])
	}

	if got := counterValue(t, reg, "prediction_pipeline_degraded_sources_total", "source", "weather"); got != 1 {
		t.Fatalf("expected one degraded weather observation, got %v", got)
	}
}

func TestContextAggregator_ToleratesSecondaryOutage(t *testing.T) {
	t.Parallel()

	soccer := newFakeSoccer()
	soccer.failCompetition = true
	soccer.failStats = true
	soccer.failRecent = true
	soccer.failPresquad = true

	mc, err := newTestAggregator(soccer, &fakeWeather{}, nil).Aggregate(t.Context(), "12345")
	if err != nil {
		t.Fatalf("expected aggregation to tolerate secondary outage, got %v", err)
	}

	want := map[matchcontext.Source]string{
		matchcontext.SourceCompetition:      "Unknown Competition",
		matchcontext.SourceStandings:        "Standings not available.",
		matchcontext.SourceCompetitionStats: "Competition statistics not available.",
		matchcontext.SourceHomeRecentForm:   "No recent matches available.",
		matchcontext.SourceAwayRecentForm:   "No recent matches available.",
		matchcontext.SourcePresquad:         "Pre squad not available.",
	}
	for source, text := range want {
		if got, ok := mc.Fallback(source); !ok || got != text {
			t.Fatalf("expected fallback %q for %s, got %q (ok=%v)", text, source, got, ok)
		}
	}
	if len(mc.Home.RecentForm) != 0 || len(mc.CompetitionStats) != 0 || len(mc.Home.Profiles) != 0 {
		t.Fatalf("expected empty lists for failed sources")
	}
	if mc.Competition.Name != "Premier League" {
		t.Fatalf("expected competition name from primary record, got %q", mc.Competition.Name)
	}
	if soccer.profileCalls.Load() != 0 {
		t.Fatalf("expected no profile fetches without a presquad")
	}
}

func TestContextAggregator_FallsBackToCompetitionSquad(t *testing.T) {
	t.Parallel()

	soccer := newFakeSoccer()
	aggregator := NewContextAggregator(soccer, &fakeWeather{}, nil, ContextAggregatorConfig{Now: func() time.Time { return aggregatorNow }})

	mc, err := aggregator.Aggregate(t.Context(), "12345")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(mc.Away.Roster) != 1 || mc.Away.Roster[0].Status != "available" {
		t.Fatalf("expected away roster from squad matched by team id, got %+v", mc.Away.Roster)
	}
	if text, ok := mc.Fallback(matchcontext.SourceHomeRoster); !ok || text != "No player information available." {
		t.Fatalf("expected home roster fallback, got %q (ok=%v)", text, ok)
	}
}

func TestRecentForm_PerspectiveAndOutcome(t *testing.T) {
	t.Parallel()

	matches := []ExternalTeamMatch{
		{
			HomeTeamID: "a", HomeTeam: "Alpha", AwayTeamID: "b", AwayTeam: "Beta",
			HomeScore: 3, AwayScore: 1, Winner: "home",
			FirstHalf: matchcontext.ScorePair{Home: 2, Away: 0},
			FullTime:  matchcontext.ScorePair{Home: 3, Away: 1},
			PlayedAt:  time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC),
		},
		{HomeTeamID: "c", HomeTeam: "Gamma", AwayTeamID: "b", AwayTeam: "Beta", HomeScore: 1, AwayScore: 1, Winner: "draw"},
		{HomeTeamID: "b", HomeTeam: "Beta", AwayTeamID: "d", AwayTeam: "Delta", HomeScore: 0, AwayScore: 0},
		{HomeTeamID: "e", HomeTeam: "Epsilon", AwayTeamID: "b", AwayTeam: "Beta", HomeScore: 0, AwayScore: 2, Winner: "away"},
	}

	got := recentForm(matches, "b")
	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got))
	}

	first := got[0]
	if first.TeamName != "Beta" || first.OpponentName != "Alpha" || first.TeamScore != 1 || first.OpponentScore != 3 {
		t.Fatalf("expected away perspective, got %+v", first)
	}
	if first.Outcome != matchcontext.OutcomeLoss {
		t.Fatalf("expected Loss, got %s", first.Outcome)
	}
	if first.FirstHalf != (matchcontext.ScorePair{Home: 0, Away: 2}) {
		t.Fatalf("expected flipped periods, got %+v", first.FirstHalf)
	}
	if first.Date != "2026-02-01" {
		t.Fatalf("expected date from kickoff time, got %q", first.Date)
	}

	for i, want := range []string{matchcontext.OutcomeDraw, matchcontext.OutcomeDraw, matchcontext.OutcomeWin} {
		if got[i+1].Outcome != want {
			t.Fatalf("row %d: expected %s, got %s", i+1, want, got[i+1].Outcome)
		}
	}
}
