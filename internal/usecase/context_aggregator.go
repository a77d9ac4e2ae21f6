package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
	"github.com/riskibarqy/match-predictor/internal/domain/roster"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const defaultProfileConcurrency = 8

var (
	errNoVenueLocation = errors.New("venue location unknown")
	errEmptyResult     = errors.New("provider returned no rows")
)

type ContextAggregatorConfig struct {
	ProfileConcurrency int
	Logger             *logging.Logger
	Metrics            *Metrics
	Now                func() time.Time
}

// ContextAggregator builds a matchcontext.Context for one match. The primary
// match record is fetched first; every other source is fetched concurrently
// and replaced by its documented fallback when it fails.
type ContextAggregator struct {
	soccer             SoccerDataProvider
	weather            WeatherProvider
	rosterRepo         roster.Repository
	profileConcurrency int
	logger             *logging.Logger
	metrics            *Metrics
	now                func() time.Time
}

func NewContextAggregator(
	soccer SoccerDataProvider,
	weather WeatherProvider,
	rosterRepo roster.Repository,
	cfg ContextAggregatorConfig,
) *ContextAggregator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	concurrency := cfg.ProfileConcurrency
	if concurrency <= 0 {
		concurrency = defaultProfileConcurrency
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &ContextAggregator{
		soccer:             soccer,
		weather:            weather,
		rosterRepo:         rosterRepo,
		profileConcurrency: concurrency,
		logger:             logger,
		metrics:            cfg.Metrics,
		now:                now,
	}
}

type secondaryResults struct {
	competition    ExternalCompetition
	competitionErr error

	stats    []matchcontext.PlayerStatLine
	statsErr error

	presquad    ExternalPresquad
	presquadErr error
	profiles    []matchcontext.PlayerProfile

	homeMatches    []ExternalTeamMatch
	homeMatchesErr error
	awayMatches    []ExternalTeamMatch
	awayMatchesErr error

	weather    matchcontext.Weather
	weatherErr error

	rosterEntries []roster.Entry
	rosterErr     error
	squad         []ExternalSquadTeam
	squadErr      error
}

func (a *ContextAggregator) Aggregate(ctx context.Context, matchID string) (matchcontext.Context, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContextAggregator.Aggregate")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return matchcontext.Context{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	info, err := a.soccer.FetchMatchInfo(ctx, matchID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return matchcontext.Context{}, ctxErr
		}
		return matchcontext.Context{}, &AggregationError{Kind: AggregationPrimaryNotFound, MatchID: matchID, Err: err}
	}

	res, err := a.fetchSecondary(ctx, info)
	if err != nil {
		return matchcontext.Context{}, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return matchcontext.Context{}, ctxErr
	}

	return a.assemble(ctx, matchID, info, res), nil
}

func (a *ContextAggregator) fetchSecondary(ctx context.Context, info ExternalMatchInfo) (secondaryResults, error) {
	var res secondaryResults
	var wg conc.WaitGroup

	wg.Go(func() {
		res.competition, res.competitionErr = a.soccer.FetchCompetition(ctx, info.CompetitionID)
	})
	wg.Go(func() {
		res.stats, res.statsErr = a.soccer.FetchCompetitionStats(ctx, info.CompetitionID)
	})
	wg.Go(func() {
		res.squad, res.squadErr = a.soccer.FetchCompetitionSquad(ctx, info.CompetitionID)
	})
	wg.Go(func() {
		res.homeMatches, res.homeMatchesErr = a.soccer.FetchTeamRecentMatches(ctx, info.HomeTeamID)
	})
	wg.Go(func() {
		res.awayMatches, res.awayMatchesErr = a.soccer.FetchTeamRecentMatches(ctx, info.AwayTeamID)
	})
	wg.Go(func() {
		location := strings.TrimSpace(info.Venue.Location)
		if location == "" {
			res.weatherErr = errNoVenueLocation
			return
		}
		res.weather, res.weatherErr = a.weather.FetchByLocation(ctx, location)
	})
	wg.Go(func() {
		if a.rosterRepo == nil {
			res.rosterErr = errEmptyResult
			return
		}
		res.rosterEntries, res.rosterErr = a.rosterRepo.List(ctx)
	})
	wg.Go(func() {
		res.presquad, res.presquadErr = a.soccer.FetchPresquad(ctx, info.MatchID)
		if res.presquadErr != nil {
			return
		}
		players := make([]matchcontext.PresquadPlayer, 0, len(res.presquad.Home)+len(res.presquad.Away))
		players = append(players, res.presquad.Home...)
		players = append(players, res.presquad.Away...)
		res.profiles = a.fetchProfiles(ctx, players)
	})

	if recovered := wg.WaitAndRecover(); recovered != nil {
		return secondaryResults{}, fmt.Errorf("aggregate match_id=%s: %w", info.MatchID, recovered.AsError())
	}
	return res, nil
}

// fetchProfiles returns one profile per player, in input order. Failed
// lookups yield an unavailable profile.
func (a *ContextAggregator) fetchProfiles(ctx context.Context, players []matchcontext.PresquadPlayer) []matchcontext.PlayerProfile {
	out := make([]matchcontext.PlayerProfile, len(players))
	for i, player := range players {
		out[i] = matchcontext.PlayerProfile{PlayerID: player.ID, FullName: player.Name}
	}
	if len(players) == 0 {
		return out
	}

	pool, err := ants.NewPool(min(a.profileConcurrency, len(players)))
	if err != nil {
		a.logger.WarnContext(ctx, "create profile worker pool failed", "error", err)
		return out
	}
	defer pool.Release()

	now := a.now()
	var workers sync.WaitGroup
	for i, player := range players {
		i, player := i, player
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			profile, fetchErr := a.soccer.FetchPlayerProfile(ctx, player.ID)
			if fetchErr != nil {
				a.logger.DebugContext(ctx, "player profile unavailable", "player_id", player.ID, "error", fetchErr)
				return
			}
			profile.PlayerID = player.ID
			profile.Available = true
			profile.Seasons = matchcontext.FilterRecentSeasons(profile.Seasons, now)
			out[i] = profile
		}); err != nil {
			workers.Done()
			a.logger.WarnContext(ctx, "submit profile fetch failed", "player_id", player.ID, "error", err)
		}
	}
	workers.Wait()

	return out
}

func (a *ContextAggregator) assemble(ctx context.Context, matchID string, info ExternalMatchInfo, res secondaryResults) matchcontext.Context {
	out := matchcontext.Context{
		MatchID:    matchID,
		KickoffRaw: info.KickoffRaw,
		KickoffAt:  info.KickoffAt,
		Venue:      info.Venue,
		Competition: matchcontext.Competition{
			ID:   info.CompetitionID,
			Name: info.CompetitionName,
		},
		Home:       newTeam(info.HomeTeamID, info.HomeTeamName, info.HomeLineup),
		Away:       newTeam(info.AwayTeamID, info.AwayTeamName, info.AwayLineup),
		HeadToHead: info.HeadToHead,
		Fallbacks:  make(map[matchcontext.Source]string),
	}

	degrade := func(source matchcontext.Source, err error) {
		out.Fallbacks[source] = matchcontext.FallbackFor(source)
		a.metrics.observeDegraded(source)
		a.logger.WarnContext(ctx, "aggregation source degraded",
			"match_id", matchID,
			"source", string(source),
			"error", &AggregationError{Kind: AggregationSecondaryDegraded, MatchID: matchID, Source: source, Err: err},
		)
	}

	if res.competitionErr != nil {
		degrade(matchcontext.SourceCompetition, res.competitionErr)
		degrade(matchcontext.SourceStandings, res.competitionErr)
	} else {
		out.Competition.Name = firstNonEmpty(res.competition.Name, info.CompetitionName)
		out.Competition.TeamNames = res.competition.TeamNames
		out.Competition.GroupName = res.competition.GroupName
		out.Competition.GroupLabel = res.competition.GroupLabel
		out.Standings = res.competition.Standings
		if len(out.Standings.Overall) == 0 && len(out.Standings.Home) == 0 && len(out.Standings.Away) == 0 {
			degrade(matchcontext.SourceStandings, errEmptyResult)
		}
	}

	out.CompetitionStats = res.stats
	if err := nonEmpty(res.statsErr, len(res.stats)); err != nil {
		degrade(matchcontext.SourceCompetitionStats, err)
	}

	out.Home.RecentForm = recentForm(res.homeMatches, info.HomeTeamID)
	if err := nonEmpty(res.homeMatchesErr, len(out.Home.RecentForm)); err != nil {
		degrade(matchcontext.SourceHomeRecentForm, err)
	}
	out.Away.RecentForm = recentForm(res.awayMatches, info.AwayTeamID)
	if err := nonEmpty(res.awayMatchesErr, len(out.Away.RecentForm)); err != nil {
		degrade(matchcontext.SourceAwayRecentForm, err)
	}

	if res.weatherErr != nil {
		degrade(matchcontext.SourceWeather, res.weatherErr)
	} else {
		out.Weather = res.weather
		out.Weather.Available = true
	}

	out.Home.Roster = rosterFor(out.Home, res)
	if len(out.Home.Roster) == 0 {
		degrade(matchcontext.SourceHomeRoster, firstError(res.rosterErr, res.squadErr, errEmptyResult))
	}
	out.Away.Roster = rosterFor(out.Away, res)
	if len(out.Away.Roster) == 0 {
		degrade(matchcontext.SourceAwayRoster, firstError(res.rosterErr, res.squadErr, errEmptyResult))
	}

	if res.presquadErr != nil {
		degrade(matchcontext.SourcePresquad, res.presquadErr)
	} else {
		out.Home.Presquad = res.presquad.Home
		out.Away.Presquad = res.presquad.Away
		split := min(len(res.presquad.Home), len(res.profiles))
		out.Home.Profiles = res.profiles[:split]
		out.Away.Profiles = res.profiles[split:]
		if len(res.presquad.Home)+len(res.presquad.Away) == 0 {
			degrade(matchcontext.SourcePresquad, errEmptyResult)
		}
	}

	if !out.Home.Lineup.Available {
		degrade(matchcontext.SourceHomeLineup, errEmptyResult)
	}
	if !out.Away.Lineup.Available {
		degrade(matchcontext.SourceAwayLineup, errEmptyResult)
	}
	if !out.HeadToHead.Available {
		degrade(matchcontext.SourceHeadToHead, errEmptyResult)
	}

	return out
}

func newTeam(id, name string, lineup matchcontext.Lineup) matchcontext.Team {
	return matchcontext.Team{
		ID:            id,
		Name:          name,
		CanonicalName: matchcontext.NormalizeTeamName(name),
		Lineup:        lineup,
	}
}

// recentForm turns a team's match history into results seen from that team.
func recentForm(matches []ExternalTeamMatch, teamID string) []matchcontext.RecentMatch {
	if len(matches) == 0 {
		return nil
	}
	out := make([]matchcontext.RecentMatch, 0, len(matches))
	for _, m := range matches {
		isHome := m.HomeTeamID == teamID
		row := matchcontext.RecentMatch{Date: m.Date}
		if !m.PlayedAt.IsZero() {
			row.Date = m.PlayedAt.Format(time.DateOnly)
		}

		if isHome {
			row.TeamName, row.OpponentName = m.HomeTeam, m.AwayTeam
			row.TeamScore, row.OpponentScore = m.HomeScore, m.AwayScore
			row.FirstHalf, row.SecondHalf, row.FullTime = m.FirstHalf, m.SecondHalf, m.FullTime
		} else {
			row.TeamName, row.OpponentName = m.AwayTeam, m.HomeTeam
			row.TeamScore, row.OpponentScore = m.AwayScore, m.HomeScore
			row.FirstHalf, row.SecondHalf, row.FullTime = flip(m.FirstHalf), flip(m.SecondHalf), flip(m.FullTime)
		}

		switch winner := strings.ToLower(strings.TrimSpace(m.Winner)); {
		case winner == "" || winner == "draw":
			row.Outcome = matchcontext.OutcomeDraw
		case (winner == "home" && isHome) || (winner == "away" && !isHome):
			row.Outcome = matchcontext.OutcomeWin
		default:
			row.Outcome = matchcontext.OutcomeLoss
		}
		out = append(out, row)
	}
	return out
}

// flip swaps a home/away pair so Home reads as the perspective team.
func flip(pair matchcontext.ScorePair) matchcontext.ScorePair {
	return matchcontext.ScorePair{Home: pair.Away, Away: pair.Home}
}

// rosterFor prefers roster side-data and falls back to the competition squad.
func rosterFor(team matchcontext.Team, res secondaryResults) []matchcontext.RosterPlayer {
	var out []matchcontext.RosterPlayer
	if res.rosterErr == nil {
		for _, entry := range res.rosterEntries {
			if !matchcontext.SameTeam(entry.Team, team.Name) {
				continue
			}
			out = append(out, matchcontext.RosterPlayer{
				Name:     entry.Name,
				Position: entry.Position,
				Status:   entry.Status,
				Matches:  entry.Matches,
				Goals:    entry.Goals,
				Assists:  entry.Assists,
			})
		}
	}
	if len(out) > 0 || res.squadErr != nil {
		return out
	}

	for _, squad := range res.squad {
		if (team.ID != "" && squad.TeamID == team.ID) || matchcontext.SameTeam(squad.TeamName, team.Name) {
			for _, player := range squad.Players {
				player.Status = firstNonEmpty(player.Status, roster.StatusAvailable)
				out = append(out, player)
			}
			break
		}
	}
	return out
}

func nonEmpty(err error, n int) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return errEmptyResult
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
