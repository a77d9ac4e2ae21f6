package cache

import (
	"context"

	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
	"github.com/riskibarqy/match-predictor/internal/domain/roster"
	basecache "github.com/riskibarqy/match-predictor/internal/platform/cache"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

// SoccerDataProvider memoizes competition-level reads. Per-match and
// per-player reads always go to the provider.
type SoccerDataProvider struct {
	next  usecase.SoccerDataProvider
	cache *basecache.Store
}

func NewSoccerDataProvider(next usecase.SoccerDataProvider, cache *basecache.Store) *SoccerDataProvider {
	return &SoccerDataProvider{next: next, cache: cache}
}

func (p *SoccerDataProvider) FetchMatchInfo(ctx context.Context, matchID string) (usecase.ExternalMatchInfo, error) {
	return p.next.FetchMatchInfo(ctx, matchID)
}

func (p *SoccerDataProvider) FetchCompetition(ctx context.Context, competitionID string) (usecase.ExternalCompetition, error) {
	key := "competition:id:" + competitionID
	v, err := p.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return p.next.FetchCompetition(ctx, competitionID)
	})
	if err != nil {
		return usecase.ExternalCompetition{}, err
	}

	item, _ := v.(usecase.ExternalCompetition)
	return cloneCompetition(item), nil
}

func (p *SoccerDataProvider) FetchCompetitionStats(ctx context.Context, competitionID string) ([]matchcontext.PlayerStatLine, error) {
	key := "competition:stats:" + competitionID
	v, err := p.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := p.next.FetchCompetitionStats(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]matchcontext.PlayerStatLine(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]matchcontext.PlayerStatLine)
	return append([]matchcontext.PlayerStatLine(nil), items...), nil
}

func (p *SoccerDataProvider) FetchCompetitionSquad(ctx context.Context, competitionID string) ([]usecase.ExternalSquadTeam, error) {
	key := "competition:squad:" + competitionID
	v, err := p.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := p.next.FetchCompetitionSquad(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]usecase.ExternalSquadTeam(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]usecase.ExternalSquadTeam)
	out := make([]usecase.ExternalSquadTeam, 0, len(items))
	for _, item := range items {
		item.Players = append([]matchcontext.RosterPlayer(nil), item.Players...)
		out = append(out, item)
	}
	return out, nil
}

func (p *SoccerDataProvider) FetchPresquad(ctx context.Context, matchID string) (usecase.ExternalPresquad, error) {
	return p.next.FetchPresquad(ctx, matchID)
}

func (p *SoccerDataProvider) FetchTeamRecentMatches(ctx context.Context, teamID string) ([]usecase.ExternalTeamMatch, error) {
	return p.next.FetchTeamRecentMatches(ctx, teamID)
}

func (p *SoccerDataProvider) FetchPlayerProfile(ctx context.Context, playerID string) (matchcontext.PlayerProfile, error) {
	return p.next.FetchPlayerProfile(ctx, playerID)
}

func cloneCompetition(item usecase.ExternalCompetition) usecase.ExternalCompetition {
	copied := item
	copied.TeamNames = append([]string(nil), item.TeamNames...)
	copied.Standings.Overall = append([]matchcontext.StandingRow(nil), item.Standings.Overall...)
	copied.Standings.Home = append([]matchcontext.StandingRow(nil), item.Standings.Home...)
	copied.Standings.Away = append([]matchcontext.StandingRow(nil), item.Standings.Away...)
	return copied
}

type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store
}

func NewRosterRepository(next roster.Repository, cache *basecache.Store) *RosterRepository {
	return &RosterRepository{next: next, cache: cache}
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Entry, error) {
	v, err := r.cache.GetOrLoad(ctx, "roster:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]roster.Entry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]roster.Entry)
	return append([]roster.Entry(nil), items...), nil
}
