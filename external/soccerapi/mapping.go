package soccerapi

import (
	"strings"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

var providerTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func mapMatchInfo(items matchInfoItems) usecase.ExternalMatchInfo {
	record := items.MatchInfo[0]
	out := usecase.ExternalMatchInfo{
		MatchID:         record.MID.String(),
		KickoffRaw:      strings.TrimSpace(record.DateStart),
		CompetitionID:   record.Competition.CID.String(),
		CompetitionName: strings.TrimSpace(record.Competition.CName),
		HomeTeamID:      record.Teams.Home.TID.String(),
		HomeTeamName:    strings.TrimSpace(record.Teams.Home.TName),
		AwayTeamID:      record.Teams.Away.TID.String(),
		AwayTeamName:    strings.TrimSpace(record.Teams.Away.TName),
	}
	if kickoff, ok := parseProviderDateTime(record.DateStart); ok {
		out.KickoffAt = kickoff
	}
	if record.Venue.Set {
		out.Venue = matchcontext.Venue{
			Name:     strings.TrimSpace(record.Venue.Data.Name),
			Location: strings.TrimSpace(record.Venue.Data.Location),
		}
	}
	if items.Lineup.Set {
		out.HomeLineup = mapLineup(items.Lineup.Data.Home)
		out.AwayLineup = mapLineup(items.Lineup.Data.Away)
	}
	if items.HeadToHead.Set {
		h2h := items.HeadToHead.Data
		out.HeadToHead = matchcontext.HeadToHead{
			Available: true,
			HomeWins:  h2h.TotalHomeWin.Int(),
			AwayWins:  h2h.TotalAwayWin.Int(),
			Draws:     h2h.TotalDraw.Int(),
		}
	}
	return out
}

func mapLineup(side optional[teamLineup]) matchcontext.Lineup {
	if !side.Set {
		return matchcontext.Lineup{}
	}

	out := matchcontext.Lineup{}
	if side.Data.Lineup.Set {
		body := side.Data.Lineup.Data
		out.Formation = strings.TrimSpace(body.Formation)
		out.Players = mapLineupPlayers(body.Player)
		out.Available = len(out.Players) > 0
	}
	if side.Data.Substitutes.Set {
		out.Substitutes = mapLineupPlayers(side.Data.Substitutes.Data)
	}
	return out
}

func mapLineupPlayers(items []lineupPlayer) []matchcontext.LineupPlayer {
	if len(items) == 0 {
		return nil
	}
	out := make([]matchcontext.LineupPlayer, 0, len(items))
	for _, item := range items {
		out = append(out, matchcontext.LineupPlayer{
			ID:            item.PID.String(),
			Name:          strings.TrimSpace(item.PName),
			Position:      item.Position.String(),
			MatchPosition: item.MatchPosition.String(),
		})
	}
	return out
}

func mapCompetition(record competitionRecord) usecase.ExternalCompetition {
	out := usecase.ExternalCompetition{
		ID:   record.CID.String(),
		Name: strings.TrimSpace(record.CName),
	}
	for _, team := range record.Teams {
		if name := strings.TrimSpace(team.TName); name != "" {
			out.TeamNames = append(out.TeamNames, name)
		}
	}
	if len(record.PointTable) > 0 {
		table := record.PointTable[0]
		out.GroupName = strings.TrimSpace(table.Name)
		out.GroupLabel = strings.TrimSpace(table.GroupName)
		out.Standings = matchcontext.Standings{
			Overall: mapStandingRows(table.Tables.Overall),
			Home:    mapStandingRows(table.Tables.Home),
			Away:    mapStandingRows(table.Tables.Away),
		}
	}
	return out
}

func mapStandingRows(items []standingRow) []matchcontext.StandingRow {
	if len(items) == 0 {
		return nil
	}
	out := make([]matchcontext.StandingRow, 0, len(items))
	for _, item := range items {
		row := matchcontext.StandingRow{
			TeamName:       strings.TrimSpace(item.TName),
			Position:       item.Position.Int(),
			Points:         item.PointsTotal.Int(),
			Played:         item.PlayedTotal.Int(),
			Won:            item.WinTotal.Int(),
			Drawn:          item.DrawTotal.Int(),
			Lost:           item.LossTotal.Int(),
			GoalsFor:       item.GoalsForTotal.Int(),
			GoalsAgainst:   item.GoalsAgainstTotal.Int(),
			GoalDifference: item.GoalDiffTotal.Int(),
		}
		if item.Promotion.Set {
			row.PromotionType = strings.TrimSpace(item.Promotion.Data.Type)
			row.PromotionName = strings.TrimSpace(item.Promotion.Data.Name)
		}
		out = append(out, row)
	}
	return out
}

func mapStatLine(item statLine) matchcontext.PlayerStatLine {
	teamName := ""
	if item.Team.Set {
		teamName = firstNonEmpty(item.Team.Data.Name, item.Team.Data.TName)
	}
	return matchcontext.PlayerStatLine{
		Name:          strings.TrimSpace(item.Name),
		TeamName:      teamName,
		Goals:         item.Goals.Int(),
		Assists:       item.Assist.Int(),
		ShotsOnTarget: item.ShotsOnTarget.Int(),
	}
}

func mapSquadTeam(team squadTeam) usecase.ExternalSquadTeam {
	out := usecase.ExternalSquadTeam{
		TeamID:   team.TID.String(),
		TeamName: strings.TrimSpace(team.TName),
	}
	for _, player := range team.Squads {
		name := strings.TrimSpace(player.PName)
		if name == "" {
			continue
		}
		out.Players = append(out.Players, matchcontext.RosterPlayer{
			Name:     name,
			Position: firstNonEmpty(player.PositionName, player.Role),
		})
	}
	return out
}

func mapPresquad(items presquadItems) usecase.ExternalPresquad {
	return usecase.ExternalPresquad{
		Home: mapPresquadPlayers(items.Teams.Home),
		Away: mapPresquadPlayers(items.Teams.Away),
	}
}

func mapPresquadPlayers(items []presquadPlayer) []matchcontext.PresquadPlayer {
	if len(items) == 0 {
		return nil
	}
	out := make([]matchcontext.PresquadPlayer, 0, len(items))
	for _, item := range items {
		if item.PID == "" {
			continue
		}
		out = append(out, matchcontext.PresquadPlayer{
			ID:     item.PID.String(),
			Name:   strings.TrimSpace(item.PName),
			Role:   strings.TrimSpace(item.Role),
			Rating: item.Rating.String(),
		})
	}
	return out
}

func mapTeamMatch(record matchRecord) usecase.ExternalTeamMatch {
	out := usecase.ExternalTeamMatch{
		MatchID:    record.MID.String(),
		Date:       strings.TrimSpace(record.DateStart),
		HomeTeamID: record.Teams.Home.TID.String(),
		HomeTeam:   strings.TrimSpace(record.Teams.Home.TName),
		AwayTeamID: record.Teams.Away.TID.String(),
		AwayTeam:   strings.TrimSpace(record.Teams.Away.TName),
	}
	if playedAt, ok := parseProviderDateTime(record.DateStart); ok {
		out.PlayedAt = playedAt
	}
	if record.Result.Set {
		out.HomeScore = record.Result.Data.Home.Int()
		out.AwayScore = record.Result.Data.Away.Int()
		out.Winner = strings.ToLower(record.Result.Data.Winner.String())
	}
	if record.Periods.Set {
		out.FirstHalf = mapScorePair(record.Periods.Data.P1)
		out.SecondHalf = mapScorePair(record.Periods.Data.P2)
		out.FullTime = mapScorePair(record.Periods.Data.FT)
	}
	return out
}

func mapScorePair(pair optional[scorePair]) matchcontext.ScorePair {
	if !pair.Set {
		return matchcontext.ScorePair{}
	}
	return matchcontext.ScorePair{Home: pair.Data.Home.Int(), Away: pair.Data.Away.Int()}
}

func mapPlayerProfile(playerID string, item playerProfileItem) matchcontext.PlayerProfile {
	out := matchcontext.PlayerProfile{
		PlayerID:  playerID,
		Available: true,
		FullName:  strings.TrimSpace(item.PlayerInfo.FullName),
		Position:  strings.TrimSpace(item.PlayerInfo.PositionName),
		Height:    item.PlayerInfo.Height.String(),
		Weight:    item.PlayerInfo.Weight.String(),
		Foot:      strings.TrimSpace(item.PlayerInfo.Foot),
	}
	if !item.Stats.Set {
		return out
	}
	for _, season := range item.Stats.Data.Seasons {
		stats := matchcontext.SeasonStats{
			TeamName:        strings.TrimSpace(season.TName),
			CompetitionName: strings.TrimSpace(season.CName),
			Year:            season.Year.String(),
		}
		if season.Data.Set {
			data := season.Data.Data
			stats.Goals = data.Goals.Int()
			stats.Assists = data.Assists.Int()
			stats.YellowCards = data.YellowCards.Int()
			stats.RedCards = data.RedCards.Int()
			stats.Matches = data.Matches.Int()
			stats.MinutesPlayed = data.MinutesPlayed.Int()
			stats.ShotsOnGoal = data.ShotsOnGoal.Int()
			stats.ShotsOffGoal = data.ShotsOffGoal.Int()
			stats.ShotsBlocked = data.ShotsBlocked.Int()
			stats.Penalties = data.Penalties.Int()
			stats.Corners = data.Corners.Int()
			stats.Offside = data.Offside.Int()
		}
		out.Seasons = append(out.Seasons, stats)
	}
	return out
}

func mapFixtureEntry(record matchRecord) fixture.Entry {
	entry := fixture.Entry{
		MatchID:         record.MID.String(),
		Status:          fixture.StatusFromCode(record.Status.Int()),
		CompetitionID:   record.Competition.CID.String(),
		CompetitionName: strings.TrimSpace(record.Competition.CName),
		HomeTeamID:      record.Teams.Home.TID.String(),
		HomeTeam:        strings.TrimSpace(record.Teams.Home.TName),
		AwayTeamID:      record.Teams.Away.TID.String(),
		AwayTeam:        strings.TrimSpace(record.Teams.Away.TName),
	}
	if record.Venue.Set {
		entry.Venue = strings.TrimSpace(record.Venue.Data.Name)
	}
	if kickoff, ok := parseProviderDateTime(record.DateStart); ok {
		entry.KickoffAt = kickoff
	}
	return entry
}

// parseProviderDateTime parses the provider's kickoff timestamps, which are UTC
// without an offset.
func parseProviderDateTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range providerTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
