package usecase

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/valyala/bytebufferpool"
)

const (
	systemPrompt   = "You are a sports Analyst AI."
	analystPreface = "You are an expert sports analyst with insights sharper than betting bookmakers. " +
		"Analyze the upcoming football match using the data below and look for safer bets and value opportunities."
)

// PromptCompiler renders a match context into the model request. Compile is
// pure: equal contexts always produce byte-identical requests.
type PromptCompiler struct{}

func NewPromptCompiler() *PromptCompiler {
	return &PromptCompiler{}
}

func (c *PromptCompiler) Compile(mc matchcontext.Context) StructuredRequest {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := promptWriter{buf: buf}
	w.line(analystPreface)
	w.blank()
	writeFixture(&w, mc)
	writeWeather(&w, mc)
	writeStandings(&w, mc)
	writeLineups(&w, mc)
	writeHeadToHead(&w, mc)
	writeRecentForm(&w, mc)
	writeRosters(&w, mc)
	writePresquad(&w, mc)
	writeProfiles(&w, mc)
	writeCompetitionStats(&w, mc)
	writeDataNotes(&w, mc)

	return StructuredRequest{
		System:       systemPrompt,
		User:         strings.TrimRight(buf.String(), "\n"),
		FunctionName: prediction.FunctionName,
		Description:  prediction.FunctionDescription,
		Schema:       prediction.Schema(),
	}
}

type promptWriter struct {
	buf *bytebufferpool.ByteBuffer
}

func (w *promptWriter) line(parts ...string) {
	for _, part := range parts {
		_, _ = w.buf.WriteString(part)
	}
	_ = w.buf.WriteByte('\n')
}

func (w *promptWriter) blank() {
	_ = w.buf.WriteByte('\n')
}

func writeFixture(w *promptWriter, mc matchcontext.Context) {
	w.line("Teams: ", or(mc.Home.Name, matchcontext.FallbackUnknown), " vs ", or(mc.Away.Name, matchcontext.FallbackUnknown))
	w.line("Venue: ", or(mc.Venue.Name, matchcontext.FallbackVenue), ", Location: ", or(mc.Venue.Location, matchcontext.FallbackLocation))
	w.line("Date: ", kickoffText(mc))

	teams := matchcontext.FallbackNotAvailable
	if len(mc.Competition.TeamNames) > 0 {
		teams = strings.Join(mc.Competition.TeamNames, ", ")
	}
	w.line("Competition: ", or(mc.Competition.Name, matchcontext.FallbackCompetition), ", featuring teams like ", teams, ".")
	w.blank()
}

func kickoffText(mc matchcontext.Context) string {
	if raw := strings.TrimSpace(mc.KickoffRaw); raw != "" {
		return raw
	}
	if !mc.KickoffAt.IsZero() {
		return mc.KickoffAt.UTC().Format(time.DateTime)
	}
	return matchcontext.FallbackDate
}

func writeWeather(w *promptWriter, mc matchcontext.Context) {
	w.line("Weather:")
	if !mc.Weather.Available {
		w.line(fallbackText(mc, matchcontext.SourceWeather))
		w.blank()
		return
	}
	wx := mc.Weather
	w.line(
		"Temperature: ", formatFloat(wx.TemperatureC), "°C, ",
		"Description: ", or(wx.Description, matchcontext.FallbackNA), ", ",
		"Wind Speed: ", formatFloat(wx.WindSpeedMS), " m/s, ",
		"Humidity: ", strconv.Itoa(wx.HumidityPct), "%",
	)
	w.blank()
}

func writeStandings(w *promptWriter, mc matchcontext.Context) {
	w.line("Point Table Overview:")
	if _, degraded := mc.Fallback(matchcontext.SourceStandings); degraded {
		w.line(fallbackText(mc, matchcontext.SourceStandings))
	} else {
		for _, row := range mc.Standings.Overall {
			w.line(". Team: ", row.TeamName, standingFields(row, "", ""))
		}
	}
	w.blank()

	w.line("Home Games:")
	for _, row := range mc.Standings.Home {
		w.line("- ", row.TeamName, standingFields(row, "Home ", "at Home"))
	}
	w.blank()

	w.line("Away Games:")
	for _, row := range mc.Standings.Away {
		w.line("- ", row.TeamName, standingFields(row, "Away ", "Away"))
	}
	w.blank()

	group := or(mc.Competition.GroupName, matchcontext.FallbackNotAvailable)
	if label := strings.TrimSpace(mc.Competition.GroupLabel); label != "" {
		group += " (" + label + ")"
	}
	w.line("Competition Group: ", group)
	w.blank()
}

func standingFields(row matchcontext.StandingRow, prefix, playedSuffix string) string {
	played := "Played"
	if playedSuffix != "" {
		played += " " + playedSuffix
	}
	var sb strings.Builder
	sb.WriteString(", Position: " + strconv.Itoa(row.Position))
	sb.WriteString(", " + prefix + "Points: " + strconv.Itoa(row.Points))
	sb.WriteString(", " + played + ": " + strconv.Itoa(row.Played))
	sb.WriteString(", " + prefix + "Wins: " + strconv.Itoa(row.Won))
	sb.WriteString(", " + prefix + "Draws: " + strconv.Itoa(row.Drawn))
	sb.WriteString(", " + prefix + "Losses: " + strconv.Itoa(row.Lost))
	sb.WriteString(", " + prefix + "Goals For: " + strconv.Itoa(row.GoalsFor))
	sb.WriteString(", " + prefix + "Goals Against: " + strconv.Itoa(row.GoalsAgainst))
	sb.WriteString(", " + prefix + "Goal Difference: " + strconv.Itoa(row.GoalDifference))
	sb.WriteString(", Promotion: " + or(row.PromotionType, matchcontext.FallbackNA) + " (" + or(row.PromotionName, matchcontext.FallbackNA) + ")")
	return sb.String()
}

func writeLineups(w *promptWriter, mc matchcontext.Context) {
	w.line("Formation:")
	w.line("Home: ", or(mc.Home.Lineup.Formation, matchcontext.FallbackFormation), ",")
	w.line("Away: ", or(mc.Away.Lineup.Formation, matchcontext.FallbackFormation), ".")
	w.blank()

	for _, side := range []struct {
		label string
		team  matchcontext.Team
	}{{"Home", mc.Home}, {"Away", mc.Away}} {
		w.line("Lineup:")
		w.line(side.label, ": ", lineupText(side.team.Lineup))
		w.line("Substitutes:")
		w.line(side.label, ": ", substitutesText(side.team.Lineup))
	}
	w.blank()
}

func lineupText(lineup matchcontext.Lineup) string {
	if !lineup.Available {
		return matchcontext.FallbackLineup
	}
	players := make([]string, 0, len(lineup.Players))
	for _, p := range lineup.Players {
		players = append(players, "("+p.ID+","+p.Name+") ("+p.Position+", "+p.MatchPosition+")")
	}
	return "Formation: " + or(lineup.Formation, matchcontext.FallbackFormation) + ", Players: " + strings.Join(players, ", ")
}

func substitutesText(lineup matchcontext.Lineup) string {
	if len(lineup.Substitutes) == 0 {
		return matchcontext.FallbackNotAvailable
	}
	subs := make([]string, 0, len(lineup.Substitutes))
	for _, p := range lineup.Substitutes {
		subs = append(subs, "("+p.ID+","+p.Name+") ("+p.MatchPosition+", "+p.Position+")")
	}
	return strings.Join(subs, ", ")
}

func writeHeadToHead(w *promptWriter, mc matchcontext.Context) {
	w.line("Head-to-Head:")
	if !mc.HeadToHead.Available {
		w.line(fallbackText(mc, matchcontext.SourceHeadToHead))
		w.blank()
		return
	}
	h2h := mc.HeadToHead
	w.line("Home wins: ", strconv.Itoa(h2h.HomeWins), ",")
	w.line("Away wins: ", strconv.Itoa(h2h.AwayWins), ",")
	w.line("Draws: ", strconv.Itoa(h2h.Draws), ".")
	w.blank()
}

func writeRecentForm(w *promptWriter, mc matchcontext.Context) {
	w.line("Recent Matches:")
	for _, side := range []struct {
		label  string
		source matchcontext.Source
		form   []matchcontext.RecentMatch
	}{
		{"Home Team:", matchcontext.SourceHomeRecentForm, mc.Home.RecentForm},
		{"Away Team:", matchcontext.SourceAwayRecentForm, mc.Away.RecentForm},
	} {
		w.line(side.label)
		if len(side.form) == 0 {
			w.line(fallbackText(mc, side.source))
			w.blank()
			continue
		}
		for _, m := range side.form {
			w.line("Team: ", m.TeamName)
			w.line("Opponent: ", m.OpponentName)
			w.line("Date: ", or(m.Date, matchcontext.FallbackDate))
			w.line("Result: ", scoreline(m.TeamScore, m.OpponentScore), " (", m.Outcome, ")")
			w.line("Periods:")
			w.line("  First Half: ", scoreline(m.FirstHalf.Home, m.FirstHalf.Away))
			w.line("  Second Half: ", scoreline(m.SecondHalf.Home, m.SecondHalf.Away))
			w.line("  Full Time: ", scoreline(m.FullTime.Home, m.FullTime.Away))
			w.blank()
		}
	}
}

func writeRosters(w *promptWriter, mc matchcontext.Context) {
	w.line("Team Information:")
	for _, side := range []struct {
		label  string
		source matchcontext.Source
		roster []matchcontext.RosterPlayer
	}{
		{"Home Team Players:", matchcontext.SourceHomeRoster, mc.Home.Roster},
		{"Away Team Players:", matchcontext.SourceAwayRoster, mc.Away.Roster},
	} {
		w.line(side.label)
		if len(side.roster) == 0 {
			w.line(fallbackText(mc, side.source))
		}
		for _, p := range side.roster {
			w.line(rosterLine(p))
		}
		w.blank()
	}
}

func rosterLine(p matchcontext.RosterPlayer) string {
	line := p.Name
	if initial := positionInitial(p.Position); initial != "" {
		line += " (" + initial + ")"
	}
	switch strings.ToLower(strings.TrimSpace(p.Status)) {
	case "injured":
		line += " - (Injured)"
	case "suspended":
		line += " - (Suspended)"
	}
	return line
}

func positionInitial(position string) string {
	position = strings.TrimSpace(position)
	if position == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(position)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

func writePresquad(w *promptWriter, mc matchcontext.Context) {
	w.line("Fantasy Players:")
	if _, degraded := mc.Fallback(matchcontext.SourcePresquad); degraded {
		w.line(fallbackText(mc, matchcontext.SourcePresquad))
		w.blank()
		return
	}
	w.line("Pre Squad Home: ", presquadText(mc.Home.Presquad), ",")
	w.line("Pre Squad Away: ", presquadText(mc.Away.Presquad), ".")
	w.blank()
}

func presquadText(players []matchcontext.PresquadPlayer) string {
	if len(players) == 0 {
		return matchcontext.FallbackNotAvailable
	}
	parts := make([]string, 0, len(players))
	for _, p := range players {
		parts = append(parts, "("+p.ID+","+p.Name+") ("+or(p.Role, matchcontext.FallbackNA)+", "+or(p.Rating, matchcontext.FallbackNA)+")")
	}
	return strings.Join(parts, ", ")
}

func writeProfiles(w *promptWriter, mc matchcontext.Context) {
	w.line("Player Profiles:")
	for _, side := range []struct {
		label    string
		profiles []matchcontext.PlayerProfile
	}{{"Home Team:", mc.Home.Profiles}, {"Away Team:", mc.Away.Profiles}} {
		w.line(side.label)
		if len(side.profiles) == 0 {
			w.line(matchcontext.FallbackNotAvailable)
		}
		for _, p := range side.profiles {
			writeProfile(w, p)
		}
		w.blank()
	}
}

func writeProfile(w *promptWriter, p matchcontext.PlayerProfile) {
	if !p.Available {
		label := or(p.FullName, p.PlayerID)
		w.line(label, ": ", matchcontext.FallbackProfile)
		return
	}
	w.line(
		or(p.FullName, matchcontext.FallbackNA), " (", or(p.Position, matchcontext.FallbackNA), "), ",
		"Height: ", or(p.Height, matchcontext.FallbackNA), " cm, ",
		"Weight: ", or(p.Weight, matchcontext.FallbackNA), " kg, ",
		"Foot: ", or(p.Foot, matchcontext.FallbackNA),
	)
	w.line("Stats:")
	if len(p.Seasons) == 0 {
		w.line(matchcontext.FallbackStats)
		return
	}
	for _, s := range p.Seasons {
		w.line(
			"Team: ", or(s.TeamName, matchcontext.FallbackUnknown),
			", Competition: ", or(s.CompetitionName, matchcontext.FallbackUnknown),
			", Year: ", or(s.Year, matchcontext.FallbackNA),
			", Goals: ", strconv.Itoa(s.Goals),
			", Assists: ", strconv.Itoa(s.Assists),
			", Yellow Cards: ", strconv.Itoa(s.YellowCards),
			", Red Cards: ", strconv.Itoa(s.RedCards),
			", Matches: ", strconv.Itoa(s.Matches),
			", Minutes Played: ", strconv.Itoa(s.MinutesPlayed),
			", Shots On Goal: ", strconv.Itoa(s.ShotsOnGoal),
			", Shots Off Goal: ", strconv.Itoa(s.ShotsOffGoal),
			", Shots Blocked: ", strconv.Itoa(s.ShotsBlocked),
			", Penalties: ", strconv.Itoa(s.Penalties),
			", Corners: ", strconv.Itoa(s.Corners),
			", Offside: ", strconv.Itoa(s.Offside),
		)
	}
}

func writeCompetitionStats(w *promptWriter, mc matchcontext.Context) {
	w.line("Competition Statistics:")
	if len(mc.CompetitionStats) == 0 {
		w.line(fallbackText(mc, matchcontext.SourceCompetitionStats))
		w.blank()
		return
	}
	for _, s := range mc.CompetitionStats {
		w.line(
			"Player: ", s.Name,
			", Team: ", or(s.TeamName, matchcontext.FallbackUnknown),
			", Goals: ", strconv.Itoa(s.Goals),
			", Assists: ", strconv.Itoa(s.Assists),
			", Shots On Target: ", strconv.Itoa(s.ShotsOnTarget),
		)
	}
	w.blank()
}

func writeDataNotes(w *promptWriter, mc matchcontext.Context) {
	sources := mc.Degraded()
	if len(sources) == 0 {
		return
	}
	w.line("Data Notes:")
	for _, source := range sources {
		w.line("- ", string(source), ": ", mc.Fallbacks[source])
	}
}

func fallbackText(mc matchcontext.Context, source matchcontext.Source) string {
	if text, ok := mc.Fallback(source); ok {
		return text
	}
	return matchcontext.FallbackFor(source)
}

func scoreline(a, b int) string {
	return strconv.Itoa(a) + "-" + strconv.Itoa(b)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func or(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
