package matchcontext

import "time"

// Context is the normalized view of one fixture handed to the prompt compiler.
// It is built by a single aggregation run and not modified afterwards.
type Context struct {
	MatchID          string
	KickoffRaw       string
	KickoffAt        time.Time
	Venue            Venue
	Competition      Competition
	Home             Team
	Away             Team
	Standings        Standings
	Weather          Weather
	HeadToHead       HeadToHead
	CompetitionStats []PlayerStatLine

	// Fallbacks holds the substituted text for every tolerated source that
	// failed or returned nothing, keyed by source.
	Fallbacks map[Source]string
}

type Venue struct {
	Name     string
	Location string
}

type Competition struct {
	ID         string
	Name       string
	TeamNames  []string
	GroupName  string
	GroupLabel string
}

type Team struct {
	ID            string
	Name          string
	CanonicalName string
	Lineup        Lineup
	Presquad      []PresquadPlayer
	RecentForm    []RecentMatch
	Roster        []RosterPlayer
	Profiles      []PlayerProfile
}

type Lineup struct {
	Available   bool
	Formation   string
	Players     []LineupPlayer
	Substitutes []LineupPlayer
}

type LineupPlayer struct {
	ID            string
	Name          string
	Position      string
	MatchPosition string
}

type PresquadPlayer struct {
	ID     string
	Name   string
	Role   string
	Rating string
}

type ScorePair struct {
	Home int
	Away int
}

// RecentMatch is one finished match seen from the perspective of Team.
type RecentMatch struct {
	TeamName      string
	OpponentName  string
	Date          string
	TeamScore     int
	OpponentScore int
	Outcome       string
	FirstHalf     ScorePair
	SecondHalf    ScorePair
	FullTime      ScorePair
}

const (
	OutcomeWin  = "Win"
	OutcomeLoss = "Loss"
	OutcomeDraw = "Draw"
)

type RosterPlayer struct {
	Name     string
	Position string
	Status   string
	Matches  int
	Goals    int
	Assists  int
}

type PlayerProfile struct {
	PlayerID  string
	Available bool
	FullName  string
	Position  string
	Height    string
	Weight    string
	Foot      string
	Seasons   []SeasonStats
}

type SeasonStats struct {
	TeamName        string
	CompetitionName string
	Year            string
	Goals           int
	Assists         int
	YellowCards     int
	RedCards        int
	Matches         int
	MinutesPlayed   int
	ShotsOnGoal     int
	ShotsOffGoal    int
	ShotsBlocked    int
	Penalties       int
	Corners         int
	Offside         int
}

type Standings struct {
	Overall []StandingRow
	Home    []StandingRow
	Away    []StandingRow
}

type StandingRow struct {
	TeamName       string
	Position       int
	Points         int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	PromotionType  string
	PromotionName  string
}

type Weather struct {
	Available    bool
	TemperatureC float64
	Description  string
	WindSpeedMS  float64
	HumidityPct  int
}

type HeadToHead struct {
	Available bool
	HomeWins  int
	AwayWins  int
	Draws     int
}

type PlayerStatLine struct {
	Name          string
	TeamName      string
	Goals         int
	Assists       int
	ShotsOnTarget int
}

// Fallback returns the substituted text for source, if one was applied.
func (c Context) Fallback(source Source) (string, bool) {
	text, ok := c.Fallbacks[source]
	return text, ok
}

// Degraded lists the sources that used a fallback, in lexical order.
func (c Context) Degraded() []Source {
	return SortedSources(c.Fallbacks)
}
