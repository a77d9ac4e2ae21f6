package soccerapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

type envelope struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

type itemsResponse[T any] struct {
	Items T `json:"items"`
}

type matchInfoItems struct {
	MatchInfo  []matchRecord         `json:"match_info"`
	Lineup     optional[lineupPair]  `json:"lineup"`
	HeadToHead optional[headToHead] `json:"headtohead"`
}

type matchRecord struct {
	MID         flexString             `json:"mid"`
	Status      flexInt                `json:"status"`
	DateStart   string                 `json:"datestart"`
	Competition competitionRef         `json:"competition"`
	Teams       teamPair               `json:"teams"`
	Venue       optional[venueRef]     `json:"venue"`
	Result      optional[matchResult]  `json:"result"`
	Periods     optional[periodScores] `json:"periods"`
}

type competitionRef struct {
	CID   flexString `json:"cid"`
	CName string     `json:"cname"`
}

type teamRef struct {
	TID   flexString `json:"tid"`
	TName string     `json:"tname"`
}

type teamPair struct {
	Home teamRef `json:"home"`
	Away teamRef `json:"away"`
}

type venueRef struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type matchResult struct {
	Home   flexInt    `json:"home"`
	Away   flexInt    `json:"away"`
	Winner flexString `json:"winner"`
}

type periodScores struct {
	P1 optional[scorePair] `json:"p1"`
	P2 optional[scorePair] `json:"p2"`
	FT optional[scorePair] `json:"ft"`
}

type scorePair struct {
	Home flexInt `json:"home"`
	Away flexInt `json:"away"`
}

type lineupPair struct {
	Home optional[teamLineup] `json:"home"`
	Away optional[teamLineup] `json:"away"`
}

type teamLineup struct {
	Lineup      optional[lineupBody]     `json:"lineup"`
	Substitutes optional[[]lineupPlayer] `json:"substitutes"`
}

type lineupBody struct {
	Formation string         `json:"formation"`
	Player    []lineupPlayer `json:"player"`
}

type lineupPlayer struct {
	PID           flexString `json:"pid"`
	PName         string     `json:"pname"`
	Position      flexString `json:"position"`
	MatchPosition flexString `json:"matchposition"`
}

type headToHead struct {
	TotalHomeWin flexInt `json:"totalhomewin"`
	TotalAwayWin flexInt `json:"totalawaywin"`
	TotalDraw    flexInt `json:"totaldraw"`
}

type competitionRecord struct {
	CID        flexString   `json:"cid"`
	CName      string       `json:"cname"`
	Teams      []teamRef    `json:"teams"`
	PointTable []pointTable `json:"point_table"`
}

type pointTable struct {
	Name      string      `json:"name"`
	GroupName string      `json:"groupname"`
	Tables    pointTables `json:"tables"`
}

// pointTables accepts either a bare row list (overall only) or an object keyed
// by view.
type pointTables struct {
	Overall []standingRow
	Home    []standingRow
	Away    []standingRow
}

func (p *pointTables) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*p = pointTables{}
	if len(trimmed) == 0 || trimmed[0] == 'n' {
		return nil
	}
	if trimmed[0] == '[' {
		return sonic.Unmarshal(trimmed, &p.Overall)
	}

	var views struct {
		Total   optional[[]standingRow] `json:"total"`
		Overall optional[[]standingRow] `json:"overall"`
		Home    optional[[]standingRow] `json:"home"`
		Away    optional[[]standingRow] `json:"away"`
	}
	if err := sonic.Unmarshal(trimmed, &views); err != nil {
		return err
	}
	p.Overall = views.Overall.Data
	if !views.Overall.Set {
		p.Overall = views.Total.Data
	}
	p.Home = views.Home.Data
	p.Away = views.Away.Data
	return nil
}

type standingRow struct {
	TName             string              `json:"tname"`
	Position          flexInt             `json:"position"`
	PointsTotal       flexInt             `json:"pointstotal"`
	PlayedTotal       flexInt             `json:"playedtotal"`
	WinTotal          flexInt             `json:"wintotal"`
	DrawTotal         flexInt             `json:"drawtotal"`
	LossTotal         flexInt             `json:"losstotal"`
	GoalsForTotal     flexInt             `json:"goalsfortotal"`
	GoalsAgainstTotal flexInt             `json:"goalsagainsttotal"`
	GoalDiffTotal     flexInt             `json:"goaldifftotal"`
	Promotion         optional[promotion] `json:"promotion"`
}

type promotion struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type statLine struct {
	PID           flexString        `json:"pid"`
	Name          string            `json:"name"`
	Team          optional[statTeam] `json:"team"`
	Goals         flexInt           `json:"goals"`
	Assist        flexInt           `json:"assist"`
	ShotsOnTarget flexInt           `json:"shotsontarget"`
}

type statTeam struct {
	TID   flexString `json:"tid"`
	Name  string     `json:"name"`
	TName string     `json:"tname"`
}

type squadResponse struct {
	Teams []squadTeam `json:"teams"`
}

type squadTeam struct {
	TID    flexString    `json:"tid"`
	TName  string        `json:"tname"`
	Squads []squadPlayer `json:"squads"`
}

type squadPlayer struct {
	PID          flexString `json:"pid"`
	PName        string     `json:"pname"`
	PositionName string     `json:"positionname"`
	Role         string     `json:"role"`
}

type presquadItems struct {
	Teams struct {
		Home []presquadPlayer `json:"home"`
		Away []presquadPlayer `json:"away"`
	} `json:"teams"`
}

type presquadPlayer struct {
	PID    flexString `json:"pid"`
	PName  string     `json:"pname"`
	Role   string     `json:"role"`
	Rating flexString `json:"rating"`
}

type playerProfileItem struct {
	PlayerInfo playerInfo             `json:"player_info"`
	Stats      optional[profileStats] `json:"stats"`
}

type playerInfo struct {
	FullName     string     `json:"fullname"`
	PositionName string     `json:"positionname"`
	Height       flexString `json:"height"`
	Weight       flexString `json:"weight"`
	Foot         string     `json:"foot"`
}

type profileStats struct {
	Seasons []profileSeason `json:"seasons"`
}

type profileSeason struct {
	TName string               `json:"tname"`
	CName string               `json:"cname"`
	Year  flexString           `json:"year"`
	Data  optional[seasonData] `json:"data"`
}

type seasonData struct {
	Goals         flexInt `json:"goals"`
	Assists       flexInt `json:"assists"`
	YellowCards   flexInt `json:"yellowcards"`
	RedCards      flexInt `json:"redcards"`
	Matches       flexInt `json:"matches"`
	MinutesPlayed flexInt `json:"minutesplayed"`
	ShotsOnGoal   flexInt `json:"shotsongoal"`
	ShotsOffGoal  flexInt `json:"shotsoffgoal"`
	ShotsBlocked  flexInt `json:"shotsblocked"`
	Penalties     flexInt `json:"penalties"`
	Corners       flexInt `json:"corners"`
	Offside       flexInt `json:"offside"`
}

// optional decodes a field the provider sometimes sends with a different
// shape (a message string, an empty array). Anything that does not decode
// into T leaves Set false.
type optional[T any] struct {
	Data T
	Set  bool
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	var zero T
	o.Data, o.Set = zero, false
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var decoded T
	if err := sonic.Unmarshal(trimmed, &decoded); err != nil {
		return nil
	}
	o.Data = decoded
	o.Set = true
	return nil
}

// flexString holds ids and labels the provider sends as either strings or numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*f = ""
	case trimmed[0] == '"':
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	default:
		*f = flexString(trimmed)
	}
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// flexInt holds counters the provider sends as numbers, numeric strings or
// empty strings. Non-numeric values decode as zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	parsed, err := strconv.ParseFloat(raw.String(), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		*f = 0
		return nil
	}
	*f = flexInt(math.Round(parsed))
	return nil
}

func (f flexInt) Int() int {
	return int(f)
}
