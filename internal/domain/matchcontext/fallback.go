package matchcontext

import "sort"

// Source names one tolerated input of the aggregation.
type Source string

const (
	SourceCompetition      Source = "competition"
	SourceStandings        Source = "standings"
	SourceCompetitionStats Source = "competition_stats"
	SourceHomeRecentForm   Source = "home_recent_form"
	SourceAwayRecentForm   Source = "away_recent_form"
	SourceWeather          Source = "weather"
	SourceHomeRoster       Source = "home_roster"
	SourceAwayRoster       Source = "away_roster"
	SourcePresquad         Source = "presquad"
	SourceHomeLineup       Source = "home_lineup"
	SourceAwayLineup       Source = "away_lineup"
	SourceHeadToHead       Source = "head_to_head"
)

const (
	FallbackRecentMatches = "No recent matches available."
	FallbackWeather       = "Weather data not available."
	FallbackRoster        = "No player information available."
	FallbackLineup        = "No lineup available"
	FallbackFormation     = "Unknown Formation"
	FallbackNotAvailable  = "Not Available"
	FallbackVenue         = "Unknown Venue"
	FallbackLocation      = "Unknown Location"
	FallbackCompetition   = "Unknown Competition"
	FallbackProfile       = "Profile not available"
	FallbackStats         = "Stats not available"
	FallbackHeadToHead    = "Head to head data not available"
	FallbackStandings     = "Standings not available."
	FallbackCompStats     = "Competition statistics not available."
	FallbackPresquad      = "Pre squad not available."
	FallbackUnknown       = "Unknown"
	FallbackDate          = "Unknown Date"
	FallbackNA            = "N/A"
)

var fallbackTable = map[Source]string{
	SourceCompetition:      FallbackCompetition,
	SourceStandings:        FallbackStandings,
	SourceCompetitionStats: FallbackCompStats,
	SourceHomeRecentForm:   FallbackRecentMatches,
	SourceAwayRecentForm:   FallbackRecentMatches,
	SourceWeather:          FallbackWeather,
	SourceHomeRoster:       FallbackRoster,
	SourceAwayRoster:       FallbackRoster,
	SourcePresquad:         FallbackPresquad,
	SourceHomeLineup:       FallbackLineup,
	SourceAwayLineup:       FallbackLineup,
	SourceHeadToHead:       FallbackHeadToHead,
}

// FallbackFor returns the documented substitute for a failed source.
func FallbackFor(source Source) string {
	if text, ok := fallbackTable[source]; ok {
		return text
	}
	return FallbackNotAvailable
}

// SortedSources returns the keys of fallbacks in lexical order.
func SortedSources(fallbacks map[Source]string) []Source {
	out := make([]Source, 0, len(fallbacks))
	for source := range fallbacks {
		out = append(out, source)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
