package matchcontext

import "strings"

var teamAliases = map[string]string{
	"man united":    "manchester united",
	"man utd":       "manchester united",
	"man city":      "manchester city",
	"nott'm forest": "nottingham forest",
	"nott’m forest": "nottingham forest",
	"wolves":        "wolverhampton wanderers",
	"wolverhampton": "wolverhampton wanderers",
	"spurs":         "tottenham hotspur",
	"west ham":      "west ham united",
	"brighton":      "brighton & hove albion",
	"leicester":     "leicester city",
}

// NormalizeTeamName lower-cases and trims name, then maps known aliases to
// their canonical form. Unknown names are returned trimmed and lower-cased.
func NormalizeTeamName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := teamAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// SameTeam reports whether two free-text names refer to the same club.
func SameTeam(left, right string) bool {
	l := NormalizeTeamName(left)
	return l != "" && l == NormalizeTeamName(right)
}
