package matchcontext

import (
	"strconv"
	"strings"
	"time"
)

// RecentSeasonYears is how many calendar years, counting the current one,
// of per-player season statistics are kept.
const RecentSeasonYears = 3

// IsRecentSeason reports whether a provider season label falls within the last
// RecentSeasonYears calendar years of now. Labels may be a 4-digit year
// ("2024"), a 2-digit year ("24") or a split season ("2023/24", "2023-2024"),
// in which case the trailing year decides.
func IsRecentSeason(label string, now time.Time) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}

	current := now.Year()
	recent := make(map[string]struct{}, RecentSeasonYears*2)
	for i := 0; i < RecentSeasonYears; i++ {
		full := strconv.Itoa(current - i)
		recent[full] = struct{}{}
		recent[full[len(full)-2:]] = struct{}{}
	}

	if _, ok := recent[label]; ok {
		return true
	}

	tail := trailingDigits(label)
	if len(tail) == 4 || len(tail) == 2 {
		_, ok := recent[tail]
		return ok
	}
	return false
}

// FilterRecentSeasons keeps seasons whose year label passes IsRecentSeason,
// preserving order.
func FilterRecentSeasons(seasons []SeasonStats, now time.Time) []SeasonStats {
	out := make([]SeasonStats, 0, len(seasons))
	for _, season := range seasons {
		if IsRecentSeason(season.Year, now) {
			out = append(out, season)
		}
	}
	return out
}

func trailingDigits(value string) string {
	end := len(value)
	start := end
	for start > 0 && value[start-1] >= '0' && value[start-1] <= '9' {
		start--
	}
	return value[start:end]
}
