package memory

import "github.com/riskibarqy/match-predictor/internal/domain/roster"

// SeedRoster is a small roster sample used when the service runs without a
// database.
func SeedRoster() []roster.Entry {
	return []roster.Entry{
		{Team: "Manchester United", Name: "Bruno Fernandes", Position: "Midfielder", Status: roster.StatusAvailable, Matches: 28, Goals: 8, Assists: 9},
		{Team: "Manchester United", Name: "Lisandro Martinez", Position: "Defender", Status: roster.StatusInjured, Matches: 11},
		{Team: "Manchester United", Name: "Casemiro", Position: "Midfielder", Status: roster.StatusSuspended, Matches: 22, Goals: 1, Assists: 2},
		{Team: "Liverpool", Name: "Mohamed Salah", Position: "Forward", Status: roster.StatusAvailable, Matches: 30, Goals: 21, Assists: 12},
		{Team: "Liverpool", Name: "Alisson Becker", Position: "Goalkeeper", Status: roster.StatusInjured, Matches: 19},
		{Team: "Arsenal", Name: "Bukayo Saka", Position: "Forward", Status: roster.StatusAvailable, Matches: 27, Goals: 11, Assists: 10},
		{Team: "Chelsea", Name: "Cole Palmer", Position: "Midfielder", Status: roster.StatusAvailable, Matches: 29, Goals: 15, Assists: 8},
	}
}
