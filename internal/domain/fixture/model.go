package fixture

import "github.com/riskibarqy/matchday/internal/domain/prediction"

// Team is one side of a match as shown on the scoreboard.
type Team struct {
	Name string
	Logo string
}

type League struct {
	ID      int64
	Name    string
	Logo    string
	Country string
	Flag    string
}

// OddsData is the bookmaker payload for one fixture, passed through as-is.
type OddsData struct {
	FixtureID int64
	Payload   []byte
}

// Match is a provider fixture normalised for display.
type Match struct {
	ID         int64
	Time       string
	Status     Status
	Home       Team
	Away       Team
	Score      string
	League     League
	Odds       *OddsData
	Prediction *prediction.Prediction
}

// LeagueGroup buckets matches sharing the exact same league name.
type LeagueGroup struct {
	LeagueName string
	LeagueLogo string
	Country    string
	Flag       string
	Matches    []Match
}
