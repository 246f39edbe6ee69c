package prediction

import (
	"errors"
	"time"
)

// ErrMissingMatchData is returned when a team name is absent; callers show
// "prediction unavailable" instead of failing the page.
var ErrMissingMatchData = errors.New("missing match data")

type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return true
	default:
		return false
	}
}

// Odds are decimal prices.
type Odds struct {
	Home float64
	Draw float64
	Away float64
}

// Percentages are implied win/draw/loss chances that always sum to 100.
type Percentages struct {
	Home int
	Draw int
	Away int
}

func (p Percentages) Sum() int {
	return p.Home + p.Draw + p.Away
}

// Prediction is stored once per match and never rewritten.
type Prediction struct {
	MatchID          int64
	HomeTeam         string
	AwayTeam         string
	Odds             Odds
	Percentages      Percentages
	PredictedOutcome Outcome
	Confidence       int
	CreatedAt        time.Time
}
