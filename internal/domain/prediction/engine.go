package prediction

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf16"
)

const (
	minStrength        = 70
	strengthSpread     = 31
	homeAdvantage      = 1.10
	drawProbability    = 0.28
	minTeamOdds        = 1.10
	maxTeamOdds        = 9.00
	minDrawOdds        = 3.00
	maxDrawOdds        = 5.50
	percentageTotal    = 100
	oddsRoundingFactor = 100
)

// Computed is the output of Generate before it is bound to a match.
type Computed struct {
	Odds             Odds
	Percentages      Percentages
	PredictedOutcome Outcome
	Confidence       int
}

// TeamStrength maps a team name to a rating in [70, 100]. It folds the
// UTF-16 code units of name into a signed 32-bit rolling hash (h*31 + c), so
// the same name yields the same rating everywhere.
func TeamStrength(name string) int {
	var h int32
	for _, unit := range utf16.Encode([]rune(name)) {
		h = h*31 + int32(unit)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return int(abs%strengthSpread) + minStrength
}

// Generate derives odds, implied percentages and the favoured outcome for a
// fixture from the two team names alone.
func Generate(homeTeam, awayTeam string) (Computed, error) {
	// Names are hashed exactly as given; blank ones carry no match data.
	if strings.TrimSpace(homeTeam) == "" || strings.TrimSpace(awayTeam) == "" {
		return Computed{}, fmt.Errorf("%w: home=%q away=%q", ErrMissingMatchData, homeTeam, awayTeam)
	}

	homeStrength := float64(TeamStrength(homeTeam)) * homeAdvantage
	awayStrength := float64(TeamStrength(awayTeam))
	teamShare := 1 - drawProbability
	total := homeStrength + awayStrength

	homeProb := teamShare * homeStrength / total
	awayProb := teamShare * awayStrength / total

	odds := Odds{
		Home: roundOdds(clamp(1/homeProb, minTeamOdds, maxTeamOdds)),
		Draw: roundOdds(clamp(1/drawProbability, minDrawOdds, maxDrawOdds)),
		Away: roundOdds(clamp(1/awayProb, minTeamOdds, maxTeamOdds)),
	}

	percentages := impliedPercentages(odds)
	outcome, confidence := pickOutcome(percentages)

	return Computed{
		Odds:             odds,
		Percentages:      percentages,
		PredictedOutcome: outcome,
		Confidence:       confidence,
	}, nil
}

// impliedPercentages works from the rounded, clamped prices, not from the
// raw probabilities.
func impliedPercentages(odds Odds) Percentages {
	invHome := 1 / odds.Home
	invDraw := 1 / odds.Draw
	invAway := 1 / odds.Away
	sum := invHome + invDraw + invAway

	values := [3]int{
		int(math.Round(percentageTotal * invHome / sum)),
		int(math.Round(percentageTotal * invDraw / sum)),
		int(math.Round(percentageTotal * invAway / sum)),
	}

	residual := percentageTotal - (values[0] + values[1] + values[2])
	if residual != 0 {
		largest := 0
		for i := 1; i < len(values); i++ {
			if values[i] > values[largest] {
				largest = i
			}
		}
		values[largest] += residual
	}

	return Percentages{Home: values[0], Draw: values[1], Away: values[2]}
}

// pickOutcome checks home, then away; draw only wins when neither side
// holds the maximum.
func pickOutcome(p Percentages) (Outcome, int) {
	top := max(p.Home, p.Draw, p.Away)
	switch {
	case p.Home == top:
		return OutcomeHome, top
	case p.Away == top:
		return OutcomeAway, top
	default:
		return OutcomeDraw, top
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func roundOdds(v float64) float64 {
	return math.Round(v*oddsRoundingFactor) / oddsRoundingFactor
}
