package postgres

import (
	"time"

	"github.com/riskibarqy/matchday/internal/domain/prediction"
)

type predictionTableModel struct {
	MatchID          int64     `db:"match_id"`
	HomeTeam         string    `db:"home_team"`
	AwayTeam         string    `db:"away_team"`
	OddsHome         float64   `db:"odds_home"`
	OddsDraw         float64   `db:"odds_draw"`
	OddsAway         float64   `db:"odds_away"`
	PercentHome      int       `db:"percent_home"`
	PercentDraw      int       `db:"percent_draw"`
	PercentAway      int       `db:"percent_away"`
	PredictedOutcome string    `db:"predicted_outcome"`
	Confidence       int       `db:"confidence"`
	CreatedAt        time.Time `db:"created_at"`
}

var predictionColumns = []string{
	"match_id",
	"home_team",
	"away_team",
	"odds_home",
	"odds_draw",
	"odds_away",
	"percent_home",
	"percent_draw",
	"percent_away",
	"predicted_outcome",
	"confidence",
	"created_at",
}

func predictionToRow(item prediction.Prediction) predictionTableModel {
	return predictionTableModel{
		MatchID:          item.MatchID,
		HomeTeam:         item.HomeTeam,
		AwayTeam:         item.AwayTeam,
		OddsHome:         item.Odds.Home,
		OddsDraw:         item.Odds.Draw,
		OddsAway:         item.Odds.Away,
		PercentHome:      item.Percentages.Home,
		PercentDraw:      item.Percentages.Draw,
		PercentAway:      item.Percentages.Away,
		PredictedOutcome: string(item.PredictedOutcome),
		Confidence:       item.Confidence,
		CreatedAt:        item.CreatedAt,
	}
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		MatchID:          row.MatchID,
		HomeTeam:         row.HomeTeam,
		AwayTeam:         row.AwayTeam,
		Odds:             prediction.Odds{Home: row.OddsHome, Draw: row.OddsDraw, Away: row.OddsAway},
		Percentages:      prediction.Percentages{Home: row.PercentHome, Draw: row.PercentDraw, Away: row.PercentAway},
		PredictedOutcome: prediction.Outcome(row.PredictedOutcome),
		Confidence:       row.Confidence,
		CreatedAt:        row.CreatedAt.UTC(),
	}
}
