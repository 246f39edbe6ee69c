package httpapi

import (
	"encoding/json"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
)

type createPredictionRequest struct {
	MatchID  int64  `json:"matchId" validate:"required,gt=0"`
	HomeTeam string `json:"homeTeam" validate:"max=200"`
	AwayTeam string `json:"awayTeam" validate:"max=200"`
}

type leagueGroupDTO struct {
	LeagueName string     `json:"leagueName"`
	LeagueLogo string     `json:"leagueLogo"`
	Country    string     `json:"country"`
	Flag       string     `json:"flag"`
	Matches    []matchDTO `json:"matches"`
}

type matchDTO struct {
	ID         int64           `json:"id"`
	Time       string          `json:"time"`
	Status     string          `json:"status"`
	Home       teamDTO         `json:"home"`
	Away       teamDTO         `json:"away"`
	Score      string          `json:"score"`
	League     leagueDTO       `json:"league"`
	OddsData   json.RawMessage `json:"oddsData,omitempty"`
	Prediction *predictionDTO  `json:"prediction"`
}

type teamDTO struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type leagueDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Country string `json:"country"`
	Flag    string `json:"flag"`
}

type predictionDTO struct {
	MatchID          int64          `json:"matchId"`
	HomeTeam         string         `json:"homeTeam"`
	AwayTeam         string         `json:"awayTeam"`
	Odds             oddsDTO        `json:"odds"`
	Percentages      percentagesDTO `json:"percentages"`
	PredictedOutcome string         `json:"predictedOutcome"`
	Confidence       int            `json:"confidence"`
	CreatedAt        string         `json:"createdAt"`
}

type oddsDTO struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

type percentagesDTO struct {
	Home int `json:"home"`
	Draw int `json:"draw"`
	Away int `json:"away"`
}

func leagueGroupsToDTO(groups []fixture.LeagueGroup) []leagueGroupDTO {
	out := make([]leagueGroupDTO, 0, len(groups))
	for _, group := range groups {
		matches := make([]matchDTO, 0, len(group.Matches))
		for _, m := range group.Matches {
			matches = append(matches, matchToDTO(m))
		}
		out = append(out, leagueGroupDTO{
			LeagueName: group.LeagueName,
			LeagueLogo: group.LeagueLogo,
			Country:    group.Country,
			Flag:       group.Flag,
			Matches:    matches,
		})
	}
	return out
}

func matchToDTO(m fixture.Match) matchDTO {
	out := matchDTO{
		ID:     m.ID,
		Time:   m.Time,
		Status: string(m.Status),
		Home:   teamDTO{Name: m.Home.Name, Logo: m.Home.Logo},
		Away:   teamDTO{Name: m.Away.Name, Logo: m.Away.Logo},
		Score:  m.Score,
		League: leagueDTO{
			ID:      m.League.ID,
			Name:    m.League.Name,
			Logo:    m.League.Logo,
			Country: m.League.Country,
			Flag:    m.League.Flag,
		},
	}
	if m.Odds != nil && sonic.Valid(m.Odds.Payload) {
		out.OddsData = json.RawMessage(m.Odds.Payload)
	}
	if m.Prediction != nil {
		dto := predictionToDTO(*m.Prediction)
		out.Prediction = &dto
	}
	return out
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		MatchID:          p.MatchID,
		HomeTeam:         p.HomeTeam,
		AwayTeam:         p.AwayTeam,
		Odds:             oddsDTO{Home: p.Odds.Home, Draw: p.Odds.Draw, Away: p.Odds.Away},
		Percentages:      percentagesDTO{Home: p.Percentages.Home, Draw: p.Percentages.Draw, Away: p.Percentages.Away},
		PredictedOutcome: string(p.PredictedOutcome),
		Confidence:       p.Confidence,
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
