package apifootball

import "encoding/json"

// envelope is the common API-Football v3 response wrapper. errors is an
// empty array on success and an object keyed by field on failure.
type envelope[T any] struct {
	Get      string `json:"get"`
	Errors   any    `json:"errors"`
	Results  int    `json:"results"`
	Response []T    `json:"response"`
}

type fixtureItem struct {
	Fixture *fixtureInfo `json:"fixture"`
	League  *leagueInfo  `json:"league"`
	Teams   *teamsInfo   `json:"teams"`
	Goals   *goalsInfo   `json:"goals"`
}

type fixtureInfo struct {
	ID        int64         `json:"id"`
	Referee   *string       `json:"referee"`
	Timezone  string        `json:"timezone"`
	Date      string        `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Status    fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Flag    string `json:"flag"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type teamsInfo struct {
	Home *teamInfo `json:"home"`
	Away *teamInfo `json:"away"`
}

type teamInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

type goalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type oddsItem struct {
	Fixture struct {
		ID int64 `json:"id"`
	} `json:"fixture"`
	Update     string          `json:"update"`
	Bookmakers json.RawMessage `json:"bookmakers"`
}
