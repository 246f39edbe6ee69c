package usecase

import (
	"strconv"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/fixture"
)

const kickoffLayout = "15:04"

// ExternalFixture is a provider fixture record. Sub-objects are pointers
// because the provider may omit any of them.
type ExternalFixture struct {
	Fixture *ExternalFixtureInfo
	League  *ExternalLeague
	Teams   *ExternalTeams
	Goals   *ExternalGoals
}

type ExternalFixtureInfo struct {
	ID     int64
	Date   string
	Status ExternalFixtureStatus
}

type ExternalFixtureStatus struct {
	Short   string
	Elapsed *int
}

type ExternalLeague struct {
	ID      int64
	Name    string
	Logo    string
	Country string
	Flag    string
}

type ExternalTeams struct {
	Home ExternalTeam
	Away ExternalTeam
}

type ExternalTeam struct {
	Name string
	Logo string
}

type ExternalGoals struct {
	Home *int
	Away *int
}

// ExternalOdds carries the bookmaker payload of one fixture untouched.
type ExternalOdds struct {
	FixtureID int64
	Payload   []byte
}

// AggregateFixtures merges the live and today lists, drops duplicates and
// unusable records, attaches odds, sorts by status and groups by league.
// Empty input yields an empty, non-nil slice.
func AggregateFixtures(live, today []ExternalFixture, oddsByFixtureID map[int64]ExternalOdds, loc *time.Location) []fixture.LeagueGroup {
	if loc == nil {
		loc = time.UTC
	}

	merged := dedupeFixtures(live, today)
	matches := make([]fixture.Match, 0, len(merged))
	for _, item := range merged {
		match, ok := mapFixture(item, loc)
		if !ok {
			continue
		}
		if odds, exists := oddsByFixtureID[match.ID]; exists {
			match.Odds = &fixture.OddsData{FixtureID: odds.FixtureID, Payload: odds.Payload}
		}
		matches = append(matches, match)
	}

	fixture.SortByStatus(matches)
	return fixture.GroupByLeague(matches)
}

// dedupeFixtures keeps one record per fixture id: the last one seen, placed
// at the position where the id first appeared. Records without an id pass
// through so mapping can drop them.
func dedupeFixtures(lists ...[]ExternalFixture) []ExternalFixture {
	total := 0
	for _, list := range lists {
		total += len(list)
	}

	out := make([]ExternalFixture, 0, total)
	positions := make(map[int64]int, total)
	for _, list := range lists {
		for _, item := range list {
			if item.Fixture == nil {
				continue
			}
			id := item.Fixture.ID
			if pos, exists := positions[id]; exists {
				out[pos] = item
				continue
			}
			positions[id] = len(out)
			out = append(out, item)
		}
	}

	return out
}

// FixtureIDs returns the distinct usable fixture ids of the merged lists in
// first-seen order.
func FixtureIDs(lists ...[]ExternalFixture) []int64 {
	merged := dedupeFixtures(lists...)
	ids := make([]int64, 0, len(merged))
	for _, item := range merged {
		if item.Fixture.ID > 0 {
			ids = append(ids, item.Fixture.ID)
		}
	}
	return ids
}

func mapFixture(item ExternalFixture, loc *time.Location) (fixture.Match, bool) {
	if item.Fixture == nil || item.League == nil || item.Teams == nil || item.Fixture.ID <= 0 {
		return fixture.Match{}, false
	}

	status, label := fixture.MapStatus(item.Fixture.Status.Short, item.Fixture.Status.Elapsed)
	if fixture.IsUpcomingKickoff(item.Fixture.Status.Short) {
		if kickoff, ok := parseKickoff(item.Fixture.Date); ok {
			label = kickoff.In(loc).Format(kickoffLayout)
		}
	}

	var homeGoals, awayGoals *int
	if item.Goals != nil {
		homeGoals, awayGoals = item.Goals.Home, item.Goals.Away
	}

	return fixture.Match{
		ID:     item.Fixture.ID,
		Time:   label,
		Status: status,
		Home:   fixture.Team{Name: item.Teams.Home.Name, Logo: item.Teams.Home.Logo},
		Away:   fixture.Team{Name: item.Teams.Away.Name, Logo: item.Teams.Away.Logo},
		Score:  formatGoals(homeGoals) + " - " + formatGoals(awayGoals),
		League: fixture.League{
			ID:      item.League.ID,
			Name:    item.League.Name,
			Logo:    item.League.Logo,
			Country: item.League.Country,
			Flag:    item.League.Flag,
		},
	}, true
}

func parseKickoff(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func formatGoals(goals *int) string {
	if goals == nil {
		return "-"
	}
	return strconv.Itoa(*goals)
}
