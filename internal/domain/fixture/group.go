package fixture

import "sort"

// SortByStatus orders matches by status priority in place, keeping the
// relative order of matches with equal status.
func SortByStatus(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Status.Priority() < matches[j].Status.Priority()
	})
}

// GroupByLeague buckets matches by league name in first-seen order. Group
// metadata comes from the first match of each league.
func GroupByLeague(matches []Match) []LeagueGroup {
	groups := make([]LeagueGroup, 0)
	index := make(map[string]int)

	for _, match := range matches {
		name := match.League.Name
		pos, ok := index[name]
		if !ok {
			pos = len(groups)
			index[name] = pos
			groups = append(groups, LeagueGroup{
				LeagueName: name,
				LeagueLogo: match.League.Logo,
				Country:    match.League.Country,
				Flag:       match.League.Flag,
			})
		}
		groups[pos].Matches = append(groups[pos].Matches, match)
	}

	return groups
}
