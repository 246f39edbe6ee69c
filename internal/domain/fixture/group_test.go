package fixture

import "testing"

func match(id int64, status Status, league string) Match {
	return Match{ID: id, Status: status, League: League{Name: league, Logo: league + ".png"}}
}

func TestSortByStatus_IsStable(t *testing.T) {
	matches := []Match{
		match(1, StatusFinished, "A"),
		match(2, StatusUpcoming, "A"),
		match(3, StatusLive, "B"),
		match(4, StatusFinished, "B"),
		match(5, StatusHalfTime, "A"),
		match(6, StatusUpcoming, "B"),
		match(7, StatusLive, "A"),
	}

	SortByStatus(matches)

	want := []int64{3, 7, 5, 2, 6, 1, 4}
	for i, id := range want {
		if matches[i].ID != id {
			t.Fatalf("position %d: got id %d, want %d", i, matches[i].ID, id)
		}
	}
}

func TestGroupByLeague(t *testing.T) {
	matches := []Match{
		match(1, StatusLive, "Premier League"),
		match(2, StatusLive, "Liga 1"),
		match(3, StatusUpcoming, "Premier League"),
		match(4, StatusUpcoming, "premier league"),
	}
	matches[2].League.Logo = "other.png"

	groups := GroupByLeague(matches)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].LeagueName != "Premier League" || groups[1].LeagueName != "Liga 1" || groups[2].LeagueName != "premier league" {
		t.Fatalf("unexpected group order: %q %q %q", groups[0].LeagueName, groups[1].LeagueName, groups[2].LeagueName)
	}
	if groups[0].LeagueLogo != "Premier League.png" {
		t.Fatalf("expected logo from first match, got %q", groups[0].LeagueLogo)
	}
	if len(groups[0].Matches) != 2 || groups[0].Matches[0].ID != 1 || groups[0].Matches[1].ID != 3 {
		t.Fatalf("unexpected matches in first group: %+v", groups[0].Matches)
	}

	seen := map[int64]int{}
	for _, group := range groups {
		for _, m := range group.Matches {
			if m.League.Name != group.LeagueName {
				t.Fatalf("match %d in group %q has league %q", m.ID, group.LeagueName, m.League.Name)
			}
			seen[m.ID]++
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("match %d appears %d times", id, n)
		}
	}
}

func TestGroupByLeague_EmptyInput(t *testing.T) {
	groups := GroupByLeague(nil)
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", groups)
	}
}
