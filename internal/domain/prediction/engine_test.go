package prediction

import (
	"errors"
	"fmt"
	"testing"
)

func TestTeamStrength(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{name: "", want: 70},
		{name: "a", want: 74},
		{name: "Arsenal", want: 91},
		{name: "Chelsea", want: 95},
		{name: "Liverpool", want: 99},
		{name: "Manchester United", want: 78},
		{name: "Bayern München", want: 87},
	}

	for _, tc := range tests {
		if got := TeamStrength(tc.name); got != tc.want {
			t.Fatalf("TeamStrength(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestGenerate_KnownFixtures(t *testing.T) {
	tests := []struct {
		home, away  string
		odds        Odds
		percentages Percentages
		outcome     Outcome
	}{
		{"Arsenal", "Chelsea", Odds{2.71, 3.57, 2.85}, Percentages{37, 28, 35}, OutcomeHome},
		{"Chelsea", "Arsenal", Odds{2.60, 3.57, 2.98}, Percentages{38, 28, 34}, OutcomeHome},
		{"Liverpool", "Manchester United", Odds{2.38, 3.57, 3.33}, Percentages{42, 28, 30}, OutcomeHome},
		{"Persija Jakarta", "Persib Bandung", Odds{2.42, 3.57, 3.26}, Percentages{41, 28, 31}, OutcomeHome},
		{"Real Madrid", "Barcelona", Odds{2.51, 3.57, 3.11}, Percentages{40, 28, 32}, OutcomeHome},
	}

	for _, tc := range tests {
		got, err := Generate(tc.home, tc.away)
		if err != nil {
			t.Fatalf("Generate(%q, %q) error: %v", tc.home, tc.away, err)
		}
		if got.Odds != tc.odds {
			t.Fatalf("%s vs %s: odds = %+v, want %+v", tc.home, tc.away, got.Odds, tc.odds)
		}
		if got.Percentages != tc.percentages {
			t.Fatalf("%s vs %s: percentages = %+v, want %+v", tc.home, tc.away, got.Percentages, tc.percentages)
		}
		if got.PredictedOutcome != tc.outcome {
			t.Fatalf("%s vs %s: outcome = %s, want %s", tc.home, tc.away, got.PredictedOutcome, tc.outcome)
		}
		if got.Confidence != tc.percentages.Home {
			t.Fatalf("%s vs %s: confidence = %d, want %d", tc.home, tc.away, got.Confidence, tc.percentages.Home)
		}
	}
}

func TestGenerate_IsDeterministic(t *testing.T) {
	first, err := Generate("Arsenal", "Chelsea")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Generate("Arsenal", "Chelsea")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if again != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestGenerate_Bounds(t *testing.T) {
	for i := 0; i < 40; i++ {
		for j := 0; j < 40; j++ {
			home := fmt.Sprintf("Home FC %d", i)
			away := fmt.Sprintf("Away United %d", j)

			got, err := Generate(home, away)
			if err != nil {
				t.Fatalf("generate %s vs %s: %v", home, away, err)
			}
			if got.Percentages.Sum() != 100 {
				t.Fatalf("%s vs %s: percentages sum to %d", home, away, got.Percentages.Sum())
			}
			if got.Odds.Home < 1.10 || got.Odds.Home > 9.00 || got.Odds.Away < 1.10 || got.Odds.Away > 9.00 {
				t.Fatalf("%s vs %s: team odds out of range %+v", home, away, got.Odds)
			}
			if got.Odds.Draw < 3.00 || got.Odds.Draw > 5.50 {
				t.Fatalf("%s vs %s: draw odds out of range %+v", home, away, got.Odds)
			}
			if !got.PredictedOutcome.Valid() {
				t.Fatalf("%s vs %s: invalid outcome %q", home, away, got.PredictedOutcome)
			}
			if got.Confidence != max(got.Percentages.Home, got.Percentages.Draw, got.Percentages.Away) {
				t.Fatalf("%s vs %s: confidence %d is not the max of %+v", home, away, got.Confidence, got.Percentages)
			}
		}
	}
}

func TestGenerate_MissingTeam(t *testing.T) {
	for _, pair := range [][2]string{{"", "Chelsea"}, {"Arsenal", "  "}, {"", ""}} {
		_, err := Generate(pair[0], pair[1])
		if !errors.Is(err, ErrMissingMatchData) {
			t.Fatalf("Generate(%q, %q) err = %v, want ErrMissingMatchData", pair[0], pair[1], err)
		}
	}
}

func TestGenerate_HashesNamesAsGiven(t *testing.T) {
	if got, want := TeamStrength("Arsenal "), 97; got != want {
		t.Fatalf("TeamStrength(%q) = %d, want %d", "Arsenal ", got, want)
	}

	got, err := Generate("Arsenal ", "Chelsea")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	plain, err := Generate("Arsenal", "Chelsea")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.Odds == plain.Odds {
		t.Fatalf("expected trailing space to change the odds, both were %+v", got.Odds)
	}
}

func TestPickOutcome_TieOrder(t *testing.T) {
	tests := []struct {
		in         Percentages
		want       Outcome
		confidence int
	}{
		{Percentages{40, 20, 40}, OutcomeHome, 40},
		{Percentages{30, 35, 35}, OutcomeAway, 35},
		{Percentages{30, 40, 30}, OutcomeDraw, 40},
		{Percentages{34, 34, 32}, OutcomeHome, 34},
	}

	for _, tc := range tests {
		got, confidence := pickOutcome(tc.in)
		if got != tc.want || confidence != tc.confidence {
			t.Fatalf("pickOutcome(%+v) = (%s, %d), want (%s, %d)", tc.in, got, confidence, tc.want, tc.confidence)
		}
	}
}

func TestImpliedPercentages_ResidualGoesToFirstLargest(t *testing.T) {
	// 1/3 each rounds to 33+33+33, the missing point lands on home.
	got := impliedPercentages(Odds{Home: 3, Draw: 3, Away: 3})
	want := Percentages{Home: 34, Draw: 33, Away: 33}
	if got != want {
		t.Fatalf("impliedPercentages = %+v, want %+v", got, want)
	}
}
