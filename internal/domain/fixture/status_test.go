package fixture

import "testing"

func TestMapStatus(t *testing.T) {
	minute := func(v int) *int { return &v }

	tests := []struct {
		short   string
		elapsed *int
		status  Status
		label   string
	}{
		{short: "FT", status: StatusFinished, label: "FT"},
		{short: "AET", elapsed: minute(120), status: StatusFinished, label: "FT"},
		{short: "PEN", status: StatusFinished, label: "FT"},
		{short: "HT", elapsed: minute(45), status: StatusHalfTime, label: "HT"},
		{short: "NS", status: StatusUpcoming, label: "Upcoming"},
		{short: "1H", elapsed: minute(23), status: StatusLive, label: "23'"},
		{short: "2H", elapsed: minute(0), status: StatusLive, label: "0'"},
		{short: "PST", status: StatusUpcoming, label: "PST"},
		{short: "", status: StatusUpcoming, label: ""},
	}

	for _, tc := range tests {
		status, label := MapStatus(tc.short, tc.elapsed)
		if status != tc.status || label != tc.label {
			t.Fatalf("MapStatus(%q) = (%s, %q), want (%s, %q)", tc.short, status, label, tc.status, tc.label)
		}
	}
}

func TestStatusPriority(t *testing.T) {
	ordered := []Status{StatusLive, StatusHalfTime, StatusUpcoming, StatusFinished}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Priority() >= ordered[i].Priority() {
			t.Fatalf("expected %s before %s", ordered[i-1], ordered[i])
		}
	}
}
