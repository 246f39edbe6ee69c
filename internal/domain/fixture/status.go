package fixture

import (
	"strconv"
	"strings"
)

type Status string

const (
	StatusLive     Status = "LIVE"
	StatusHalfTime Status = "HT"
	StatusFinished Status = "FT"
	StatusUpcoming Status = "UPCOMING"
)

const upcomingLabel = "Upcoming"

// Priority orders statuses for display: live first, finished last.
func (s Status) Priority() int {
	switch s {
	case StatusLive:
		return 1
	case StatusHalfTime:
		return 2
	case StatusUpcoming:
		return 3
	case StatusFinished:
		return 4
	default:
		return 3
	}
}

// MapStatus translates a provider short status code into the display status
// and its label. Unknown codes without elapsed minutes fall back to
// UPCOMING labelled with the raw code.
func MapStatus(short string, elapsed *int) (Status, string) {
	switch strings.TrimSpace(short) {
	case "FT", "AET", "PEN":
		return StatusFinished, string(StatusFinished)
	case "HT":
		return StatusHalfTime, string(StatusHalfTime)
	case "NS":
		return StatusUpcoming, upcomingLabel
	}

	if elapsed != nil {
		return StatusLive, strconv.Itoa(*elapsed) + "'"
	}
	return StatusUpcoming, short
}

// IsUpcomingKickoff reports whether the label should be replaced with the
// formatted kickoff time.
func IsUpcomingKickoff(short string) bool {
	return strings.TrimSpace(short) == "NS"
}
