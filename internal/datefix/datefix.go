// Package datefix repairs the heterogeneous date/time strings found in
// wardriving capture exports into canonical instants. Parsing is a pure
// function over a fixed, ordered list of layout templates; a string that
// matches no template and fails the epoch heuristic is reported as
// irreparable rather than guessed at.
package datefix

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrIrreparable is returned when no template or heuristic can make sense
// of the input. Callers count these failures; they are never fatal.
var ErrIrreparable = errors.New("datefix: irreparable date")

// DefaultLayouts is the template priority order. The first match wins, so
// ambiguous values (e.g. 02/03/2024) resolve deterministically: the
// day-first reading is preferred over month-first.
var DefaultLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006/01/02 15:04:05",
	"02-01-2006 15:04:05",
	"02.01.2006 15:04:05",
	"01-02-06",
}

// Parsed years outside this window are treated as template misfires
// (e.g. a two-digit year swallowed by a four-digit layout) and the
// remaining templates are still tried.
const (
	minPlausibleYear = 1990
	maxPlausibleYear = 2100
)

// Epoch heuristic bounds: digit-only strings must decode to an instant in
// 2000-2099 to be accepted as Unix seconds.
var (
	epochMin = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	epochMax = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
)

// Repair converts a raw date/time string into a canonical instant using
// the default template order.
func Repair(raw string) (time.Time, error) {
	return RepairWith(raw, DefaultLayouts)
}

// RepairWith is Repair with an explicit template priority list, supplied
// by the configuration surface when the capture uses a known exotic format.
func RepairWith(raw string, layouts []string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrIrreparable
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < minPlausibleYear || t.Year() >= maxPlausibleYear {
			continue
		}
		return t, nil
	}

	if t, ok := repairEpoch(s); ok {
		return t, nil
	}

	return time.Time{}, ErrIrreparable
}

// repairEpoch accepts digit-only strings that decode to a plausible
// Unix-seconds instant.
func repairEpoch(s string) (time.Time, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return time.Time{}, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if n < epochMin || n >= epochMax {
		return time.Time{}, false
	}
	return time.Unix(n, 0).UTC(), true
}
