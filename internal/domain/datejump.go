package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Year bounds accepted by a bare "YYYY" jump.
const (
	MinJumpYear = 1900
	MaxJumpYear = 2100
)

// ParseJumpDate resolves a navigation input relative to the focused date.
//
// Accepted forms:
//
//	today        the date of now
//	YYYY         same month and day in another year (day clamped to month length)
//	MM/DD/YYYY   an explicit date
//	YYYY-MM-DD   an explicit date
//	DD           a day of the focused month (must exist in that month)
func ParseJumpDate(input string, focused, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if s == "today" {
		return DateOf(now), nil
	}

	if d, err := time.Parse(DayKeyLayout, s); err == nil {
		return d, nil
	}
	if d, err := time.Parse("1/2/2006", s); err == nil {
		return d, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}
	focused = DateOf(focused)

	switch {
	case len(s) == 4 && n >= MinJumpYear && n <= MaxJumpYear:
		day := min(focused.Day(), DaysIn(n, focused.Month()))
		return time.Date(n, focused.Month(), day, 0, 0, 0, 0, time.UTC), nil
	case n >= 1 && n <= DaysIn(focused.Year(), focused.Month()):
		return time.Date(focused.Year(), focused.Month(), n, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
}
