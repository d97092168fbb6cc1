package domain

import (
	"fmt"
	"strings"
	"time"
)

// PeriodType identifies the granularity of a calendar view.
type PeriodType string

// Period types.
const (
	PeriodWeek    PeriodType = "week"
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
)

// AllPeriodTypes returns all period types in ascending span order.
func AllPeriodTypes() []PeriodType {
	return []PeriodType{PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear}
}

// IsValid reports whether p is a known period type.
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// ParsePeriodType parses a period name case-insensitively.
func ParsePeriodType(s string) (PeriodType, error) {
	p := PeriodType(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

// DayKeyLayout is the time layout of day period keys.
const DayKeyLayout = "2006-01-02"

// DateOf returns the calendar date of t as midnight UTC.
// The date components are taken in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey returns the "YYYY-MM-DD" key of t's calendar date.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// WeekKey returns the ISO week key "YYYY-WW" of t's calendar date.
// The year is the ISO week-year, which differs from the calendar year
// around January 1.
func WeekKey(t time.Time) string {
	year, week := DateOf(t).ISOWeek()
	return fmt.Sprintf("%04d-%02d", year, week)
}

// ParseDayKey parses a "YYYY-MM-DD" key into a calendar date.
func ParseDayKey(key string) (time.Time, error) {
	d, err := time.Parse(DayKeyLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return d, nil
}

// WeekStart returns the Sunday on or before the calendar date of t.
// Grid layout always starts weeks on Sunday; ISO weeks are only used for keys.
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekEnd returns the Saturday on or after the calendar date of t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// Quarter returns the 1-based quarter of t.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// QuarterStart returns the first day of t's quarter.
func QuarterStart(t time.Time) time.Time {
	month := time.Month((Quarter(t)-1)*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}

// QuarterEnd returns the last day of t's quarter.
func QuarterEnd(t time.Time) time.Time {
	return QuarterStart(t).AddDate(0, 3, -1)
}

// YearStart returns January 1 of t's year.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// YearEnd returns December 31 of t's year.
func YearEnd(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// Years a stored instant may fall in. Documents encode times as RFC 3339,
// which has four-digit years.
const (
	MinStoredYear = 0
	MaxStoredYear = 9999
)

// IsStorable reports whether t can be written to a document.
func IsStorable(t time.Time) bool {
	y := t.Year()
	return y >= MinStoredYear && y <= MaxStoredYear
}
