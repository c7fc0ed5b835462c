package calendar

import (
	"fmt"
	"time"
)

// DayKey identifies one calendar day in YYYY-MM-DD form. Keys are built
// from the date's own calendar components, never by converting through
// UTC, so a check-in at 00:30 in Jakarta stays on the Jakarta day.
type DayKey string

// KeyOf returns the DayKey for t in t's own location.
func KeyOf(t time.Time) DayKey {
	year, month, day := t.Date()
	return DayKey(fmt.Sprintf("%04d-%02d-%02d", year, int(month), day))
}

// ParseKey parses a YYYY-MM-DD string into a DayKey.
func ParseKey(s string) (DayKey, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", s, err)
	}
	return KeyOf(t), nil
}

// Time returns the key's midnight in the given location.
func (k DayKey) Time(loc *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02", string(k), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// eachDay calls fn for every calendar day from start to end inclusive.
// Days are stepped with AddDate so DST transitions cannot skip or repeat
// a day.
func eachDay(start, end time.Time, fn func(day time.Time)) {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endKey := KeyOf(end)
	if startDay.After(end) && KeyOf(startDay) != endKey {
		// end precedes start; nothing to visit
		return
	}
	for day := startDay; ; day = day.AddDate(0, 0, 1) {
		fn(day)
		if KeyOf(day) == endKey {
			return
		}
	}
}
