package types

import (
	"fmt"
	"time"
)

// WeekInterval is a Monday 00:00:00 UTC through Sunday 23:59:59 UTC span,
// expressed as unix timestamps. Derived, never stored.
type WeekInterval struct {
	Start int64 `json:"startTimestamp"`
	End   int64 `json:"endTimestamp"`
}

// CurrentWeek returns the interval of the week containing now.
func CurrentWeek(now time.Time) WeekInterval {
	now = now.UTC()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // time.Sunday is 0, we count from Monday
	}
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(weekday - 1))
	sunday := monday.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	return WeekInterval{Start: monday.Unix(), End: sunday.Unix()}
}

// Formatted renders the interval as e.g. "10 June 2024 - 16 June 2024 (UTC)".
func (w WeekInterval) Formatted() string {
	start := time.Unix(w.Start, 0).UTC()
	end := time.Unix(w.End, 0).UTC()
	return fmt.Sprintf("%d %s %d - %d %s %d (UTC)",
		start.Day(), start.Month(), start.Year(),
		end.Day(), end.Month(), end.Year())
}
