package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first day of t's month at 00:00, in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// WeekWindows returns [this Monday, next Monday) and the week before it.
func WeekWindows(now time.Time) (current, previous [2]time.Time) {
	start := StartOfWeek(now)
	current = [2]time.Time{start, start.AddDate(0, 0, 7)}
	previous = [2]time.Time{start.AddDate(0, 0, -7), start}
	return current, previous
}

// MonthWindows returns the calendar month containing now and the month before it.
func MonthWindows(now time.Time) (current, previous [2]time.Time) {
	start := StartOfMonth(now)
	current = [2]time.Time{start, start.AddDate(0, 1, 0)}
	previous = [2]time.Time{start.AddDate(0, -1, 0), start}
	return current, previous
}
