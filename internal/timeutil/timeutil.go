// Package timeutil converts between wall-clock time-of-day and the
// monotonic "minutes since day-0 midnight" coordinate the engine's frontier
// runs on, and computes the next feasible boarding minute for a leg.
//
// Times are never stored as time.Time inside the search frontier: an
// absolute minute is a plain int counted from day-0 midnight, so comparing
// or subtracting two of them never requires a time zone or calendar.
package timeutil

import "fmt"

// MinutesPerDay is the number of minutes in a wall-clock day.
const MinutesPerDay = 1440

// ParseTimeOfDay parses an "HH:MM" string into minutes-of-day in [0, 1440).
func ParseTimeOfDay(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("timeutil: invalid time-of-day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("timeutil: time-of-day %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatTimeOfDay renders minutes-since-midnight (mod 1440) as "HH:MM".
func FormatTimeOfDay(minute int) string {
	tod := MinuteOfDay(minute)
	return fmt.Sprintf("%02d:%02d", tod/60, tod%60)
}

// MinuteOfDay reduces an absolute minute to its time-of-day component,
// handling negative inputs the same as positive ones.
func MinuteOfDay(absoluteMinute int) int {
	m := absoluteMinute % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

// Day returns the zero-based day index containing the given absolute minute.
func Day(absoluteMinute int) int {
	d := absoluteMinute / MinutesPerDay
	if absoluteMinute%MinutesPerDay < 0 {
		d--
	}
	return d
}

// NextBoarding computes the earliest absolute minute at or after
// arrival+minWait at which a leg departing at time-of-day depTOD can be
// boarded.
//
// day = arrival / 1440; candidate = day*1440 + depTOD; if candidate is
// earlier than the earliest boarding instant, the next day's instance of
// depTOD is used instead.
func NextBoarding(arrival, minWait, depTOD int) int {
	earliest := arrival + minWait
	day := arrival / MinutesPerDay
	candidate := day*MinutesPerDay + depTOD
	if candidate >= earliest {
		return candidate
	}
	return (day+1)*MinutesPerDay + depTOD
}
