package timeparse

import (
	"fmt"
	"strings"
	"time"
)

// UnrecognizedFormatError is returned when no recognized form matches the
// input. It carries the offending string so callers can render a precise
// message.
type UnrecognizedFormatError struct {
	Input string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("unrecognized date/time format: %q", e.Input)
}

// layouts tried in order for explicit date-time input, all zone-naive.
var layouts = []string{
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"02/01/2006 15:04",
	"02-01-2006 15:04",
	"Jan 2 2006 15:04",
	"2 Jan 2006 15:04",
	"Jan 2, 2006 15:04",
}

// isoLayouts is the strict ISO local date-time fallback (no zone suffix).
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var weekdays = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "weds": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// ParseToUTC converts free-text time input interpreted in loc into a UTC
// instant. Recognized forms, tried in order, first match wins:
//
//  1. "today HH:MM" / "tomorrow HH:MM" (case-insensitive)
//  2. "<weekday> HH:MM": next occurrence, same weekday with the time
//     already past rolls forward exactly 7 days
//  3. the explicit layouts above, localized to loc
//  4. strict ISO local date-time fallback
//
// Anything else fails with *UnrecognizedFormatError.
func ParseToUTC(input string, loc *time.Location) (time.Time, error) {
	return parseToUTCAt(input, loc, time.Now())
}

// parseToUTCAt is ParseToUTC with an injectable clock for the relative forms.
func parseToUTCAt(input string, loc *time.Location, now time.Time) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(input)
	lower := strings.ToLower(s)
	localNow := now.In(loc)

	if rest, ok := strings.CutPrefix(lower, "today "); ok {
		return atClockTime(localNow, 0, rest, loc, s)
	}
	if rest, ok := strings.CutPrefix(lower, "tomorrow "); ok {
		return atClockTime(localNow, 1, rest, loc, s)
	}

	if parts := strings.Fields(lower); len(parts) == 2 {
		if dow, ok := weekdays[parts[0]]; ok {
			clock, err := time.Parse("15:04", parts[1])
			if err != nil {
				return time.Time{}, &UnrecognizedFormatError{Input: s}
			}
			daysAhead := (int(dow) - int(localNow.Weekday()) + 7) % 7
			target := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
				clock.Hour(), clock.Minute(), 0, 0, loc).AddDate(0, 0, daysAhead)
			if daysAhead == 0 && localNow.After(target) {
				target = target.AddDate(0, 0, 7)
			}
			return target.UTC(), nil
		}
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, &UnrecognizedFormatError{Input: s}
}

func atClockTime(localNow time.Time, addDays int, clockStr string, loc *time.Location, original string) (time.Time, error) {
	clock, err := time.Parse("15:04", strings.TrimSpace(clockStr))
	if err != nil {
		return time.Time{}, &UnrecognizedFormatError{Input: original}
	}
	t := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
		clock.Hour(), clock.Minute(), 0, 0, loc).AddDate(0, 0, addDays)
	return t.UTC(), nil
}
