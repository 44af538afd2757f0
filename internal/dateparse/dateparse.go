// Package dateparse parses relative and absolute date/time strings into
// concrete timestamps for event scheduling.
package dateparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDateTime parses a date input string into a timestamp.
// Uses the current time as the reference point.
//
// Supported forms:
//   - Exact: "2026-09-12", "2026-09-12 18:30"
//   - Keywords: "today", "tomorrow"
//   - Relative: "+7d", "+2w"
//   - Day names: "saturday" (next occurrence)
//
// Any date-only form may carry a trailing "HH:MM"; otherwise midnight is used.
func ParseDateTime(input string) (time.Time, error) {
	return ParseDateTimeFrom(input, time.Now())
}

// ParseDateTimeFrom parses relative to the given reference time.
// This variant enables deterministic testing with a fixed "now".
func ParseDateTimeFrom(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}

	// Split an optional HH:MM clock off the end
	datePart := input
	var clock string
	if fields := strings.Fields(input); len(fields) == 2 {
		datePart, clock = fields[0], fields[1]
	}

	day, err := parseDay(datePart, now)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute := 0, 0
	if clock != "" {
		hour, minute, err = parseClock(clock)
		if err != nil {
			return time.Time{}, err
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), nil
}

func parseDay(input string, now time.Time) (time.Time, error) {
	// Exact date: YYYY-MM-DD
	if t, err := time.Parse("2006-01-02", input); err == nil {
		return t, nil
	}

	switch input {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}

	// Relative offsets: +Nd, +Nw
	if strings.HasPrefix(input, "+") && len(input) >= 3 {
		unit := input[len(input)-1]
		n, err := strconv.Atoi(input[1 : len(input)-1])
		if err == nil && n > 0 {
			switch unit {
			case 'd':
				return now.AddDate(0, 0, n), nil
			case 'w':
				return now.AddDate(0, 0, n*7), nil
			}
		}
	}

	// Day names: next occurrence
	if wd, ok := weekdays[input]; ok {
		days := (int(wd) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return now.AddDate(0, 0, days), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date: %q (try YYYY-MM-DD, today, tomorrow, +7d, or a weekday name)", input)
}

func parseClock(input string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(input, ":")
	if !ok {
		return 0, 0, fmt.Errorf("unrecognized time: %q (expected HH:MM)", input)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", input)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", input)
	}
	return hour, minute, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
