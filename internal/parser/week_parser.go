package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	weeksAgoRegex = regexp.MustCompile(`^-(\d+)$`)
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(weekday - 1))
}

// ParseWeek resolves a week selector relative to now and returns the
// Monday that starts it.
// Supported selectors:
// - "" or "this" (the current week)
// - "last" (the previous week)
// - "-N" (N weeks ago, e.g. "-2")
// - dd/mm/yyyy (the week containing that date)
func ParseWeek(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "", "this":
		return WeekStart(now), nil
	case "last":
		return WeekStart(now).AddDate(0, 0, -7), nil
	}

	if m := weeksAgoRegex.FindStringSubmatch(input); len(m) == 2 {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > 520 {
			return time.Time{}, fmt.Errorf("weeks ago must be between 0 and 520")
		}
		return WeekStart(now).AddDate(0, 0, -7*n), nil
	}

	if m := dateRegex.FindStringSubmatch(input); len(m) == 4 {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		date := time.Date(year, time.Month(month), day, 12, 0, 0, 0, now.Location())
		// Check if date is valid (handles leap years, etc.)
		if date.Day() != day || int(date.Month()) != month || date.Year() != year {
			return time.Time{}, fmt.Errorf("invalid date %s", input)
		}
		return WeekStart(date), nil
	}

	return time.Time{}, fmt.Errorf("invalid week '%s'. Use: this, last, -N or dd/mm/yyyy", input)
}
