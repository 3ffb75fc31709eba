package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/stampet/internal/constants"
)

var nowFunc = time.Now

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
// This ensures that "today" is determined by the user's configured timezone, not UTC.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return DateKey(now), nil
}

// GetTodayString returns the local wall-clock date as a zero-padded DateKey.
func GetTodayString() string {
	return DateKey(nowFunc())
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return nowFunc().In(loc), nil
}

// DateKey formats t as YYYY-MM-DD in t's own location.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// NoonInLocation returns local noon of the given day. Comparing days at noon keeps
// DST transitions from pushing a date across a period boundary.
func NoonInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := ParseDateInLocation(dateStr, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(12 * time.Hour), nil
}

// ValidateDateKey checks that key is a real calendar date in canonical form.
func ValidateDateKey(key string) error {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", key)
	}
	if t.Format(constants.DateFormat) != key {
		return fmt.Errorf("invalid date: %s", key)
	}
	return nil
}

// AddDays shifts a DateKey by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", key)
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// DateRange returns every DateKey in [start, end] inclusive.
func DateRange(start, end string) ([]string, error) {
	if err := ValidateDateKey(start); err != nil {
		return nil, err
	}
	if err := ValidateDateKey(end); err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("start date %s is after end date %s", start, end)
	}

	var days []string
	for day := start; day <= end; {
		days = append(days, day)
		next, err := AddDays(day, 1)
		if err != nil {
			return nil, err
		}
		day = next
	}
	return days, nil
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the length of month in year.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// CalendarDays builds a month grid for a 0-indexed month. The grid starts with one
// empty slot per weekday before the 1st (Sunday = 0) followed by one DateKey per day.
func CalendarDays(year, month int) []string {
	first := time.Date(year, time.Month(month+1), 1, 12, 0, 0, 0, time.UTC)
	lead := int(first.Weekday())
	n := DaysInMonth(first.Year(), first.Month())

	days := make([]string, lead, lead+n)
	for d := 1; d <= n; d++ {
		days = append(days, fmt.Sprintf("%04d-%02d-%02d", first.Year(), int(first.Month()), d))
	}
	return days
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
