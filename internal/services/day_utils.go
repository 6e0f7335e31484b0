package services

import (
	"errors"
	"strings"
	"time"
)

const calendarDateLayout = "2006-01-02"

var ErrInvalidCalendarDate = errors.New("invalid calendar date")

// CalendarDate returns the calendar day of value as seen in location,
// expressed as midnight UTC so stored dates compare the same way everywhere.
func CalendarDate(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func DayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func ParseCalendarDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(calendarDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidCalendarDate
	}
	return parsed, nil
}

func FormatCalendarDate(day time.Time) string {
	return day.Format(calendarDateLayout)
}
