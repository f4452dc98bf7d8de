package entities

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseDueDate combines a "YYYY-MM-DD" date and an optional "HH:MM" time of day into
// epoch milliseconds in loc. An empty date means no deadline; the time of day is
// ignored without a date and defaults to midnight otherwise.
func ParseDueDate(date, clock string, loc *time.Location) (*int64, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, date)
	}

	if clock != "" {
		tod, err := time.Parse(timeLayout, clock)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDueTime, clock)
		}
		day = time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, loc)
	}

	return Ms(day), nil
}

// FormatDueDate splits a deadline back into the date and time fields an edit form shows.
func FormatDueDate(task Task, loc *time.Location) (string, string) {
	due, ok := task.DueTime()
	if !ok {
		return "", ""
	}
	if loc == nil {
		loc = time.Local
	}
	due = due.In(loc)
	return due.Format(dateLayout), due.Format(timeLayout)
}
