// Package view derives display data from task lists: urgency classes, due
// labels, timeline buckets and status counts. Functions here are pure and
// operate on a snapshot already ordered by the task service.
package view

import (
	"fmt"
	"time"

	"tasktracker/internal/models"
)

// Urgency classifies a task's due date relative to the current time.
type Urgency uint8

const (
	UrgencyNone Urgency = iota
	UrgencyOverdue
	UrgencyToday
	UrgencyUpcoming
)

func (u Urgency) String() string {
	switch u {
	case UrgencyNone:
		return "none"
	case UrgencyOverdue:
		return "overdue"
	case UrgencyToday:
		return "today"
	case UrgencyUpcoming:
		return "upcoming"
	default:
		return fmt.Sprintf("Urgency(%d)", uint8(u))
	}
}

func (u Urgency) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// Classify reports whether a task is overdue, due today, upcoming, or has no
// due date. The due instant is the due date at due time (midnight when the
// time is absent or malformed) in now's location.
func Classify(task models.Task, now time.Time) Urgency {
	date, ok := parseDate(task.DueDate, now.Location())
	if !ok {
		return UrgencyNone
	}

	due := date
	if clock, ok := parseClock(task.DueTime); ok {
		due = time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	}

	if due.Before(now) {
		return UrgencyOverdue
	}
	y, m, d := now.Date()
	if date.Year() == y && date.Month() == m && date.Day() == d {
		return UrgencyToday
	}
	return UrgencyUpcoming
}

func parseDate(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(models.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func parseClock(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	c, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, false
	}
	return c, true
}
