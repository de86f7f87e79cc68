package view

import (
	"strings"
	"time"

	"tasktracker/internal/models"
)

const (
	dateLabelLayout   = "Jan 2, 2006"
	clockLabelLayout  = "3:04 PM"
	headerLabelLayout = "Mon, Jan 2, 2006"
	noDateHeader      = "No due date"
)

// DueLabel renders a task's due date and time, e.g. "Jun 1, 2024 at 2:30 PM".
// A malformed time is dropped without dropping the date. ok is false when
// nothing could be rendered.
func DueLabel(task models.Task) (string, bool) {
	var parts []string
	if date, ok := parseDate(task.DueDate, time.UTC); ok {
		parts = append(parts, date.Format(dateLabelLayout))
	}
	if clock, ok := parseClock(task.DueTime); ok {
		parts = append(parts, clock.Format(clockLabelLayout))
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " at "), true
}

// headerLabel renders a timeline bucket key as a heading.
func headerLabel(key string) string {
	date, ok := parseDate(key, time.UTC)
	if !ok {
		return noDateHeader
	}
	return date.Format(headerLabelLayout)
}
