// Package filter decides which tasks are visible for a search and filter
// selection. Everything here is a pure function of its arguments.
package filter

import (
	"strings"
	"time"

	"fluxline/internal/models"
)

// WeekSpan is the number of days after today still inside the "week" window.
// The window is inclusive on both ends.
const WeekSpan = 7

// Criteria is the combined search text and filter selection.
type Criteria struct {
	Search  string         `json:"search"`
	Filters models.Filters `json:"filters"`
}

// HasActive reports whether the criteria can hide any task.
func (c Criteria) HasActive() bool {
	return strings.TrimSpace(c.Search) != "" ||
		(c.Filters.Priority != "" && c.Filters.Priority != models.FilterAll) ||
		(c.Filters.Due != "" && c.Filters.Due != models.DueAll) ||
		len(c.Filters.Tags) > 0
}

// Matches reports whether task is visible under c. now supplies the current
// calendar day; only its year, month and day are used.
func Matches(task models.Task, c Criteria, now time.Time) bool {
	if !matchesSearch(task, c.Search) {
		return false
	}

	if p := c.Filters.Priority; p != "" && p != models.FilterAll && models.Priority(p) != task.Priority {
		return false
	}

	switch c.Filters.Due {
	case models.DueOverdue:
		if !IsOverdue(task, now) {
			return false
		}
	case models.DueWeek:
		if !IsDueWithinWeek(task, now) {
			return false
		}
	}

	for _, tag := range c.Filters.Tags {
		if !task.HasTag(tag) {
			return false
		}
	}

	return true
}

// IsOverdue reports whether the task is due strictly before today.
func IsOverdue(task models.Task, now time.Time) bool {
	due, ok := task.Due()
	if !ok {
		return false
	}
	return due.Before(models.CalendarDay(now))
}

// IsDueWithinWeek reports whether the task is due in [today, today+WeekSpan].
func IsDueWithinWeek(task models.Task, now time.Time) bool {
	due, ok := task.Due()
	if !ok {
		return false
	}
	start := models.CalendarDay(now)
	end := start.AddDate(0, 0, WeekSpan)
	return !due.Before(start) && !due.After(end)
}

func matchesSearch(task models.Task, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}

	subtasks := make([]string, 0, len(task.Subtasks))
	for _, sub := range task.Subtasks {
		subtasks = append(subtasks, sub.Text)
	}

	haystack := strings.ToLower(strings.Join([]string{
		task.Title,
		task.Description,
		strings.Join(task.Tags, " "),
		strings.Join(subtasks, " "),
	}, " "))

	return strings.Contains(haystack, needle)
}
