package models

import (
	"strings"
	"time"
)

// Status is a board column. Columns are ordered; see Statuses.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusBacklog, StatusInProgress, StatusDone}

// Valid reports whether s is one of the board columns.
func (s Status) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in Statuses, or -1.
func (s Status) Index() int {
	for i, status := range Statuses {
		if status == s {
			return i
		}
	}
	return -1
}

// Step returns the column delta positions away from s. The second result is
// false when that would move past either end of the board.
func (s Status) Step(delta int) (Status, bool) {
	idx := s.Index()
	if idx < 0 {
		return s, false
	}
	next := idx + delta
	if next < 0 || next >= len(Statuses) {
		return s, false
	}
	return Statuses[next], true
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the accepted priority values.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	for _, priority := range Priorities {
		if priority == p {
			return true
		}
	}
	return false
}

// Subtask is a checklist entry inside a task.
type Subtask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Task represents a single card on the board.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate"` // "" or YYYY-MM-DD
	Tags        []string  `json:"tags"`
	Subtasks    []Subtask `json:"subtasks"`
	Status      Status    `json:"status"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks that the task satisfies the field invariants. Order is
// not checked here since it is owned by the ordering pass.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", ErrTitleRequired)
	}

	if !t.Priority.Valid() {
		return invalid("priority", ErrInvalidPriority)
	}

	if !t.Status.Valid() {
		return invalid("status", ErrInvalidStatus)
	}

	if t.DueDate != "" {
		if _, err := ParseDate(t.DueDate); err != nil {
			return invalid("dueDate", ErrInvalidDueDate)
		}
	}

	for _, sub := range t.Subtasks {
		if strings.TrimSpace(sub.Text) == "" {
			return invalid("subtasks", ErrSubtaskTextRequired)
		}
	}

	return nil
}

// Due returns the calendar day the task is due, if it has a valid due date.
func (t *Task) Due() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := ParseDate(t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// HasTag reports whether the task carries the given normalized tag.
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.Tags = append([]string{}, t.Tags...)
	out.Subtasks = append([]Subtask{}, t.Subtasks...)
	return out
}
