package models

import "strings"

// SubtaskDraft is a subtask as submitted by the view layer. An empty ID is
// replaced with a generated one.
type SubtaskDraft struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// TaskDraft is the input for creating a task. Empty Priority and Status take
// their defaults.
type TaskDraft struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    Priority       `json:"priority"`
	DueDate     string         `json:"dueDate"`
	Tags        []string       `json:"tags"`
	Subtasks    []SubtaskDraft `json:"subtasks"`
	Status      Status         `json:"status"`
}

// TaskPatch is a partial edit. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Priority    *Priority      `json:"priority,omitempty"`
	DueDate     *string        `json:"dueDate,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Subtasks    []SubtaskDraft `json:"subtasks,omitempty"`
	Status      *Status        `json:"status,omitempty"`
}

// CleanTitle trims a title and rejects it when nothing is left.
func CleanTitle(s string) (string, error) {
	title := strings.TrimSpace(s)
	if title == "" {
		return "", invalid("title", ErrTitleRequired)
	}
	return title, nil
}

// CleanPriority defaults an empty priority to medium and rejects unknown ones.
func CleanPriority(p Priority) (Priority, error) {
	if p == "" {
		return PriorityMedium, nil
	}
	if !p.Valid() {
		return "", invalid("priority", ErrInvalidPriority)
	}
	return p, nil
}

// CleanStatus defaults an empty status to backlog and rejects unknown ones.
func CleanStatus(s Status) (Status, error) {
	if s == "" {
		return StatusBacklog, nil
	}
	if !s.Valid() {
		return "", invalid("status", ErrInvalidStatus)
	}
	return s, nil
}

// CleanDueDate accepts "" or a real YYYY-MM-DD date.
func CleanDueDate(s string) (string, error) {
	due, ok := NormalizeDueDate(s)
	if !ok {
		return "", invalid("dueDate", ErrInvalidDueDate)
	}
	return due, nil
}

// CleanTheme rejects anything but light or dark.
func CleanTheme(t Theme) (Theme, error) {
	if !t.Valid() {
		return "", invalid("theme", ErrInvalidTheme)
	}
	return t, nil
}
