// Package sanitize turns untrusted decoded JSON into well-formed tasks.
//
// Input is whatever encoding/json produced for the persisted "tasks" value:
// []any of map[string]any entries, with float64 numbers. Entries that cannot
// be salvaged are dropped; everything else is coerced to a valid Task.
package sanitize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"fluxline/internal/models"
)

// Options supplies the clock and id generator used for coerced fields.
type Options struct {
	Now   time.Time
	NewID func(prefix string) string
}

// Tasks sanitizes a raw task list. It never fails: a value that is not a
// list yields an empty result. A missing, non-string or empty id is
// regenerated, as is one already used by an earlier entry.
func Tasks(raw any, opts Options) []models.Task {
	entries, ok := raw.([]any)
	if !ok {
		return []models.Task{}
	}

	tasks := make([]models.Task, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for index, entry := range entries {
		task, ok := taskFromValue(entry, index, opts)
		if !ok {
			continue
		}
		// Ids are unique across the board.
		if _, dup := seen[task.ID]; dup {
			task.ID = opts.NewID("task")
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}

	return tasks
}

func taskFromValue(entry any, index int, opts Options) (models.Task, bool) {
	obj, ok := entry.(map[string]any)
	if !ok {
		return models.Task{}, false
	}

	title := trimmedString(obj["title"])
	if title == "" {
		return models.Task{}, false
	}

	task := models.Task{
		ID:          stringOr(obj["id"], ""),
		Title:       title,
		Description: trimmedString(obj["description"]),
		Priority:    models.PriorityMedium,
		Tags:        Tags(obj["tags"]),
		Subtasks:    Subtasks(obj["subtasks"], opts),
		Status:      models.StatusBacklog,
		Order:       index + 1,
		CreatedAt:   timestampOr(obj["createdAt"], opts.Now),
		UpdatedAt:   timestampOr(obj["updatedAt"], opts.Now),
	}
	if task.ID == "" {
		task.ID = opts.NewID("task")
	}

	if p := models.Priority(stringOr(obj["priority"], "")); p.Valid() {
		task.Priority = p
	}
	if s := models.Status(stringOr(obj["status"], "")); s.Valid() {
		task.Status = s
	}
	if due, ok := obj["dueDate"].(string); ok {
		task.DueDate, _ = models.NormalizeDueDate(due)
	}
	if order, ok := finiteNumber(obj["order"]); ok {
		task.Order = clampOrder(order)
	}

	return task, true
}

// Subtasks sanitizes a raw subtask list, dropping entries without text.
func Subtasks(raw any, opts Options) []models.Subtask {
	entries, ok := raw.([]any)
	if !ok {
		return []models.Subtask{}
	}

	subtasks := make([]models.Subtask, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		text := trimmedString(obj["text"])
		if text == "" {
			continue
		}
		id := stringOr(obj["id"], "")
		if id == "" {
			id = opts.NewID("subtask")
		}
		subtasks = append(subtasks, models.Subtask{ID: id, Text: text, Done: truthy(obj["done"])})
	}

	return subtasks
}

// Tags accepts either a list of strings or one comma-delimited string.
func Tags(raw any) []string {
	switch v := raw.(type) {
	case string:
		return models.NormalizeTags(v)
	case []any:
		pieces := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				pieces = append(pieces, s)
			}
		}
		return models.NormalizeTags(pieces...)
	case []string:
		return models.NormalizeTags(v...)
	default:
		return []string{}
	}
}

func trimmedString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func timestampOr(v any, fallback time.Time) time.Time {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	if t, ok := models.ParseTimestamp(s); ok {
		return t
	}
	return fallback
}

// finiteNumber reads a JSON number, or a string holding one.
func finiteNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func clampOrder(f float64) int {
	const limit = math.MaxInt32
	switch {
	case f > limit:
		return limit
	case f < -limit:
		return -limit
	default:
		return int(math.Round(f))
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case string:
		return b != ""
	default:
		return true
	}
}
