// Package migrate maps whatever board document was persisted before onto
// the current schema.
//
// Every input is classified into exactly one Shape and handled by one pure
// function per shape, so the mapping is total: nothing here returns an error.
package migrate

import (
	"bytes"
	"encoding/json"

	"fluxline/internal/models"
)

// Shape is the detected layout of a persisted document.
type Shape int

const (
	// ShapeAbsent is an empty slot or a JSON null.
	ShapeAbsent Shape = iota
	// ShapeLegacyList is the pre-versioning layout: a bare task array.
	ShapeLegacyList
	// ShapeUnversioned is a version-0 object with search and filters at the top level.
	ShapeUnversioned
	// ShapeCurrent is an object stamped with models.SchemaVersion.
	ShapeCurrent
	// ShapeUnknownVersion is an object from a schema this build does not know.
	ShapeUnknownVersion
	// ShapeCorrupt is unparseable JSON or a scalar.
	ShapeCorrupt
)

func (s Shape) String() string {
	switch s {
	case ShapeAbsent:
		return "absent"
	case ShapeLegacyList:
		return "legacy-list"
	case ShapeUnversioned:
		return "unversioned"
	case ShapeCurrent:
		return "current"
	case ShapeUnknownVersion:
		return "unknown-version"
	case ShapeCorrupt:
		return "corrupt"
	default:
		return "invalid"
	}
}

// Result is a current-schema state plus the task list still awaiting
// sanitization. State.Tasks is always empty; RawTasks carries the entries.
type Result struct {
	Shape    Shape
	State    models.State
	RawTasks []any
}

// Corrupt reports whether the persisted data had to be thrown away.
func (r Result) Corrupt() bool {
	return r.Shape == ShapeCorrupt || r.Shape == ShapeUnknownVersion
}

// Migrate decodes and migrates a persisted document. fallback is the theme
// used when the document does not carry a valid one.
func Migrate(data []byte, fallback models.Theme) Result {
	if len(bytes.TrimSpace(data)) == 0 {
		return fromAbsent(fallback)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fromCorrupt(fallback)
	}

	return FromValue(raw, fallback)
}

// FromValue migrates an already decoded document.
func FromValue(raw any, fallback models.Theme) Result {
	switch Classify(raw) {
	case ShapeAbsent:
		return fromAbsent(fallback)
	case ShapeLegacyList:
		return fromLegacyList(raw.([]any), fallback)
	case ShapeUnversioned:
		return fromUnversioned(raw.(map[string]any), fallback)
	case ShapeCurrent:
		return fromCurrent(raw.(map[string]any), fallback)
	case ShapeUnknownVersion:
		return fromUnknownVersion(fallback)
	default:
		return fromCorrupt(fallback)
	}
}

// Classify detects the shape of a decoded document.
func Classify(raw any) Shape {
	switch v := raw.(type) {
	case nil:
		return ShapeAbsent
	case []any:
		return ShapeLegacyList
	case map[string]any:
		version, present := v["version"]
		if !present {
			return ShapeUnversioned
		}
		n, ok := version.(float64)
		switch {
		case !ok:
			return ShapeUnknownVersion
		case n == 0:
			return ShapeUnversioned
		case n == models.SchemaVersion:
			return ShapeCurrent
		default:
			return ShapeUnknownVersion
		}
	default:
		return ShapeCorrupt
	}
}

func fromAbsent(fallback models.Theme) Result {
	return Result{Shape: ShapeAbsent, State: models.DefaultState(fallback), RawTasks: []any{}}
}

func fromLegacyList(tasks []any, fallback models.Theme) Result {
	return Result{Shape: ShapeLegacyList, State: models.DefaultState(fallback), RawTasks: tasks}
}

func fromUnversioned(doc map[string]any, fallback models.Theme) Result {
	state := models.DefaultState(fallback)
	state.Theme = theme(doc["theme"], state.Theme)
	state.UI = models.UIPrefs{
		Search:  search(doc["search"]),
		Filters: filters(doc["filters"]),
	}
	return Result{Shape: ShapeUnversioned, State: state, RawTasks: taskList(doc["tasks"])}
}

func fromCurrent(doc map[string]any, fallback models.Theme) Result {
	state := models.DefaultState(fallback)
	state.Theme = theme(doc["theme"], state.Theme)

	ui, _ := doc["ui"].(map[string]any)
	state.UI = models.UIPrefs{
		Search:  search(ui["search"]),
		Filters: filters(ui["filters"]),
	}
	return Result{Shape: ShapeCurrent, State: state, RawTasks: taskList(doc["tasks"])}
}

func fromUnknownVersion(fallback models.Theme) Result {
	return Result{Shape: ShapeUnknownVersion, State: models.DefaultState(fallback), RawTasks: []any{}}
}

func fromCorrupt(fallback models.Theme) Result {
	return Result{Shape: ShapeCorrupt, State: models.DefaultState(fallback), RawTasks: []any{}}
}

func theme(v any, fallback models.Theme) models.Theme {
	s, _ := v.(string)
	if t := models.Theme(s); t.Valid() {
		return t
	}
	return fallback
}

func search(v any) string {
	s, _ := v.(string)
	return s
}

func taskList(v any) []any {
	if tasks, ok := v.([]any); ok {
		return tasks
	}
	return []any{}
}

func filters(v any) models.Filters {
	obj, _ := v.(map[string]any)
	f := models.Filters{}
	f.Priority, _ = obj["priority"].(string)
	due, _ := obj["due"].(string)
	f.Due = models.DueFilter(due)

	switch tags := obj["tags"].(type) {
	case string:
		f.Tags = []string{tags}
	case []any:
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				f.Tags = append(f.Tags, s)
			}
		}
	}

	return f.Normalize()
}
