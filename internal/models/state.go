package models

import "time"

// SchemaVersion is the version stamped on every persisted board document.
const SchemaVersion = 1

// Theme is the persisted colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// FilterAll disables the priority or due filter.
const FilterAll = "all"

// DueFilter selects tasks by due date.
type DueFilter string

const (
	DueAll     DueFilter = FilterAll
	DueOverdue DueFilter = "overdue"
	DueWeek    DueFilter = "week"
)

// Valid reports whether f is a known due filter.
func (f DueFilter) Valid() bool {
	return f == DueAll || f == DueOverdue || f == DueWeek
}

// Filters holds the persisted filter selection. Tags use AND semantics.
type Filters struct {
	Priority string    `json:"priority"` // "all" or a Priority
	Due      DueFilter `json:"due"`
	Tags     []string  `json:"tags"`
}

// DefaultFilters returns a selection that hides nothing.
func DefaultFilters() Filters {
	return Filters{Priority: FilterAll, Due: DueAll, Tags: []string{}}
}

// Normalize replaces unknown values with their defaults and normalizes tags.
func (f Filters) Normalize() Filters {
	out := DefaultFilters()
	if f.Priority == FilterAll || Priority(f.Priority).Valid() {
		out.Priority = f.Priority
	}
	if f.Due.Valid() {
		out.Due = f.Due
	}
	out.Tags = NormalizeTags(f.Tags...)
	return out
}

// Validate rejects filter selections outside the closed enumerations.
func (f Filters) Validate() error {
	if f.Priority != "" && f.Priority != FilterAll && !Priority(f.Priority).Valid() {
		return invalid("filters.priority", ErrInvalidFilter)
	}
	if f.Due != "" && !f.Due.Valid() {
		return invalid("filters.due", ErrInvalidFilter)
	}
	return nil
}

// UIPrefs are the view preferences persisted alongside the tasks.
type UIPrefs struct {
	Search  string  `json:"search"`
	Filters Filters `json:"filters"`
}

// State is the whole persisted board document.
type State struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"savedAt"`
	Theme   Theme     `json:"theme"`
	UI      UIPrefs   `json:"ui"`
	Tasks   []Task    `json:"tasks"`
}

// DefaultState returns an empty board using the given fallback theme.
func DefaultState(theme Theme) State {
	if !theme.Valid() {
		theme = ThemeLight
	}
	return State{
		Version: SchemaVersion,
		Theme:   theme,
		UI:      UIPrefs{Search: "", Filters: DefaultFilters()},
		Tasks:   []Task{},
	}
}
