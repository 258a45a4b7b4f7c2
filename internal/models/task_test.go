package models

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestTaskValidation(t *testing.T) {
	valid := Task{Title: "Write report", Priority: PriorityMedium, Status: StatusBacklog}

	tests := []struct {
		name    string
		mutate  func(*Task)
		field   string
		wantErr error
	}{
		{name: "valid task should pass", mutate: func(*Task) {}},
		{name: "empty title should fail", mutate: func(t *Task) { t.Title = "" }, field: "title", wantErr: ErrTitleRequired},
		{name: "whitespace title should fail", mutate: func(t *Task) { t.Title = "   " }, field: "title", wantErr: ErrTitleRequired},
		{name: "unknown priority should fail", mutate: func(t *Task) { t.Priority = "urgent" }, field: "priority", wantErr: ErrInvalidPriority},
		{name: "unknown status should fail", mutate: func(t *Task) { t.Status = "archived" }, field: "status", wantErr: ErrInvalidStatus},
		{name: "impossible due date should fail", mutate: func(t *Task) { t.DueDate = "2024-02-30" }, field: "dueDate", wantErr: ErrInvalidDueDate},
		{name: "valid due date should pass", mutate: func(t *Task) { t.DueDate = "2024-02-29" }},
		{name: "blank subtask should fail", mutate: func(t *Task) { t.Subtasks = []Subtask{{ID: "s", Text: " "}} }, field: "subtasks", wantErr: ErrSubtaskTextRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid.Clone()
			tt.mutate(&task)

			err := task.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestStatusStep(t *testing.T) {
	tests := []struct {
		from   Status
		delta  int
		want   Status
		wantOK bool
	}{
		{StatusBacklog, 1, StatusInProgress, true},
		{StatusInProgress, 1, StatusDone, true},
		{StatusDone, 1, StatusDone, false},
		{StatusInProgress, -1, StatusBacklog, true},
		{StatusBacklog, -1, StatusBacklog, false},
		{"archived", 1, "archived", false},
	}

	for _, tt := range tests {
		got, ok := tt.from.Step(tt.delta)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%s.Step(%d) = %s, %v; want %s, %v", tt.from, tt.delta, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTaskClone_IsDeep(t *testing.T) {
	task := Task{Title: "x", Tags: []string{"a"}, Subtasks: []Subtask{{ID: "1", Text: "s"}}}
	c := task.Clone()
	c.Tags[0] = "b"
	c.Subtasks[0].Done = true

	if task.Tags[0] != "a" || task.Subtasks[0].Done {
		t.Error("expected clone to share no slices with the original")
	}

	empty := Task{}.Clone()
	if empty.Tags == nil || empty.Subtasks == nil {
		t.Error("expected clone of nil slices to be empty slices")
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{name: "comma string", raw: []string{"Urgent, #urgent , ,bug"}, want: []string{"urgent", "bug"}},
		{name: "list", raw: []string{"UI", "#ui", "Backend"}, want: []string{"ui", "backend"}},
		{name: "multiple hashes", raw: []string{"##ops"}, want: []string{"ops"}},
		{name: "nothing", raw: nil, want: []string{}},
		{name: "only separators", raw: []string{" , ,#"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.raw...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizeDueDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "", true},
		{"   ", "", true},
		{" 2026-03-10 ", "2026-03-10", true},
		{"2024-02-29", "2024-02-29", true},
		{"2024-02-30", "", false},
		{"2023-02-29", "", false},
		{"2026-3-10", "", false},
		{"2026-03-10T00:00:00Z", "", false},
		{"tomorrow", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeDueDate(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeDueDate(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCalendarDay(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	late := time.Date(2026, 3, 10, 23, 30, 0, 0, zone)

	got := CalendarDay(late)
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"2026-03-10T10:00:00Z", true},
		{"2026-03-10T10:00:00.123456789+02:00", true},
		{"2026-03-10T10:00:00", true},
		{"2026-03-10T10:00", true},
		{"2026-03-10", true},
		{"", false},
		{"yesterday", false},
	}

	for _, tt := range tests {
		if _, ok := ParseTimestamp(tt.in); ok != tt.wantOK {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
		}
	}
}

func TestParseTimestampIn_ZonelessLayoutsAreLocal(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-10T10:00:00", time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)},
		{"2026-03-10T10:00", time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)},
		{"2026-03-10T10:00:00Z", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)},
		{"2026-03-10", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := parseTimestampIn(tt.in, loc)
		if !ok {
			t.Errorf("parseTimestampIn(%q) failed", tt.in)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseTimestampIn(%q) = %v, want instant %v", tt.in, got, tt.want)
		}
	}
}

func TestFilters(t *testing.T) {
	f := Filters{Priority: "urgent", Due: "someday", Tags: []string{"#A", "a"}}
	if err := f.Validate(); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}

	got := f.Normalize()
	want := Filters{Priority: FilterAll, Due: DueAll, Tags: []string{"a"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	ok := Filters{Priority: "low", Due: DueWeek}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestThemeAndDefaultState(t *testing.T) {
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Error("expected toggle to swap light and dark")
	}

	s := DefaultState("sepia")
	if s.Theme != ThemeLight || s.Version != SchemaVersion || s.Tasks == nil {
		t.Errorf("unexpected default state %+v", s)
	}
	if s.UI.Filters.Priority != FilterAll || s.UI.Filters.Due != DueAll {
		t.Errorf("expected default filters, got %+v", s.UI.Filters)
	}
}

func TestCleanInputs(t *testing.T) {
	if p, err := CleanPriority(""); err != nil || p != PriorityMedium {
		t.Errorf("expected medium default, got %q (%v)", p, err)
	}
	if s, err := CleanStatus(""); err != nil || s != StatusBacklog {
		t.Errorf("expected backlog default, got %q (%v)", s, err)
	}
	if _, err := CleanTheme("blue"); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("expected ErrInvalidTheme, got %v", err)
	}
	if title, err := CleanTitle("  Ship it  "); err != nil || title != "Ship it" {
		t.Errorf("expected trimmed title, got %q (%v)", title, err)
	}
}
