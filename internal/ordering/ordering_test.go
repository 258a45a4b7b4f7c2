package ordering

import (
	"reflect"
	"testing"

	"fluxline/internal/models"
)

func task(id string, status models.Status, order int) models.Task {
	return models.Task{ID: id, Title: id, Status: status, Order: order}
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.Task
		want  map[models.Status][]string
	}{
		{
			name: "gaps are closed",
			tasks: []models.Task{
				task("a", models.StatusBacklog, 10),
				task("b", models.StatusBacklog, 3),
				task("c", models.StatusBacklog, 7),
			},
			want: map[models.Status][]string{models.StatusBacklog: {"b", "c", "a"}},
		},
		{
			name: "ties keep slice position",
			tasks: []models.Task{
				task("a", models.StatusDone, 2),
				task("b", models.StatusDone, 1),
				task("c", models.StatusDone, 2),
				task("d", models.StatusDone, 1),
			},
			want: map[models.Status][]string{models.StatusDone: {"b", "d", "a", "c"}},
		},
		{
			name: "negative and zero orders",
			tasks: []models.Task{
				task("a", models.StatusInProgress, 0),
				task("b", models.StatusInProgress, -4),
				task("c", models.StatusBacklog, 0),
			},
			want: map[models.Status][]string{
				models.StatusInProgress: {"b", "a"},
				models.StatusBacklog:    {"c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Normalize(tt.tasks)

			if !Check(tt.tasks) {
				t.Fatalf("expected dense ordering, got %+v", tt.tasks)
			}
			for status, want := range tt.want {
				if got := ids(Column(tt.tasks, status)); !reflect.DeepEqual(got, want) {
					t.Errorf("%s: expected %v, got %v", status, want, got)
				}
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusBacklog, 5),
		task("b", models.StatusDone, 5),
		task("c", models.StatusBacklog, 5),
		task("d", models.StatusBacklog, 1),
	}

	Normalize(tasks)
	once := append([]models.Task(nil), tasks...)
	Normalize(tasks)

	if !reflect.DeepEqual(once, tasks) {
		t.Errorf("expected second pass to change nothing:\n%+v\n%+v", once, tasks)
	}
	if tasks[0].ID != "a" || tasks[3].ID != "d" {
		t.Error("expected slice itself not to be reordered")
	}
}

func TestNextOrder(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusBacklog, 1),
		task("b", models.StatusBacklog, 2),
		task("c", models.StatusDone, 1),
	}

	if got := NextOrder(tasks, models.StatusBacklog); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := NextOrder(tasks, models.StatusInProgress); got != 1 {
		t.Errorf("expected 1 for an empty column, got %d", got)
	}
}

func TestApplyColumnSequences(t *testing.T) {
	base := func() []models.Task {
		return []models.Task{
			task("a", models.StatusBacklog, 1),
			task("b", models.StatusBacklog, 2),
			task("c", models.StatusBacklog, 3),
			task("d", models.StatusInProgress, 1),
			task("e", models.StatusDone, 1),
		}
	}

	tests := []struct {
		name    string
		columns map[models.Status][]string
		want    map[models.Status][]string
	}{
		{
			name:    "reorder within a column",
			columns: map[models.Status][]string{models.StatusBacklog: {"c", "a", "b"}},
			want:    map[models.Status][]string{models.StatusBacklog: {"c", "a", "b"}},
		},
		{
			name: "move across columns",
			columns: map[models.Status][]string{
				models.StatusBacklog:    {"a", "c"},
				models.StatusInProgress: {"b", "d"},
			},
			want: map[models.Status][]string{
				models.StatusBacklog:    {"a", "c"},
				models.StatusInProgress: {"b", "d"},
				models.StatusDone:       {"e"},
			},
		},
		{
			name: "unknown ids are ignored",
			columns: map[models.Status][]string{
				models.StatusDone: {"ghost", "a", "e"},
			},
			want: map[models.Status][]string{
				models.StatusBacklog: {"b", "c"},
				models.StatusDone:    {"a", "e"},
			},
		},
		{
			name: "first column wins for duplicates",
			columns: map[models.Status][]string{
				models.StatusBacklog: {"d"},
				models.StatusDone:    {"d", "e"},
			},
			want: map[models.Status][]string{
				models.StatusBacklog:    {"d", "a", "b", "c"},
				models.StatusInProgress: {},
				models.StatusDone:       {"e"},
			},
		},
		{
			name: "unlisted tasks follow the listed ones",
			columns: map[models.Status][]string{
				models.StatusBacklog: {"c"},
			},
			want: map[models.Status][]string{
				models.StatusBacklog: {"c", "a", "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := base()
			ApplyColumnSequences(tasks, tt.columns)

			if !Check(tasks) {
				t.Fatalf("expected dense ordering, got %+v", tasks)
			}
			for status, want := range tt.want {
				if got := ids(Column(tasks, status)); !reflect.DeepEqual(got, want) {
					t.Errorf("%s: expected %v, got %v", status, want, got)
				}
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.Task
		want  bool
	}{
		{name: "empty", tasks: nil, want: true},
		{name: "dense", tasks: []models.Task{task("a", models.StatusBacklog, 2), task("b", models.StatusBacklog, 1)}, want: true},
		{name: "gap", tasks: []models.Task{task("a", models.StatusBacklog, 1), task("b", models.StatusBacklog, 3)}, want: false},
		{name: "duplicate", tasks: []models.Task{task("a", models.StatusDone, 1), task("b", models.StatusDone, 1)}, want: false},
		{name: "zero", tasks: []models.Task{task("a", models.StatusDone, 0)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Check(tt.tasks); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
