// Package board owns the task list and the persisted view preferences.
//
// A Board is the single writer of board state. Every intent runs the same
// protocol under one lock: validate the input, apply it to a copy of the
// state, restore dense column ordering, write the full document through the
// Gateway, and only then replace the in-memory state. A rejected or failed
// intent leaves both copies untouched. Subscribers hear about the outcome
// once the lock is released.
package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fluxline/internal/filter"
	"fluxline/internal/metrics"
	"fluxline/internal/migrate"
	"fluxline/internal/models"
	"fluxline/internal/ordering"
	"fluxline/internal/sanitize"
	"fluxline/internal/store"
)

// ErrTaskNotFound is returned when an intent names an unknown task id.
var ErrTaskNotFound = errors.New("task not found")

// Options configures a Board. Zero values select the defaults.
type Options struct {
	// SystemTheme is used when no valid theme was persisted.
	SystemTheme models.Theme
	// Now is the board clock. Defaults to time.Now.
	Now func() time.Time
	// NewID generates ids for tasks and subtasks. Defaults to "<prefix>-<uuid>".
	NewID   func(prefix string) string
	Logger  *log.Entry
	Metrics *metrics.Collector
}

// Board is the in-memory task store.
type Board struct {
	mu    sync.Mutex
	gw    store.Gateway
	state models.State

	now     func() time.Time
	newID   func(prefix string) string
	log     *log.Entry
	metrics *metrics.Collector

	startup []Notice

	subsMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// NewID returns "<prefix>-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Open loads the persisted board, migrates and sanitizes it, normalizes
// column ordering and writes the result back. Unreadable data never fails
// Open; it yields an empty board and a startup notice. A failed write-back
// also only raises a notice. Only a failed Load is returned.
func Open(ctx context.Context, gw store.Gateway, opts Options) (*Board, error) {
	b := &Board{
		gw:      gw,
		now:     opts.Now,
		newID:   opts.NewID,
		log:     opts.Logger,
		metrics: opts.Metrics,
		subs:    make(map[int]func(Event)),
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = NewID
	}
	if b.log == nil {
		b.log = log.NewEntry(log.StandardLogger())
	}
	b.log = b.log.WithField("component", "board")

	data, err := gw.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	res := migrate.Migrate(data, opts.SystemTheme)
	state := res.State
	state.Tasks = sanitize.Tasks(res.RawTasks, sanitize.Options{Now: b.now(), NewID: b.newID})
	ordering.Normalize(state.Tasks)

	if res.Corrupt() {
		b.startup = append(b.startup, Notice{
			Kind:    NoticeCorruptState,
			Message: "Stored data was invalid. Started with a clean board.",
		})
	}
	if len(res.RawTasks) > 0 && len(state.Tasks) == 0 {
		b.startup = append(b.startup, Notice{
			Kind:    NoticeBoardEmptied,
			Message: "Stored tasks could not be read. The board may look empty.",
		})
	}

	b.log.WithFields(log.Fields{
		"shape":     res.Shape.String(),
		"raw_tasks": len(res.RawTasks),
		"tasks":     len(state.Tasks),
	}).Info("board loaded")

	if err := b.commit(ctx, "load", state); err != nil {
		// The loaded board stays usable; the next mutation retries the write.
		state.Version = models.SchemaVersion
		b.state = state
		b.metrics.SetColumnSizes(columnSizes(state.Tasks))
		b.startup = append(b.startup, Notice{
			Kind:    NoticeSaveFailed,
			Message: "The board could not be saved. Changes may not persist.",
		})
	}

	for _, n := range b.startup {
		b.metrics.ObserveNotice(string(n.Kind))
		b.log.WithField("kind", n.Kind).Warn(n.Message)
	}

	return b, nil
}

// TakeStartupNotices returns the notices raised while opening the board and
// forgets them, so each is shown once.
func (b *Board) TakeStartupNotices() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	notices := b.startup
	b.startup = nil
	return notices
}

// commit persists next and, on success, makes it the current state.
// Callers hold b.mu and have already normalized next.Tasks.
func (b *Board) commit(ctx context.Context, op string, next models.State) error {
	next.Version = models.SchemaVersion
	next.SavedAt = b.now().UTC()

	if err := b.gw.Save(ctx, next); err != nil {
		b.log.WithError(err).WithField("op", op).Error("failed to persist board")
		return fmt.Errorf("failed to persist board: %w", err)
	}

	b.state = next
	b.metrics.SetColumnSizes(columnSizes(next.Tasks))
	return nil
}

// clone returns a deep copy of the current state for a mutation to work on.
func (b *Board) clone() models.State {
	next := b.state
	next.UI.Filters.Tags = append([]string{}, b.state.UI.Filters.Tags...)
	next.Tasks = make([]models.Task, len(b.state.Tasks))
	for i, t := range b.state.Tasks {
		next.Tasks[i] = t.Clone()
	}
	return next
}

func (b *Board) indexOf(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// State returns a copy of the whole board document.
func (b *Board) State() models.State {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.clone()
	sortTasks(s.Tasks)
	return s
}

// Tasks returns copies of all tasks sorted by column, then order.
func (b *Board) Tasks() []models.Task {
	return b.State().Tasks
}

// Task returns a copy of one task.
func (b *Board) Task(id string) (models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(b.state.Tasks, id)
	if i < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	return b.state.Tasks[i].Clone(), nil
}

// Theme returns the persisted theme.
func (b *Board) Theme() models.Theme {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Theme
}

// Criteria returns the persisted search and filter selection.
func (b *Board) Criteria() filter.Criteria {
	b.mu.Lock()
	defer b.mu.Unlock()

	f := b.state.UI.Filters
	f.Tags = append([]string{}, f.Tags...)
	return filter.Criteria{Search: b.state.UI.Search, Filters: f}
}

// Lane is one column of the visible board.
type Lane struct {
	Status models.Status `json:"status"`
	Tasks  []models.Task `json:"tasks"`
}

// VisibleTasksByColumn returns the tasks matching c, one lane per column in
// board order, each lane sorted by order.
func (b *Board) VisibleTasksByColumn(c filter.Criteria) []Lane {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	lanes := make([]Lane, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		lane := Lane{Status: status, Tasks: []models.Task{}}
		for _, t := range ordering.Column(b.state.Tasks, status) {
			if filter.Matches(t, c, now) {
				lane.Tasks = append(lane.Tasks, t)
			}
		}
		lanes = append(lanes, lane)
	}
	return lanes
}

func sortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		si, sj := tasks[i].Status.Index(), tasks[j].Status.Index()
		if si != sj {
			return si < sj
		}
		return tasks[i].Order < tasks[j].Order
	})
}

func columnSizes(tasks []models.Task) map[string]int {
	sizes := make(map[string]int, len(models.Statuses))
	for _, status := range models.Statuses {
		sizes[string(status)] = 0
	}
	for _, t := range tasks {
		sizes[string(t.Status)]++
	}
	return sizes
}
