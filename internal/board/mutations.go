package board

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"fluxline/internal/models"
	"fluxline/internal/ordering"
)

// Direction is a step move through the column enumeration.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

func (d Direction) delta() (int, error) {
	switch d {
	case Forward:
		return 1, nil
	case Backward:
		return -1, nil
	default:
		return 0, &models.ValidationError{Field: "direction", Err: models.ErrInvalidDirection}
	}
}

// Create adds a task to the end of its column.
func (b *Board) Create(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	b.mu.Lock()
	task, err := b.create(ctx, draft)
	b.mu.Unlock()

	b.metrics.ObserveMutation("create", err)
	if err != nil {
		return models.Task{}, err
	}
	b.publish(changed())
	return task, nil
}

func (b *Board) create(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	title, err := models.CleanTitle(draft.Title)
	if err != nil {
		return models.Task{}, err
	}
	priority, err := models.CleanPriority(draft.Priority)
	if err != nil {
		return models.Task{}, err
	}
	status, err := models.CleanStatus(draft.Status)
	if err != nil {
		return models.Task{}, err
	}
	due, err := models.CleanDueDate(draft.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	now := b.now()
	next := b.clone()
	task := models.Task{
		ID:          b.newID("task"),
		Title:       title,
		Description: strings.TrimSpace(draft.Description),
		Priority:    priority,
		DueDate:     due,
		Tags:        models.NormalizeTags(draft.Tags...),
		Subtasks:    b.subtasks(draft.Subtasks),
		Status:      status,
		Order:       ordering.NextOrder(next.Tasks, status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}

	next.Tasks = append(next.Tasks, task)
	ordering.Normalize(next.Tasks)

	if err := b.commit(ctx, "create", next); err != nil {
		return models.Task{}, err
	}

	b.log.WithFields(log.Fields{"task_id": task.ID, "status": task.Status}).Debug("task created")
	return b.state.Tasks[len(b.state.Tasks)-1].Clone(), nil
}

// Update applies a partial edit. Changing status appends the task to the
// end of the destination column.
func (b *Board) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	b.mu.Lock()
	task, events, err := b.update(ctx, id, patch)
	b.mu.Unlock()

	b.metrics.ObserveMutation("update", err)
	b.publish(events...)
	return task, err
}

func (b *Board) update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, []Event, error) {
	next := b.clone()
	i := b.indexOf(next.Tasks, id)
	if i < 0 {
		return models.Task{}, []Event{noticeEvent(Notice{
			Kind:    NoticeTaskNotFound,
			Message: "Task no longer exists.",
			TaskID:  id,
		})}, ErrTaskNotFound
	}

	task := next.Tasks[i]
	previous := task.Status

	if patch.Title != nil {
		title, err := models.CleanTitle(*patch.Title)
		if err != nil {
			return models.Task{}, nil, err
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return models.Task{}, nil, &models.ValidationError{Field: "priority", Err: models.ErrInvalidPriority}
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		due, err := models.CleanDueDate(*patch.DueDate)
		if err != nil {
			return models.Task{}, nil, err
		}
		task.DueDate = due
	}
	if patch.Tags != nil {
		task.Tags = models.NormalizeTags(patch.Tags...)
	}
	if patch.Subtasks != nil {
		task.Subtasks = b.subtasks(patch.Subtasks)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return models.Task{}, nil, &models.ValidationError{Field: "status", Err: models.ErrInvalidStatus}
		}
		task.Status = *patch.Status
	}

	if task.Status != previous {
		task.Order = ordering.NextOrder(next.Tasks, task.Status)
	}
	task.UpdatedAt = b.now()

	if err := task.Validate(); err != nil {
		return models.Task{}, nil, err
	}

	next.Tasks[i] = task
	ordering.Normalize(next.Tasks)

	if err := b.commit(ctx, "update", next); err != nil {
		return models.Task{}, nil, err
	}

	b.log.WithFields(log.Fields{"task_id": id, "status": task.Status}).Debug("task updated")
	return b.state.Tasks[i].Clone(), []Event{changed()}, nil
}

// Delete removes a task. Deleting an unknown id succeeds without writing.
func (b *Board) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	removed, err := b.delete(ctx, id)
	b.mu.Unlock()

	b.metrics.ObserveMutation("delete", err)
	if err != nil {
		return err
	}
	if removed {
		b.publish(changed())
	}
	return nil
}

func (b *Board) delete(ctx context.Context, id string) (bool, error) {
	next := b.clone()
	i := b.indexOf(next.Tasks, id)
	if i < 0 {
		return false, nil
	}

	next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
	ordering.Normalize(next.Tasks)

	if err := b.commit(ctx, "delete", next); err != nil {
		return false, err
	}

	b.log.WithField("task_id", id).Debug("task deleted")
	return true, nil
}

// MoveStep moves a task one column forward or backward, appending it to the
// end of the destination. At an end column nothing changes, moved is false
// and a move-blocked notice is published.
func (b *Board) MoveStep(ctx context.Context, id string, dir Direction) (task models.Task, moved bool, err error) {
	b.mu.Lock()
	task, moved, events, err := b.moveStep(ctx, id, dir)
	b.mu.Unlock()

	b.metrics.ObserveMutation("move", err)
	b.publish(events...)
	return task, moved, err
}

func (b *Board) moveStep(ctx context.Context, id string, dir Direction) (models.Task, bool, []Event, error) {
	delta, err := dir.delta()
	if err != nil {
		return models.Task{}, false, nil, err
	}

	next := b.clone()
	i := b.indexOf(next.Tasks, id)
	if i < 0 {
		return models.Task{}, false, []Event{noticeEvent(Notice{
			Kind:    NoticeTaskNotFound,
			Message: "Task no longer exists.",
			TaskID:  id,
		})}, ErrTaskNotFound
	}

	task := next.Tasks[i]
	status, ok := task.Status.Step(delta)
	if !ok {
		return task, false, []Event{noticeEvent(Notice{
			Kind:    NoticeMoveBlocked,
			Message: "Task cannot move further.",
			TaskID:  id,
		})}, nil
	}

	task.Order = ordering.NextOrder(next.Tasks, status)
	task.Status = status
	task.UpdatedAt = b.now()
	next.Tasks[i] = task
	ordering.Normalize(next.Tasks)

	if err := b.commit(ctx, "move", next); err != nil {
		return models.Task{}, false, nil, err
	}

	b.log.WithFields(log.Fields{"task_id": id, "status": status}).Debug("task moved")
	return b.state.Tasks[i].Clone(), true, []Event{changed()}, nil
}

// ApplyDragResult takes the final card sequence of each reported column
// after a drag gesture. Listed tasks take their column and position from
// the report; see ordering.ApplyColumnSequences for the details.
func (b *Board) ApplyDragResult(ctx context.Context, columns map[models.Status][]string) error {
	b.mu.Lock()
	err := b.applyDragResult(ctx, columns)
	b.mu.Unlock()

	b.metrics.ObserveMutation("drag", err)
	if err != nil {
		return err
	}
	b.publish(changed())
	return nil
}

func (b *Board) applyDragResult(ctx context.Context, columns map[models.Status][]string) error {
	for status := range columns {
		if !status.Valid() {
			return &models.ValidationError{Field: "columns", Err: models.ErrInvalidStatus}
		}
	}

	next := b.clone()
	ordering.ApplyColumnSequences(next.Tasks, columns)

	now := b.now()
	for i := range next.Tasks {
		before := b.state.Tasks[i]
		if next.Tasks[i].Status != before.Status || next.Tasks[i].Order != before.Order {
			next.Tasks[i].UpdatedAt = now
		}
	}

	if err := b.commit(ctx, "drag", next); err != nil {
		return err
	}

	b.log.WithField("columns", len(columns)).Debug("drag result applied")
	return nil
}

func (b *Board) subtasks(drafts []models.SubtaskDraft) []models.Subtask {
	out := make([]models.Subtask, 0, len(drafts))
	for _, d := range drafts {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		id := strings.TrimSpace(d.ID)
		if id == "" {
			id = b.newID("subtask")
		}
		out = append(out, models.Subtask{ID: id, Text: text, Done: d.Done})
	}
	return out
}
