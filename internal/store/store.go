package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fluxline/internal/models"
)

// DefaultKey is the namespace of the durable slot holding the board.
const DefaultKey = "fluxline-kanban-store"

// Gateway reads and writes the board document in a durable key-value slot.
type Gateway interface {
	// Load returns the raw persisted document, or nil if the slot is empty.
	Load(ctx context.Context) ([]byte, error)
	// Save writes the full state, stamped with the current schema version
	// and save time. It returns only after the write is durable.
	Save(ctx context.Context, state models.State) error
}

// Encode renders the persisted document for state.
func Encode(state models.State, savedAt time.Time) ([]byte, error) {
	state.Version = models.SchemaVersion
	state.SavedAt = savedAt.UTC()
	state.Tasks = append([]models.Task{}, state.Tasks...)
	if state.UI.Filters.Tags == nil {
		state.UI.Filters.Tags = []string{}
	}
	for i := range state.Tasks {
		if state.Tasks[i].Tags == nil {
			state.Tasks[i].Tags = []string{}
		}
		if state.Tasks[i].Subtasks == nil {
			state.Tasks[i].Subtasks = []models.Subtask{}
		}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode board: %w", err)
	}
	return data, nil
}
