package handlers

import (
	"net/http"

	"fluxline/internal/board"
	"fluxline/internal/models"
)

// GetTask returns one task.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.board.Task(id)
	if err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// CreateTask creates a new task at the end of its column.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var draft models.TaskDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.board.Create(r.Context(), draft)
	if err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask applies a partial edit to a task.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var patch models.TaskPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.board.Update(r.Context(), id, patch)
	if err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task. Unknown ids succeed.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.board.Delete(r.Context(), id); err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	Direction board.Direction `json:"direction"`
}

type moveResponse struct {
	Task  models.Task `json:"task"`
	Moved bool        `json:"moved"`
}

// MoveTask moves a task one column forward or backward.
func (h *Handlers) MoveTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	task, moved, err := h.board.MoveStep(r.Context(), id, req.Direction)
	if err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, moveResponse{Task: task, Moved: moved})
}
