package handlers

import (
	"net/http"
	"strings"

	"fluxline/internal/board"
	"fluxline/internal/filter"
	"fluxline/internal/models"
)

// BoardView is the board as rendered for a client.
type BoardView struct {
	Theme            models.Theme    `json:"theme"`
	Criteria         filter.Criteria `json:"criteria"`
	HasActiveFilters bool            `json:"hasActiveFilters"`
	Columns          []board.Lane    `json:"columns"`
	Notices          []board.Notice  `json:"notices,omitempty"`
}

func (h *Handlers) view(c filter.Criteria) BoardView {
	return BoardView{
		Theme:            h.board.Theme(),
		Criteria:         c,
		HasActiveFilters: c.HasActive(),
		Columns:          h.board.VisibleTasksByColumn(c),
		Notices:          h.board.TakeStartupNotices(),
	}
}

// GetBoard returns the visible tasks per column. The persisted search and
// filters apply unless the query names its own: search, priority, due and
// tags (repeated or comma-separated).
func (h *Handlers) GetBoard(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.view(c))
}

func (h *Handlers) criteriaFromQuery(r *http.Request) (filter.Criteria, error) {
	q := r.URL.Query()
	if !q.Has("search") && !q.Has("priority") && !q.Has("due") && !q.Has("tags") {
		return h.board.Criteria(), nil
	}

	f := models.Filters{
		Priority: strings.TrimSpace(q.Get("priority")),
		Due:      models.DueFilter(strings.TrimSpace(q.Get("due"))),
		Tags:     q["tags"],
	}
	if err := f.Validate(); err != nil {
		return filter.Criteria{}, err
	}

	return filter.Criteria{
		Search:  strings.ToLower(strings.TrimSpace(q.Get("search"))),
		Filters: f.Normalize(),
	}, nil
}

type reorderRequest struct {
	Columns map[models.Status][]string `json:"columns"`
}

// ReorderBoard applies the column sequences reported after a drag gesture
// and returns the updated board.
func (h *Handlers) ReorderBoard(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Columns) == 0 {
		respondError(w, http.StatusBadRequest, "columns are required")
		return
	}

	if err := h.board.ApplyDragResult(r.Context(), req.Columns); err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.view(h.board.Criteria()))
}
