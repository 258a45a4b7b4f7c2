package handlers

import (
	"net/http"

	"fluxline/internal/models"
)

type searchRequest struct {
	Search string `json:"search"`
}

// SetSearch stores the free-text search.
func (h *Handlers) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.board.SetSearch(r.Context(), req.Search); err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.board.Criteria())
}

// SetFilters stores the priority, due and tag filters.
func (h *Handlers) SetFilters(w http.ResponseWriter, r *http.Request) {
	var f models.Filters
	if err := decodeJSON(w, r, &f); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.board.SetFilters(r.Context(), f); err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.board.Criteria())
}

// ClearFilters resets search and filters.
func (h *Handlers) ClearFilters(w http.ResponseWriter, r *http.Request) {
	if err := h.board.ClearFilters(r.Context()); err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.board.Criteria())
}

type themeResponse struct {
	Theme models.Theme `json:"theme"`
}

// SetTheme stores the theme preference.
func (h *Handlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeResponse
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.board.SetTheme(r.Context(), req.Theme); err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, themeResponse{Theme: h.board.Theme()})
}

// ToggleTheme flips between light and dark.
func (h *Handlers) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.board.ToggleTheme(r.Context())
	if err != nil {
		h.respondBoardError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, themeResponse{Theme: theme})
}
