package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"fluxline/internal/board"
	"fluxline/internal/models"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	board *board.Board
	log   *logrus.Entry
}

// New creates a new Handlers instance. A nil logger uses the logrus
// standard logger.
func New(b *board.Board, l *logrus.Logger) *Handlers {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Handlers{
		board: b,
		log:   l.WithField("component", "http"),
	}
}

// Routes registers the board API on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/api/board", h.GetBoard)
	r.Post("/api/board/reorder", h.ReorderBoard)

	r.Post("/api/tasks", h.CreateTask)
	r.Get("/api/tasks/{id}", h.GetTask)
	r.Patch("/api/tasks/{id}", h.UpdateTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	r.Post("/api/tasks/{id}/move", h.MoveTask)

	r.Put("/api/ui/search", h.SetSearch)
	r.Put("/api/ui/filters", h.SetFilters)
	r.Post("/api/ui/clear", h.ClearFilters)
	r.Put("/api/theme", h.SetTheme)
	r.Post("/api/theme/toggle", h.ToggleTheme)

	r.Get("/api/events", h.Events)
}

// parseID extracts the task id from URL parameters.
func parseID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	return id, id != ""
}

// decodeJSON reads a JSON request body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := sonic.ConfigStd.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	sonic.ConfigStd.NewEncoder(w).Encode(v)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorResponse{Error: message})
}

// respondBoardError maps errors returned by the board to a status code.
func (h *Handlers) respondBoardError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Err.Error(), Field: ve.Field})
	case errors.Is(err, board.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, "task not found")
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("internal server error")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
