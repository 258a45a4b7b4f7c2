package handlers

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"fluxline/internal/board"
)

// eventBuffer is how many events a slow client may fall behind before
// further events are dropped for it.
const eventBuffer = 16

// Events streams board events as server-sent events until the client
// disconnects.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "stream unsupported")
		return
	}

	ch := make(chan board.Event, eventBuffer)
	unsubscribe := h.board.Subscribe(func(ev board.Event) {
		select {
		case ch <- ev:
		default:
			h.log.WithField("kind", ev.Kind).Warn("dropping event for slow stream client")
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			data, err := sonic.ConfigStd.Marshal(ev)
			if err != nil {
				h.log.WithError(err).Error("failed to encode event")
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
