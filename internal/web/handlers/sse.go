package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/kozaktomas/photo-faces/internal/uploadstate"
)

// EventsHandler streams store changes to rendering clients.
type EventsHandler struct {
	store  *uploadstate.Store
	events *EventBroadcaster
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(store *uploadstate.Store, events *EventBroadcaster) *EventsHandler {
	return &EventsHandler{store: store, events: events}
}

// StatusData is the first event of every stream.
type StatusData struct {
	Files int `json:"files"`
	Faces int `json:"faces"`
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	_, _ = io.WriteString(w, "event: "+eventType+"\n")
	_, _ = io.WriteString(w, "data: ")
	_, _ = io.Copy(w, bytes.NewReader(jsonData))
	_, _ = io.WriteString(w, "\n\n")
	flusher.Flush()
}

// Stream sends a status event followed by every store event until the
// client disconnects or the broadcaster is closed.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventCh := h.events.AddListener()
	defer h.events.RemoveListener(eventCh)

	sendSSEEvent(w, flusher, "status", StatusData{
		Files: len(h.store.Files()),
		Faces: len(h.store.Faces()),
	})

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, event.Type, event)
		}
	}
}
