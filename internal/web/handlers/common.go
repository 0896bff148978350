package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kozaktomas/photo-faces/internal/objecturl"
	"github.com/kozaktomas/photo-faces/internal/uploadstate"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into target, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return false
	}
	return true
}

// HealthResponse reports liveness and the size of the upload state.
type HealthResponse struct {
	Status  string `json:"status"`
	Files   int    `json:"files"`
	Handles int    `json:"handles"` // live object URLs
}

// HealthCheck returns the health check handler.
func HealthCheck(store *uploadstate.Store, urls *objecturl.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Files:   len(store.Files()),
			Handles: urls.Len(),
		})
	}
}
