package handlers

import (
	"bytes"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/photo-faces/internal/objecturl"
)

// BlobHandler serves the bytes behind live object URLs.
type BlobHandler struct {
	urls *objecturl.Registry
}

// NewBlobHandler creates a new blob handler.
func NewBlobHandler(urls *objecturl.Registry) *BlobHandler {
	return &BlobHandler{urls: urls}
}

// inlineType reports whether a content type may be rendered in place.
// Only raster images qualify; SVG can carry script.
func inlineType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/") && mediaType != "image/svg+xml"
}

// Serve writes the blob addressed by the {id} URL parameter.
// Revoked handles answer 404. Anything other than a raster image is sent
// as an opaque download.
func (h *BlobHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing blob id")
		return
	}

	b, ok := h.urls.LookupID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "blob not found")
		return
	}

	if inlineType(b.ContentType) {
		w.Header().Set("Content-Type", b.ContentType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition",
			mime.FormatMediaType("attachment", map[string]string{"filename": b.Name}))
	}
	w.Header().Set("Content-Security-Policy", "sandbox; default-src 'none'")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, b.Name, time.Time{}, bytes.NewReader(b.Data))
}
