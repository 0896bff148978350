// Package handlers provides HTTP handlers for the web API.
// This file contains the face endpoints:
//   - Ingest: detection output (face records and per-file labels)
//   - UpdateNames: user-assigned names for face labels
//   - Cluster: grouping of face embeddings into people
package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-faces/internal/config"
	"github.com/kozaktomas/photo-faces/internal/facecluster"
	"github.com/kozaktomas/photo-faces/internal/names"
	"github.com/kozaktomas/photo-faces/internal/thumbnail"
	"github.com/kozaktomas/photo-faces/internal/uploadstate"
)

// FacesHandler handles face-related endpoints
type FacesHandler struct {
	config *config.Config
	store  *uploadstate.Store
	files  *FilesHandler
	events *EventBroadcaster
}

// NewFacesHandler creates a new faces handler
func NewFacesHandler(cfg *config.Config, store *uploadstate.Store, files *FilesHandler, events *EventBroadcaster) *FacesHandler {
	return &FacesHandler{
		config: cfg,
		store:  store,
		files:  files,
		events: events,
	}
}

// List returns the detected face records.
func (h *FacesHandler) List(w http.ResponseWriter, r *http.Request) {
	faces := h.store.Faces()
	if faces == nil {
		faces = []uploadstate.FaceRecord{}
	}
	respondJSON(w, http.StatusOK, faces)
}

// Ingest replaces the face records and assigns labels to files by filename.
// A body without "result" only replaces the face records.
func (h *FacesHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var d uploadstate.Detection
	if !decodeJSON(w, r, &d) {
		return
	}

	if size := h.config.Faces.ThumbSize; size > 0 {
		for i, f := range d.PeopleFaces {
			if f.Face == "" {
				continue
			}
			face, err := thumbnail.ResizeBase64(f.Face, size)
			if err != nil {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid face image for label %s", f.Label))
				return
			}
			d.PeopleFaces[i].Face = face
		}
	}

	var summary uploadstate.DetectionSummary
	var err error
	if d.Result == nil {
		// faces only; file labels stay as they are
		err = h.store.SetFaces(d.PeopleFaces)
		summary.Faces = len(d.PeopleFaces)
	} else {
		summary, err = h.store.ApplyDetection(d)
	}
	if err != nil {
		if errors.Is(err, uploadstate.ErrDuplicateLabel) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, name := range summary.Unmatched {
		log.Printf("detection result for unknown file %s ignored", sanitizeForLog(name))
	}
	h.events.SendEvent(StoreEvent{Type: EventFacesIngested, Data: summary})
	respondJSON(w, http.StatusOK, summary)
}

// NamesResponse is the state after reconciling names.
type NamesResponse struct {
	Faces []uploadstate.FaceRecord `json:"faces"`
	Files []FileResponse           `json:"files"`
}

// UpdateNames applies a label to name map to faces and files.
func (h *FacesHandler) UpdateNames(w http.ResponseWriter, r *http.Request) {
	var nameMap map[string]string
	if !decodeJSON(w, r, &nameMap) {
		return
	}

	h.store.UpdateFaceLabels(names.NormalizeMap(nameMap))

	faces := h.store.Faces()
	if faces == nil {
		faces = []uploadstate.FaceRecord{}
	}
	resp := NamesResponse{
		Faces: faces,
		Files: h.files.toResponse(h.store.Files()),
	}
	h.events.SendEvent(StoreEvent{Type: EventNamesUpdated, Data: resp})
	respondJSON(w, http.StatusOK, resp)
}

// Cluster groups face embeddings into people.
func (h *FacesHandler) Cluster(w http.ResponseWriter, r *http.Request) {
	var req facecluster.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := facecluster.Cluster(req, h.config.Faces.ClusterThreshold)
	if err != nil {
		if errors.Is(err, facecluster.ErrLengthMismatch) || errors.Is(err, facecluster.ErrDimensionMismatch) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}
