package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/kozaktomas/photo-faces/internal/config"
	"github.com/kozaktomas/photo-faces/internal/constants"
	"github.com/kozaktomas/photo-faces/internal/objecturl"
	"github.com/kozaktomas/photo-faces/internal/uploadstate"
)

// FilesHandler handles the uploaded file collection.
type FilesHandler struct {
	config *config.Config
	store  *uploadstate.Store
	urls   *objecturl.Registry
	events *EventBroadcaster
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(cfg *config.Config, store *uploadstate.Store, urls *objecturl.Registry, events *EventBroadcaster) *FilesHandler {
	return &FilesHandler{
		config: cfg,
		store:  store,
		urls:   urls,
		events: events,
	}
}

// FileResponse is an uploaded file as seen by a renderer.
type FileResponse struct {
	URL    string   `json:"url"`
	Href   string   `json:"href"` // HTTP path serving the bytes behind URL
	Name   string   `json:"name"`
	Size   int      `json:"size"`
	Type   string   `json:"type"`
	People []string `json:"people"`
	Labels []string `json:"labels"` // raw face labels behind People
}

func (h *FilesHandler) toResponse(files []uploadstate.UploadedFile) []FileResponse {
	out := make([]FileResponse, len(files))
	for i, f := range files {
		out[i] = FileResponse{
			URL:    f.URL,
			Href:   "/blob/" + h.urls.ID(f.URL),
			Name:   f.Name,
			Size:   f.Size,
			Type:   f.File.ContentType,
			People: f.People,
			Labels: f.Labels(),
		}
	}
	return out
}

// readUploadedFiles reads multipart files into blobs, keeping their order.
func readUploadedFiles(files []*multipart.FileHeader) ([]objecturl.Blob, error) {
	blobs := make([]objecturl.Blob, 0, len(files))
	for _, fileHeader := range files {
		if err := func() error {
			file, err := fileHeader.Open()
			if err != nil {
				return fmt.Errorf("failed to open file: %s", fileHeader.Filename)
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				return fmt.Errorf("failed to read file: %s", fileHeader.Filename)
			}
			if data == nil {
				data = []byte{}
			}

			contentType := fileHeader.Header.Get("Content-Type")
			if contentType == "" || contentType == "application/octet-stream" {
				contentType = http.DetectContentType(data)
			}
			blobs = append(blobs, objecturl.Blob{
				Name:        fileHeader.Filename,
				ContentType: contentType,
				Data:        data,
			})
			return nil
		}(); err != nil {
			return nil, err
		}
	}
	return blobs, nil
}

// List returns all uploaded files in upload order.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.toResponse(h.store.Files()))
}

// Upload handles multipart file uploads.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.config.Upload.MaxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.Upload.MaxSize)
	}
	if err := r.ParseMultipartForm(constants.MultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File[constants.UploadFormField]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	blobs, err := readUploadedFiles(files)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	added, err := h.store.AddFiles(blobs)
	if err != nil {
		if errors.Is(err, objecturl.ErrClosed) || errors.Is(err, uploadstate.ErrClosed) {
			respondError(w, http.StatusServiceUnavailable, "server is shutting down")
			return
		}
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to add files: %v", err))
		return
	}

	log.Printf("added %d file(s)", len(added))
	resp := h.toResponse(added)
	h.events.SendEvent(StoreEvent{Type: EventFilesAdded, Data: resp})

	respondJSON(w, http.StatusOK, map[string]any{
		"uploaded": len(added),
		"files":    resp,
	})
}

// Clear revokes every file handle and empties the collection.
func (h *FilesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cleared := h.store.ClearFiles()

	log.Printf("cleared %d file(s)", cleared)
	h.events.SendEvent(StoreEvent{Type: EventFilesCleared, Data: map[string]int{"cleared": cleared}})

	respondJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

// AssignPeopleRequest sets the raw face labels of one file.
type AssignPeopleRequest struct {
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

// AssignPeople stores the face labels found in one file.
func (h *FilesHandler) AssignPeople(w http.ResponseWriter, r *http.Request) {
	var req AssignPeopleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.Labels == nil {
		req.Labels = []string{}
	}

	if !h.urls.Valid(req.URL) {
		respondError(w, http.StatusNotFound, "object url is not live")
		return
	}

	f, err := h.store.AssignPeople(req.URL, req.Labels)
	if err != nil {
		if errors.Is(err, uploadstate.ErrFileNotFound) {
			respondError(w, http.StatusNotFound, "file not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := h.toResponse([]uploadstate.UploadedFile{f})[0]
	h.events.SendEvent(StoreEvent{Type: EventPeopleUpdated, Data: resp})
	respondJSON(w, http.StatusOK, resp)
}
