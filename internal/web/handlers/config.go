package handlers

import (
	"net/http"

	"github.com/kozaktomas/photo-faces/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	App              config.AppConfig `json:"app"`
	MaxUploadSize    int64            `json:"max_upload_size"`
	ClusterThreshold float64          `json:"cluster_threshold"`
	FaceThumbSize    int              `json:"face_thumb_size"`
}

// Get returns the public configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		App:              h.config.App,
		MaxUploadSize:    h.config.Upload.MaxSize,
		ClusterThreshold: h.config.Faces.ClusterThreshold,
		FaceThumbSize:    h.config.Faces.ThumbSize,
	})
}
