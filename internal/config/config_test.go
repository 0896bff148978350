package config

import (
	"slices"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.App.CompatibilityDate != "2025-07-15" {
		t.Errorf("expected compatibility date 2025-07-15, got %q", cfg.App.CompatibilityDate)
	}
	if cfg.App.SrcDir != "./" {
		t.Errorf("expected src dir ./, got %q", cfg.App.SrcDir)
	}
	if !slices.Equal(cfg.App.Modules, []string{"upload-state"}) {
		t.Errorf("unexpected modules %v", cfg.App.Modules)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Upload.MaxSize != 100<<20 {
		t.Errorf("expected 100MB upload limit, got %d", cfg.Upload.MaxSize)
	}
	if cfg.Faces.ClusterThreshold != 0.6 || cfg.Faces.ThumbSize != 0 {
		t.Errorf("unexpected face defaults %+v", cfg.Faces)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WEB_HOST", "127.0.0.1")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("BLOB_ORIGIN", "example")
	t.Setenv("WEB_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MAX_UPLOAD_SIZE", "1024")
	t.Setenv("FACE_CLUSTER_THRESHOLD", "0.75")
	t.Setenv("FACE_THUMB_SIZE", "0")

	cfg := Load()

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 || cfg.Server.BlobOrigin != "example" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if !slices.Equal(cfg.Server.AllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("unexpected allowed origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Upload.MaxSize != 1024 {
		t.Errorf("expected max size 1024, got %d", cfg.Upload.MaxSize)
	}
	if cfg.Faces.ClusterThreshold != 0.75 {
		t.Errorf("expected threshold 0.75, got %v", cfg.Faces.ClusterThreshold)
	}
	if cfg.Faces.ThumbSize != 0 {
		t.Errorf("expected thumbnails disabled, got %d", cfg.Faces.ThumbSize)
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"WEB_PORT", "not-a-number"},
		{"WEB_PORT", "-1"},
		{"FACE_CLUSTER_THRESHOLD", "1.5"},
		{"FACE_CLUSTER_THRESHOLD", "0"},
		{"FACE_THUMB_SIZE", "abc"},
	}

	defaults := Defaults()
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := Load()
			if cfg.Server.Port != defaults.Server.Port {
				t.Errorf("expected default port, got %d", cfg.Server.Port)
			}
			if cfg.Faces.ClusterThreshold != defaults.Faces.ClusterThreshold {
				t.Errorf("expected default threshold, got %v", cfg.Faces.ClusterThreshold)
			}
			if cfg.Faces.ThumbSize != defaults.Faces.ThumbSize {
				t.Errorf("expected default thumb size, got %d", cfg.Faces.ThumbSize)
			}
		})
	}
}
