package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	App    AppConfig    `yaml:"app"`
	Server ServerConfig `yaml:"server"`
	Upload UploadConfig `yaml:"upload"`
	Faces  FacesConfig  `yaml:"faces"`
}

// AppConfig is the bootstrap block exposed to the front end.
type AppConfig struct {
	CompatibilityDate string   `yaml:"compatibility_date" json:"compatibility_date"`
	SrcDir            string   `yaml:"src_dir" json:"src_dir"`
	Modules           []string `yaml:"modules" json:"modules"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	BlobOrigin     string   `yaml:"blob_origin"`     // origin part of issued blob handles
	AllowedOrigins []string `yaml:"allowed_origins"` // extra CORS origins, localhost is always allowed
}

type UploadConfig struct {
	MaxSize int64 `yaml:"max_size"` // bytes accepted per multipart request
}

type FacesConfig struct {
	ClusterThreshold float64 `yaml:"cluster_threshold"` // minimum cosine similarity to join a person
	ThumbSize        int     `yaml:"thumb_size"`        // 0 keeps face images as submitted
}

// envInt reads an environment variable and parses it as a non-negative integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a float in (0, 1].
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f <= 1 {
		return f
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma-separated environment variable.
func envList(key string, defaultVal []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Defaults returns the embedded defaults without environment overrides.
func Defaults() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return &cfg
}

func Load() *Config {
	cfg := Defaults()

	cfg.Server.Host = envString("WEB_HOST", cfg.Server.Host)
	cfg.Server.Port = envInt("WEB_PORT", cfg.Server.Port)
	cfg.Server.BlobOrigin = envString("BLOB_ORIGIN", cfg.Server.BlobOrigin)
	cfg.Server.AllowedOrigins = envList("WEB_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Upload.MaxSize = int64(envInt("MAX_UPLOAD_SIZE", int(cfg.Upload.MaxSize)))
	cfg.Faces.ClusterThreshold = envFloat("FACE_CLUSTER_THRESHOLD", cfg.Faces.ClusterThreshold)
	cfg.Faces.ThumbSize = envInt("FACE_THUMB_SIZE", cfg.Faces.ThumbSize)

	return cfg
}
