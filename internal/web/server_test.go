package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/photo-faces/internal/config"
	"github.com/kozaktomas/photo-faces/internal/objecturl"
	"github.com/kozaktomas/photo-faces/internal/uploadstate"
)

func newTestServer(t *testing.T) (*Server, *objecturl.Registry) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Faces.ThumbSize = 0
	urls := objecturl.NewRegistry("test")
	return NewServer(cfg, uploadstate.New(urls), urls), urls
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	s.Router().ServeHTTP(recorder, req)
	return recorder
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)
	recorder := doRequest(t, s, httptest.NewRequest("GET", "/api/v1/health", nil))
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", recorder.Code)
	}
}

func TestServer_UploadServeClear(t *testing.T) {
	s, urls := newTestServer(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("files", "a.png")
	part.Write([]byte("image bytes"))
	writer.Close()
	req := httptest.NewRequest("POST", "/api/v1/files", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	recorder := doRequest(t, s, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var uploaded struct {
		Files []struct {
			URL  string `json:"url"`
			Href string `json:"href"`
		} `json:"files"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(uploaded.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(uploaded.Files))
	}
	href := uploaded.Files[0].Href

	recorder = doRequest(t, s, httptest.NewRequest("GET", href, nil))
	if recorder.Code != http.StatusOK || recorder.Body.String() != "image bytes" {
		t.Errorf("expected blob bytes, got %d %q", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, s, httptest.NewRequest("DELETE", "/api/v1/files", nil))
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 on clear, got %d", recorder.Code)
	}
	if urls.Valid(uploaded.Files[0].URL) {
		t.Error("expected handle to be revoked after clear")
	}

	recorder = doRequest(t, s, httptest.NewRequest("GET", href, nil))
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404 for revoked blob, got %d", recorder.Code)
	}
}

func TestServer_NamesRoute(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("PUT", "/api/v1/faces/names", strings.NewReader(`{"p1":"Alice"}`))
	recorder := doRequest(t, s, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	recorder := doRequest(t, s, httptest.NewRequest("GET", "/api/v1/albums", nil))
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", recorder.Code)
	}
}
