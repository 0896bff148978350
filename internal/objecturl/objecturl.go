// Package objecturl is a process-local table of revocable blob handles.
// A handle lets a renderer address uploaded bytes without re-reading them;
// whoever creates a handle owns it and must revoke it.
package objecturl

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultOrigin is used when a registry is created without an origin.
const DefaultOrigin = "photo-faces"

var (
	// ErrInvalidBlob is returned when a blob has no readable content.
	ErrInvalidBlob = errors.New("invalid blob: no content")
	// ErrClosed is returned by Create after the registry has been closed.
	ErrClosed = errors.New("object url registry is closed")
)

// Blob is an uploaded file as handed over by the upload collaborator.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the content length in bytes.
func (b Blob) Size() int {
	return len(b.Data)
}

// Registry maps live handles to their blobs.
type Registry struct {
	origin  string
	mu      sync.RWMutex
	entries map[string]Blob
	closed  bool
}

// NewRegistry creates a registry issuing handles of the form blob:<origin>/<uuid>.
func NewRegistry(origin string) *Registry {
	if origin == "" {
		origin = DefaultOrigin
	}
	return &Registry{
		origin:  origin,
		entries: make(map[string]Blob),
	}
}

// Create allocates a fresh handle for the blob.
func (r *Registry) Create(b Blob) (string, error) {
	if b.Data == nil {
		return "", ErrInvalidBlob
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", ErrClosed
	}
	url := "blob:" + r.origin + "/" + uuid.New().String()
	r.entries[url] = b
	return url, nil
}

// Revoke releases a handle. It reports whether the handle was live,
// so a second revoke of the same handle returns false.
func (r *Registry) Revoke(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[url]; !ok {
		return false
	}
	delete(r.entries, url)
	return true
}

// Valid reports whether the handle is live.
func (r *Registry) Valid(url string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[url]
	return ok
}

// Lookup returns the blob behind a live handle.
func (r *Registry) Lookup(url string) (Blob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.entries[url]
	return b, ok
}

// LookupID resolves the id part of a handle (the segment after the origin).
func (r *Registry) LookupID(id string) (Blob, bool) {
	return r.Lookup(r.URLForID(id))
}

// URLForID builds the full handle for an id issued by this registry.
func (r *Registry) URLForID(id string) string {
	return "blob:" + r.origin + "/" + id
}

// ID returns the id part of a handle, or "" if the handle was not issued by
// this registry's origin.
func (r *Registry) ID(url string) string {
	prefix := "blob:" + r.origin + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close revokes every live handle and rejects further Create calls.
// It returns the number of handles revoked.
func (r *Registry) Close() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entries)
	clear(r.entries)
	r.closed = true
	return n
}
