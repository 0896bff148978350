// Package uploadstate holds the uploaded files of a session, the faces
// detected in them and the names the user gave those faces.
package uploadstate

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/kozaktomas/photo-faces/internal/objecturl"
)

var (
	// ErrDuplicateLabel is returned when a face collection repeats a label.
	ErrDuplicateLabel = errors.New("duplicate face label")
	// ErrFileNotFound is returned when no file owns the given handle.
	ErrFileNotFound = errors.New("file not found")
	// ErrClosed is returned by AddFiles after Close.
	ErrClosed = errors.New("upload state is closed")
)

// Handles issues and releases reference handles for blobs.
type Handles interface {
	Create(b objecturl.Blob) (string, error)
	Revoke(url string) bool
}

// Store is the upload state of one session. All methods are safe for
// concurrent use; a single mutex guards files and faces together.
type Store struct {
	handles Handles

	mu     sync.Mutex
	files  []UploadedFile
	faces  []FaceRecord
	closed bool
}

// New creates an empty store that owns every handle it creates in h.
func New(h Handles) *Store {
	return &Store{handles: h}
}

// AddFiles appends one entry per blob, in order. If a handle cannot be
// created, or the store is closed, the handles made by this call are
// revoked and nothing is added.
func (s *Store) AddFiles(blobs []objecturl.Blob) ([]UploadedFile, error) {
	added := make([]UploadedFile, 0, len(blobs))
	for _, b := range blobs {
		url, err := s.handles.Create(b)
		if err != nil {
			s.revokeAll(added)
			return nil, fmt.Errorf("creating handle for %s: %w", b.Name, err)
		}
		added = append(added, UploadedFile{
			File:   b,
			URL:    url,
			Name:   b.Name,
			Size:   b.Size(),
			People: []string{},
		})
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.revokeAll(added)
		return nil, ErrClosed
	}
	s.files = append(s.files, added...)
	s.mu.Unlock()

	out := make([]UploadedFile, len(added))
	for i, f := range added {
		out[i] = f.clone()
	}
	return out, nil
}

func (s *Store) revokeAll(files []UploadedFile) {
	for _, f := range files {
		s.handles.Revoke(f.URL)
	}
}

// ClearFiles revokes every file handle and then empties the collection.
// It returns the number of files removed.
func (s *Store) ClearFiles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokeAll(s.files)
	n := len(s.files)
	s.files = nil
	return n
}

// UpdateFaceLabels sets every face name from nameMap, replacing previous
// names, and re-resolves the people of every file. Labels without a
// non-empty name resolve to Unknown.
func (s *Store) UpdateFaceLabels(nameMap map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[string]string, len(s.faces))
	for i := range s.faces {
		s.faces[i].Name = nameMap[s.faces[i].Label]
		if s.faces[i].Name != "" {
			names[s.faces[i].Label] = s.faces[i].Name
		}
	}
	for i := range s.files {
		s.files[i].People = resolve(s.files[i].labels, names)
	}
}

// resolve maps raw labels to display names.
func resolve(labels []string, names map[string]string) []string {
	people := make([]string, len(labels))
	for i, l := range labels {
		if n, ok := names[l]; ok {
			people[i] = n
		} else {
			people[i] = Unknown
		}
	}
	return people
}

// SetFaces replaces the face collection. Labels must be unique.
func (s *Store) SetFaces(faces []FaceRecord) error {
	if err := checkLabels(faces); err != nil {
		return err
	}
	s.mu.Lock()
	s.faces = slices.Clone(faces)
	s.mu.Unlock()
	return nil
}

func checkLabels(faces []FaceRecord) error {
	seen := make(map[string]struct{}, len(faces))
	for _, f := range faces {
		if _, ok := seen[f.Label]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateLabel, f.Label)
		}
		seen[f.Label] = struct{}{}
	}
	return nil
}

// AssignPeople stores the raw face labels found in the file owning url and
// returns the updated file. People shows the raw labels until the next
// UpdateFaceLabels.
func (s *Store) AssignPeople(url string, labels []string) (UploadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.files {
		if s.files[i].URL == url {
			s.files[i].labels = slices.Clone(labels)
			s.files[i].People = slices.Clone(labels)
			return s.files[i].clone(), nil
		}
	}
	return UploadedFile{}, fmt.Errorf("%w: %s", ErrFileNotFound, url)
}

// ApplyDetection replaces the faces and assigns per-file labels. The n-th
// result for a filename goes to the n-th file with that name.
func (s *Store) ApplyDetection(d Detection) (DetectionSummary, error) {
	if err := checkLabels(d.PeopleFaces); err != nil {
		return DetectionSummary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.faces = slices.Clone(d.PeopleFaces)
	summary := DetectionSummary{Faces: len(s.faces)}

	used := make(map[string]int)
	for _, r := range d.Result {
		idx := s.nthByName(r.Filename, used[r.Filename])
		if idx < 0 {
			summary.Unmatched = append(summary.Unmatched, r.Filename)
			continue
		}
		used[r.Filename]++
		labels := slices.Clone(r.Individuals)
		if labels == nil {
			labels = []string{}
		}
		s.files[idx].labels = labels
		s.files[idx].People = slices.Clone(labels)
		summary.Matched++
	}
	return summary, nil
}

// nthByName returns the index of the n-th file named name, or -1.
// Caller holds s.mu.
func (s *Store) nthByName(name string, n int) int {
	for i := range s.files {
		if s.files[i].Name != name {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	return -1
}

// Files returns a copy of the file collection in insertion order.
func (s *Store) Files() []UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UploadedFile, len(s.files))
	for i, f := range s.files {
		out[i] = f.clone()
	}
	return out
}

// File returns a copy of the file owning url.
func (s *Store) File(url string) (UploadedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.URL == url {
			return f.clone(), true
		}
	}
	return UploadedFile{}, false
}

// Faces returns a copy of the face collection.
func (s *Store) Faces() []FaceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.faces)
}

// Close tears the store down: all files are cleared and faces dropped.
// Later AddFiles calls fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.revokeAll(s.files)
	s.files = nil
	s.faces = nil
}
