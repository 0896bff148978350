package uploadstate

import (
	"slices"

	"github.com/kozaktomas/photo-faces/internal/objecturl"
)

// Unknown is the display value for a face label that has no name.
const Unknown = "Unknown"

// UploadedFile is one uploaded blob together with its reference handle.
type UploadedFile struct {
	File   objecturl.Blob `json:"-"`
	URL    string         `json:"url"`
	Name   string         `json:"name"`
	Size   int            `json:"size"`
	People []string       `json:"people"`

	// labels holds the raw face labels; People is derived from them.
	labels []string
}

// Labels returns the raw face labels associated with the file.
func (f UploadedFile) Labels() []string {
	return slices.Clone(f.labels)
}

func (f UploadedFile) clone() UploadedFile {
	f.People = slices.Clone(f.People)
	f.labels = slices.Clone(f.labels)
	return f
}

// FaceRecord is a detected face cluster.
type FaceRecord struct {
	Label string `json:"label"`
	Face  string `json:"face"`           // encoded still image, opaque to the store
	Name  string `json:"name,omitempty"` // empty until a name is assigned
}

// FileResult lists the face labels found in one uploaded file.
type FileResult struct {
	Filename    string   `json:"filename"`
	Individuals []string `json:"individuals"`
}

// Detection is the output of the face detection collaborator.
type Detection struct {
	Result      []FileResult `json:"result"`
	PeopleFaces []FaceRecord `json:"people_faces"`
}

// DetectionSummary reports how a Detection was applied.
type DetectionSummary struct {
	Faces     int      `json:"faces"`
	Matched   int      `json:"matched"`
	Unmatched []string `json:"unmatched,omitempty"`
}
