// Package facecluster groups face embeddings into people.
//
// Assignment is greedy: each embedding is compared with the first embedding
// of every existing cluster and joins the most similar one if the cosine
// similarity exceeds the threshold. Otherwise it starts a new cluster
// labelled "Person N".
package facecluster

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// DefaultThreshold is the minimum cosine similarity to join a cluster.
const DefaultThreshold = 0.6

var (
	// ErrLengthMismatch is returned when vectors and file names differ in length.
	ErrLengthMismatch = errors.New("mismatch between number of vectors and filenames")
	// ErrDimensionMismatch is returned when embeddings have different dimensions.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Request is the clustering input.
type Request struct {
	Vectors   [][]float64 `json:"vectors"`
	FileNames []string    `json:"fileNames"`
}

// Result maps each file to the people found in it.
type Result struct {
	Clustered map[string][]string `json:"clustered"`
	People    []string            `json:"people"`
}

// CosineSimilarity returns the cosine similarity of two equal-length vectors.
// Zero vectors have similarity 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// Assigner assigns embeddings to clusters one at a time.
type Assigner struct {
	threshold       float64
	representatives [][]float64
	labels          []string
}

// NewAssigner creates an assigner. A non-positive threshold selects DefaultThreshold.
func NewAssigner(threshold float64) *Assigner {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Assigner{threshold: threshold}
}

// Assign returns the label for the embedding, creating a new cluster if
// no existing one is similar enough.
func (a *Assigner) Assign(embedding []float64) (string, error) {
	if len(a.representatives) > 0 && len(embedding) != len(a.representatives[0]) {
		return "", fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(embedding), len(a.representatives[0]))
	}

	best, bestSim := -1, 0.0
	for i, rep := range a.representatives {
		if sim := CosineSimilarity(embedding, rep); best < 0 || sim > bestSim {
			best, bestSim = i, sim
		}
	}
	if best >= 0 && bestSim > a.threshold {
		return a.labels[best], nil
	}

	label := fmt.Sprintf("Person %d", len(a.labels)+1)
	a.representatives = append(a.representatives, slices.Clone(embedding))
	a.labels = append(a.labels, label)
	return label, nil
}

// Labels returns the cluster labels in creation order.
func (a *Assigner) Labels() []string {
	return slices.Clone(a.labels)
}

// Cluster assigns every vector to a person and groups the labels by file.
func Cluster(req Request, threshold float64) (*Result, error) {
	if len(req.Vectors) != len(req.FileNames) {
		return nil, ErrLengthMismatch
	}

	a := NewAssigner(threshold)
	res := &Result{Clustered: make(map[string][]string)}
	for i, vec := range req.Vectors {
		label, err := a.Assign(vec)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		name := req.FileNames[i]
		if !slices.Contains(res.Clustered[name], label) {
			res.Clustered[name] = append(res.Clustered[name], label)
		}
	}
	res.People = a.Labels()
	if res.People == nil {
		res.People = []string{}
	}
	return res, nil
}
