package catalog

import (
	"errors"
	"fmt"
	"math"

	"rfp_automation/internal/domain/entities"
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// SimilarityFunc scores two vectors into [0,1], higher meaning closer.
type SimilarityFunc func(a, b []float64) (float64, error)

// CosineSimilarity is cosine similarity normalized with (cos+1)/2.
// A zero vector has no direction and scores the neutral 0.5.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0.5, nil
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	switch {
	case cos > 1:
		cos = 1
	case cos < -1:
		cos = -1
	}
	return (cos + 1) / 2, nil
}

// DefaultSpecWeight is the share of the final score taken by attribute
// closeness when the query states explicit specifications.
const DefaultSpecWeight = 0.8

// Scorer turns the vector similarity of an entry and the specifications the
// query states into the entry's final score in [0,1].
type Scorer func(similarity float64, want, have entities.Specs) float64

// VectorOnly ranks by vector similarity alone.
func VectorOnly(similarity float64, _, _ entities.Specs) float64 {
	return similarity
}

// SpecWeighted blends vector similarity with the mean closeness of the stated
// attributes. Queries without stated attributes keep the plain similarity.
func SpecWeighted(weight float64) Scorer {
	switch {
	case weight <= 0:
		return VectorOnly
	case weight > 1:
		weight = 1
	}
	return func(similarity float64, want, have entities.Specs) float64 {
		if len(want) == 0 {
			return similarity
		}
		_, closeness := entities.CompareSpecs(want, have)
		return (1-weight)*similarity + weight*closeness
	}
}
