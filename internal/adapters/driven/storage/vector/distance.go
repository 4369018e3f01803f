// Package vector holds the exact nearest-neighbour search shared by the
// vector index implementations.
package vector

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// DistanceFunc returns a non-negative dissimilarity between two vectors.
type DistanceFunc func(a, b []float32) float64

// ForMetric returns the distance function for a metric.
func ForMetric(metric domain.DistanceMetric) (DistanceFunc, error) {
	switch metric {
	case domain.DistanceL2, "":
		return SquaredL2, nil
	case domain.DistanceCosine:
		return CosineDistance, nil
	default:
		return nil, fmt.Errorf("%w: distance metric %q", domain.ErrUnsupportedType, metric)
	}
}

// SquaredL2 returns the squared Euclidean distance.
// Vectors of different length are infinitely far apart.
func SquaredL2(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return sum
}

// CosineDistance returns 1 - cosine similarity, clamped to [0, 2].
// A zero vector has similarity 0 to everything.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	return math.Min(math.Max(d, 0), 2)
}

// Entry is a stored document and its embedding.
type Entry struct {
	Document  domain.Document
	Embedding []float32
}

// Nearest returns the k entries closest to query, ordered by ascending
// distance with ties broken by ascending id.
func Nearest(query []float32, entries []Entry, k int, distance DistanceFunc) []domain.QueryResult {
	results := make([]domain.QueryResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, domain.QueryResult{
			Document: e.Document,
			Distance: distance(query, e.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}
