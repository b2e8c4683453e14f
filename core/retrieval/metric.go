package retrieval

import (
	"math"

	"gonum.org/v1/gonum/blas/gonum"
)

// MetricFunc scores the similarity of two embeddings. Higher is more
// similar. Implementations must be symmetric.
type MetricFunc func(a []float32, b []float32) float64

var blasImpl gonum.Implementation

// CosineSimilarity returns the cosine of the angle between a and b in
// [-1, 1]. Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a []float32, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	dot := blasImpl.Sdot(len(a), a, 1, b, 1)
	normA := blasImpl.Snrm2(len(a), a, 1)
	normB := blasImpl.Snrm2(len(b), b, 1)
	if normA == 0 || normB == 0 {
		return 0
	}
	return float64(dot / (normA * normB))
}

// DotProduct returns the plain dot product of a and b. Mismatched
// lengths score 0.
func DotProduct(a []float32, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	return float64(blasImpl.Sdot(len(a), a, 1, b, 1))
}

// EuclideanSimilarity returns the negated euclidean distance between a
// and b, so that closer vectors score higher. Mismatched lengths score
// negative infinity.
func EuclideanSimilarity(a []float32, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(-1)
	}
	sum := 0.0
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return -math.Sqrt(sum)
}
