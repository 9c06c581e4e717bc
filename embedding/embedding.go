package embedding

import (
	"context"
	"math"
)

// Embedder represents an interface for text embedding operations.
// Implementations must return unit-length vectors so that cosine
// similarity reduces to a dot product downstream.
type Embedder interface {
	// EmbedDocuments converts a slice of documents into vector embeddings
	EmbedDocuments(ctx context.Context, documents []string) ([][]float32, error)

	// EmbedQuery converts a single query text into a vector embedding
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Normalize scales a vector to unit length in place. Zero vectors are
// left untouched.
func Normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vector {
		vector[i] *= inv
	}
}
