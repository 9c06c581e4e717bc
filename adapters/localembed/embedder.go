// Package localembed is an offline embedder built on feature hashing.
// It captures lexical overlap only, no semantics, but needs no model
// or network and keeps tests and air-gapped setups running.
package localembed

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/visualdoc/ragservice/embedding"
)

// DefaultDimensions is the vector width when none is configured.
const DefaultDimensions = 512

type Embedder struct {
	dimensions int
}

// New creates a feature hashing embedder.
func New(opts ...embedding.Option) *Embedder {
	options := &embedding.EmbeddingOptions{Dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(options)
	}
	if options.Dimensions <= 0 {
		options.Dimensions = DefaultDimensions
	}
	return &Embedder{dimensions: options.Dimensions}
}

// EmbedDocuments implements the Embedder interface
func (e *Embedder) EmbedDocuments(ctx context.Context, documents []string) ([][]float32, error) {
	if len(documents) == 0 {
		return nil, embedding.ErrEmptyInput("EmbedDocuments")
	}

	vectors := make([][]float32, len(documents))
	for i, doc := range documents {
		vectors[i] = e.embed(doc)
	}
	return vectors, nil
}

// EmbedQuery implements the Embedder interface
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embedding.ErrEmptyInput("EmbedQuery")
	}
	return e.embed(text), nil
}

// embed hashes lowercased word unigrams and bigrams into a fixed
// width vector and normalizes it to unit length.
func (e *Embedder) embed(text string) []float32 {
	vector := make([]float32, e.dimensions)

	words := strings.Fields(strings.ToLower(text))
	for i, word := range words {
		vector[e.bucket(word)]++
		if i+1 < len(words) {
			vector[e.bucket(word+" "+words[i+1])]++
		}
	}

	embedding.Normalize(vector)
	return vector
}

func (e *Embedder) bucket(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(e.dimensions))
}
