package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/visualdoc/ragservice/embedding"
)

type Embedder struct {
	client  *openai.Client
	options *embedding.EmbeddingOptions
}

// DefaultOptions returns the default options for OpenAI embeddings
func DefaultOptions() *embedding.EmbeddingOptions {
	return &embedding.EmbeddingOptions{
		Model:     string(openai.SmallEmbedding3),
		BatchSize: 100,
	}
}

// NewEmbedder creates a new embedder with the given API key and options
func NewEmbedder(apiKey string, opts ...embedding.Option) *Embedder {
	return NewEmbedderWithBaseURL(apiKey, "", opts...)
}

// NewEmbedderWithBaseURL creates an embedder against an OpenAI
// compatible endpoint.
func NewEmbedderWithBaseURL(apiKey, baseURL string, opts ...embedding.Option) *Embedder {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Embedder{
		client:  newClient(apiKey, baseURL),
		options: options,
	}
}

// EmbedDocuments implements the Embedder interface
func (e *Embedder) EmbedDocuments(ctx context.Context, documents []string) ([][]float32, error) {
	if len(documents) == 0 {
		return nil, embedding.ErrEmptyInput("EmbedDocuments")
	}

	if len(documents) > e.options.BatchSize {
		return e.embedInBatches(ctx, documents)
	}

	resp, err := e.client.CreateEmbeddings(ctx, e.buildRequest(documents))
	if err != nil {
		return nil, e.handleError("EmbedDocuments", err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		embeddings[i] = item.Embedding
		embedding.Normalize(embeddings[i])
	}

	return embeddings, nil
}

// EmbedQuery implements the Embedder interface
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embedding.ErrEmptyInput("EmbedQuery")
	}

	resp, err := e.client.CreateEmbeddings(ctx, e.buildRequest([]string{text}))
	if err != nil {
		return nil, e.handleError("EmbedQuery", err)
	}

	if len(resp.Data) == 0 {
		return nil, embedding.NewEmbeddingError("EmbedQuery", nil, embedding.ErrCodeAPIError,
			"no embedding returned from API")
	}

	vector := resp.Data[0].Embedding
	embedding.Normalize(vector)
	return vector, nil
}

func (e *Embedder) buildRequest(input []string) openai.EmbeddingRequest {
	return openai.EmbeddingRequest{
		Input:      input,
		Model:      openai.EmbeddingModel(e.options.Model),
		Dimensions: e.options.Dimensions,
	}
}

// embedInBatches processes documents in batches
func (e *Embedder) embedInBatches(ctx context.Context, documents []string) ([][]float32, error) {
	var allEmbeddings [][]float32

	for i := 0; i < len(documents); i += e.options.BatchSize {
		end := i + e.options.BatchSize
		if end > len(documents) {
			end = len(documents)
		}

		batchEmbeddings, err := e.EmbedDocuments(ctx, documents[i:end])
		if err != nil {
			return nil, fmt.Errorf("error processing batch %d: %w", i/e.options.BatchSize, err)
		}

		allEmbeddings = append(allEmbeddings, batchEmbeddings...)
	}

	return allEmbeddings, nil
}

// handleError converts OpenAI API errors to embedding errors
func (e *Embedder) handleError(op string, err error) error {
	if err == nil {
		return nil
	}

	switch apiErr := err.(type) {
	case *openai.APIError:
		switch apiErr.HTTPStatusCode {
		case 400:
			return embedding.ErrInvalidInput(op, err, apiErr.Message)
		case 401:
			return embedding.NewEmbeddingError(op, err, "Unauthorized", "invalid API key")
		case 429:
			return embedding.ErrRateLimitExceeded(op, err)
		case 500:
			return embedding.NewEmbeddingError(op, err, embedding.ErrCodeModelNotAvailable,
				"OpenAI API server error")
		default:
			return embedding.NewEmbeddingError(op, err, embedding.ErrCodeAPIError,
				fmt.Sprintf("OpenAI API error: %s", apiErr.Message))
		}
	default:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeInternal,
			"unexpected error")
	}
}
