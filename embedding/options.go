package embedding

// EmbeddingOptions represents configuration options for embedding operations
type EmbeddingOptions struct {
	// Model specifies which embedding model to use
	Model string

	// BatchSize specifies the maximum number of documents to embed in a single request
	BatchSize int

	// Dimensions requests a specific output dimensionality, when the
	// model supports it. Zero uses the model default.
	Dimensions int
}

// Option is a function type to modify EmbeddingOptions
type Option func(*EmbeddingOptions)

// WithModel sets the embedding model
func WithModel(model string) Option {
	return func(o *EmbeddingOptions) {
		o.Model = model
	}
}

// WithBatchSize sets the batch size for document embedding
func WithBatchSize(size int) Option {
	return func(o *EmbeddingOptions) {
		o.BatchSize = size
	}
}

// WithDimensions sets the requested embedding dimensionality
func WithDimensions(dims int) Option {
	return func(o *EmbeddingOptions) {
		o.Dimensions = dims
	}
}
