package vectorstore

// Options contains configuration for the vector store
type Options struct {
	Name           string
	ScoreThreshold float32
}

// Option is a function type to modify Options
type Option func(*Options)

// WithName sets the store name used in error reporting
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithScoreThreshold sets the minimum similarity score threshold
func WithScoreThreshold(threshold float32) Option {
	return func(o *Options) {
		o.ScoreThreshold = threshold
	}
}
