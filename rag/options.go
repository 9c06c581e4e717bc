package rag

import "github.com/visualdoc/ragservice/document"

// Options contains configuration for the pipeline
type Options struct {
	// ChunkSize is the approximate chunk length in characters.
	ChunkSize int
	// ChunkOverlap is the approximate overlap between neighboring
	// chunks in characters.
	ChunkOverlap int
	// TopK is the default number of contexts retrieved per query.
	TopK int
	// TextSplitter overrides the word window splitter derived from
	// ChunkSize and ChunkOverlap for text and OCR elements. Tables
	// always use the row batching splitter.
	TextSplitter document.Splitter
}

// Option is a function type to modify Options
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		ChunkSize:    1000,
		ChunkOverlap: 150,
		TopK:         5,
	}
}

// WithChunkSize sets the approximate chunk length in characters
func WithChunkSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ChunkSize = size
		}
	}
}

// WithChunkOverlap sets the approximate chunk overlap in characters
func WithChunkOverlap(overlap int) Option {
	return func(o *Options) {
		if overlap >= 0 {
			o.ChunkOverlap = overlap
		}
	}
}

// WithTopK sets the default number of retrieved contexts
func WithTopK(topK int) Option {
	return func(o *Options) {
		if topK > 0 {
			o.TopK = topK
		}
	}
}

// WithTextSplitter replaces the default word window splitter
func WithTextSplitter(splitter document.Splitter) Option {
	return func(o *Options) {
		if splitter != nil {
			o.TextSplitter = splitter
		}
	}
}
