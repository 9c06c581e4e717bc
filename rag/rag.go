// Package rag wires loaders, chunking, the vector store and answer
// generation into one ingest and query pipeline.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/visualdoc/ragservice/document"
	"github.com/visualdoc/ragservice/generator"
	"github.com/visualdoc/ragservice/loader"
	"github.com/visualdoc/ragservice/vectorstore"
)

// IngestResult reports the outcome of one file ingestion. OK is false
// for files that were rejected rather than failed: unsupported types
// and files with no extractable content.
type IngestResult struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	Chunks    int    `json:"chunks"`
	LatencyMS int64  `json:"latency_ms"`
}

// QueryResult is an answer with the contexts it was grounded on.
type QueryResult struct {
	Answer    string               `json:"answer"`
	Contexts  []vectorstore.Result `json:"contexts"`
	LatencyMS int64                `json:"latency_ms"`
}

// Pipeline orchestrates ingestion and question answering.
type Pipeline struct {
	pdfLoader     loader.Loader
	imageLoader   loader.Loader
	textSplitter  document.Splitter
	tableSplitter document.Splitter
	vs            *vectorstore.VectorStore
	retriever     *Retriever
	generator     generator.Generator
	opts          *Options
}

// New creates a pipeline. The splitters are derived from the chunking
// options.
func New(
	vs *vectorstore.VectorStore,
	gen generator.Generator,
	pdfLoader loader.Loader,
	imageLoader loader.Loader,
	opts ...Option,
) (*Pipeline, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	textSplitter := options.TextSplitter
	if textSplitter == nil {
		var err error
		textSplitter, err = document.NewWordWindowSplitter(options.ChunkSize, options.ChunkOverlap)
		if err != nil {
			return nil, err
		}
	}
	tableSplitter, err := document.NewTableSplitter(options.ChunkSize)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		pdfLoader:     pdfLoader,
		imageLoader:   imageLoader,
		textSplitter:  textSplitter,
		tableSplitter: tableSplitter,
		vs:            vs,
		retriever:     NewRetriever(vs, options.TopK),
		generator:     gen,
		opts:          options,
	}, nil
}

// IngestFile extracts, chunks, embeds and stores one file. Unsupported
// extensions and empty documents come back with OK false and no error,
// extraction or storage failures return an error.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (IngestResult, error) {
	start := time.Now()

	var (
		elements []document.Element
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		elements, err = p.pdfLoader.Load(ctx, path)
	case ".png", ".jpg", ".jpeg":
		elements, err = p.imageLoader.Load(ctx, path)
	default:
		return IngestResult{
			Message:   fmt.Sprintf("Unsupported file type: %s", ext),
			LatencyMS: time.Since(start).Milliseconds(),
		}, nil
	}
	if err != nil {
		return IngestResult{
			Message:   "extraction failed",
			LatencyMS: time.Since(start).Milliseconds(),
		}, err
	}

	chunks, err := document.ChunkElements(elements, p.textSplitter, p.tableSplitter)
	if err != nil {
		return IngestResult{
			Message:   "chunking failed",
			LatencyMS: time.Since(start).Milliseconds(),
		}, err
	}
	if len(chunks) == 0 {
		return IngestResult{
			Message:   "No content found",
			LatencyMS: time.Since(start).Milliseconds(),
		}, nil
	}

	if err := p.vs.Add(ctx, chunks); err != nil {
		return IngestResult{
			Message:   "indexing failed",
			LatencyMS: time.Since(start).Milliseconds(),
		}, err
	}

	result := IngestResult{
		OK:        true,
		Message:   fmt.Sprintf("Ingested %d chunks", len(chunks)),
		Chunks:    len(chunks),
		LatencyMS: time.Since(start).Milliseconds(),
	}
	slog.Info("ingested file", "path", path, "chunks", result.Chunks, "latency_ms", result.LatencyMS)
	return result, nil
}

// Query retrieves context for the question and generates an answer.
func (p *Pipeline) Query(ctx context.Context, question string, topK int) (QueryResult, error) {
	start := time.Now()

	contexts, err := p.retriever.Retrieve(ctx, question, topK)
	if err != nil {
		return QueryResult{}, err
	}

	answer, err := p.generator.Answer(ctx, question, contexts)
	if err != nil {
		return QueryResult{}, err
	}

	result := QueryResult{
		Answer:    answer,
		Contexts:  contexts,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	slog.Debug("answered query", "contexts", len(contexts), "latency_ms", result.LatencyMS)
	return result, nil
}

// Count reports how many chunks are indexed.
func (p *Pipeline) Count(ctx context.Context) (int, error) {
	return p.vs.Count(ctx)
}
