package rag

import (
	"context"

	"github.com/visualdoc/ragservice/vectorstore"
)

// Retriever fetches the most relevant chunks for a query, filling in
// a default result count when the caller does not name one.
type Retriever struct {
	vs          *vectorstore.VectorStore
	defaultTopK int
}

// NewRetriever creates a retriever over the given vector store.
func NewRetriever(vs *vectorstore.VectorStore, defaultTopK int) *Retriever {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Retriever{vs: vs, defaultTopK: defaultTopK}
}

// Retrieve returns up to topK results ordered by score, using the
// default when topK is not positive.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]vectorstore.Result, error) {
	if topK <= 0 {
		topK = r.defaultTopK
	}
	return r.vs.Query(ctx, query, topK)
}
