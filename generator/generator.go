// Package generator turns retrieved context into an answer, either
// abstractive through a language model or extractive from the context
// snippets alone.
package generator

import (
	"context"
	"fmt"

	"github.com/visualdoc/ragservice/document"
	"github.com/visualdoc/ragservice/vectorstore"
)

// insufficientContextMessage is returned whenever there is no context
// to answer from.
const insufficientContextMessage = "I don't have enough information in the retrieved context to answer that."

// Generator produces an answer to a question from retrieved context.
type Generator interface {
	// Answer synthesizes an answer from the given contexts. It never
	// fails on an empty context slice, it answers that it does not
	// know.
	Answer(ctx context.Context, query string, contexts []vectorstore.Result) (string, error)
}

// provenance formats a result's page and modality for citation, with
// question marks for missing metadata.
func provenance(r vectorstore.Result) string {
	page := "?"
	if p, ok := r.Metadata[document.MetaPage]; ok {
		page = fmt.Sprintf("%v", p)
	}
	modality := "?"
	if m, ok := r.Metadata[document.MetaModality]; ok {
		modality = fmt.Sprintf("%v", m)
	}
	return fmt.Sprintf("p.%s/%s", page, modality)
}
