package generator

import (
	"context"
	"strings"

	"github.com/visualdoc/ragservice/vectorstore"
)

// snippetLimit bounds how much of each context is quoted verbatim.
const snippetLimit = 500

// Extractive is a model-free generator that quotes the retrieved
// context back with provenance. It is the fallback when no language
// model is configured or reachable.
type Extractive struct{}

// NewExtractive creates an extractive generator.
func NewExtractive() *Extractive {
	return &Extractive{}
}

// Answer lists the retrieved snippets prefixed with their page and
// modality. It never returns an error.
func (g *Extractive) Answer(_ context.Context, _ string, contexts []vectorstore.Result) (string, error) {
	if len(contexts) == 0 {
		return insufficientContextMessage, nil
	}

	bullets := make([]string, 0, len(contexts))
	for _, c := range contexts {
		text := c.Text
		if runes := []rune(text); len(runes) > snippetLimit {
			text = string(runes[:snippetLimit])
		}
		bullets = append(bullets, "("+provenance(c)+") "+text)
	}

	var sb strings.Builder
	sb.WriteString("Here is what I found related to your question:\n\n- ")
	sb.WriteString(strings.Join(bullets, "\n- "))
	return sb.String(), nil
}
