package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/visualdoc/ragservice/llm"
	"github.com/visualdoc/ragservice/vectorstore"
)

const systemPrompt = `You are a helpful assistant that answers questions grounded in provided context.
Cite page numbers and modality (text/table/image) when relevant.
If the answer is not in the context, say you do not have enough information.`

const (
	defaultTemperature    = 0.2
	defaultRequestTimeout = 30 * time.Second
)

// LLMGenerator answers abstractively through a language model. When
// the model call fails the error is reported in the answer itself and
// an extractive synthesis of the context is appended, so a transient
// provider outage still yields something usable.
type LLMGenerator struct {
	model    llm.LLM
	fallback *Extractive
	opts     *LLMOptions
}

// LLMOptions configure answer generation.
type LLMOptions struct {
	Temperature    float32
	RequestTimeout time.Duration
}

// LLMOption is a function that configures LLMOptions
type LLMOption func(*LLMOptions)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) LLMOption {
	return func(o *LLMOptions) {
		o.Temperature = t
	}
}

// WithRequestTimeout bounds each model call.
func WithRequestTimeout(d time.Duration) LLMOption {
	return func(o *LLMOptions) {
		if d > 0 {
			o.RequestTimeout = d
		}
	}
}

// NewLLMGenerator creates a generator backed by the given model.
func NewLLMGenerator(model llm.LLM, opts ...LLMOption) *LLMGenerator {
	options := &LLMOptions{
		Temperature:    defaultTemperature,
		RequestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &LLMGenerator{
		model:    model,
		fallback: NewExtractive(),
		opts:     options,
	}
}

// Answer builds a grounded prompt from the contexts and asks the
// model. An empty context short-circuits without a model call.
func (g *LLMGenerator) Answer(ctx context.Context, query string, contexts []vectorstore.Result) (string, error) {
	if len(contexts) == 0 {
		return insufficientContextMessage, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, g.opts.RequestTimeout)
	defer cancel()

	messages := []llm.Message{
		{Role: llm.SystemRole, Content: systemPrompt},
		{Role: llm.UserRole, Content: buildUserPrompt(query, contexts)},
	}

	resp, err := g.model.Chat(callCtx, messages, llm.WithTemperature(g.opts.Temperature))
	if err != nil {
		extract, _ := g.fallback.Answer(ctx, query, contexts)
		return fmt.Sprintf("Generation failed: %v\n\nFalling back to local synthesis.\n\n%s", err, extract), nil
	}
	if usage := resp.GetUsage(); usage != nil {
		slog.Debug("model usage",
			"prompt_tokens", usage.PromptTokens,
			"completion_tokens", usage.CompletionTokens,
			"total_tokens", usage.TotalTokens)
	}
	return strings.TrimSpace(resp.Content), nil
}

func buildUserPrompt(query string, contexts []vectorstore.Result) string {
	parts := make([]string, 0, len(contexts))
	for _, c := range contexts {
		if c.Text == "" {
			continue
		}
		parts = append(parts, "("+provenance(c)+") "+c.Text)
	}

	var sb strings.Builder
	sb.WriteString("Context:\n")
	sb.WriteString(strings.Join(parts, "\n\n"))
	sb.WriteString("\n\nUser question: ")
	sb.WriteString(query)
	sb.WriteString("\nAnswer:")
	return sb.String()
}
