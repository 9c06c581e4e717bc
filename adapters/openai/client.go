// Package openai adapts the OpenAI API, and any compatible endpoint
// such as OpenRouter, to the embedding and llm interfaces.
package openai

import (
	"github.com/sashabaranov/go-openai"
)

// newClient builds a client for the given key, pointed at baseURL
// when set.
func newClient(apiKey, baseURL string) *openai.Client {
	if baseURL == "" {
		return openai.NewClient(apiKey)
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return openai.NewClientWithConfig(cfg)
}
