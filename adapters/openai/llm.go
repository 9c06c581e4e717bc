package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/visualdoc/ragservice/llm"
)

type LLM struct {
	client *openai.Client
	model  string
}

// NewLLM creates a chat model client. An empty model falls back to
// GPT-4o mini.
func NewLLM(apiKey string, model string) *LLM {
	return NewLLMWithBaseURL(apiKey, "", model)
}

// NewLLMWithBaseURL creates a chat model client against an OpenAI
// compatible endpoint.
func NewLLMWithBaseURL(apiKey, baseURL, model string) *LLM {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &LLM{
		client: newClient(apiKey, baseURL),
		model:  model,
	}
}

func (o *LLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (*llm.Message, error) {
	options := &llm.ChatOptions{
		Temperature: 0.1,
	}
	for _, opt := range opts {
		opt(options)
	}

	openAIMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		openAIMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:            o.model,
		Messages:         openAIMessages,
		Temperature:      options.Temperature,
		TopP:             options.TopP,
		MaxTokens:        options.MaxTokens,
		Stop:             options.Stop,
		PresencePenalty:  options.PresencePenalty,
		FrequencyPenalty: options.FrequencyPenalty,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, handleOpenAIError("Chat", err)
	}

	if len(resp.Choices) == 0 {
		return nil, &llm.LLMError{
			Op:      "Chat",
			Message: "no response choices returned",
		}
	}

	message := &llm.Message{
		Role:    resp.Choices[0].Message.Role,
		Content: resp.Choices[0].Message.Content,
	}

	message.SetUsage(&llm.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	})

	return message, nil
}

func (o *LLM) Complete(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	messages := []llm.Message{
		{
			Role:    llm.UserRole,
			Content: prompt,
		},
	}

	resp, err := o.Chat(ctx, messages, opts...)
	if err != nil {
		return "", err
	}

	return resp.Content, nil
}

func handleOpenAIError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 400:
			return &llm.LLMError{
				Op:      op,
				Message: "invalid request",
				Err:     err,
			}
		case 401:
			return &llm.LLMError{
				Op:      op,
				Message: "invalid API key",
				Err:     err,
			}
		case 429:
			return &llm.LLMError{
				Op:      op,
				Message: "rate limit exceeded",
				Err:     err,
			}
		default:
			return &llm.LLMError{
				Op:      op,
				Message: apiErr.Message,
				Err:     err,
			}
		}
	}

	return &llm.LLMError{
		Op:      op,
		Message: "request failed",
		Err:     err,
	}
}
