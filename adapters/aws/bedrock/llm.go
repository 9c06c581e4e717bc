// Package bedrock adapts AWS Bedrock hosted models to the llm
// interface.
package bedrock

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go/ptr"

	"github.com/visualdoc/ragservice/llm"
)

// ModelID represents available Bedrock models
type ModelID string

const (
	Claude3Sonnet ModelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	Claude3Haiku  ModelID = "anthropic.claude-3-haiku-20240307-v1:0"
)

type LLM struct {
	client *bedrockruntime.Client
	model  ModelID
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Messages         []anthropicMessage `json:"messages"`
	System           string             `json:"system,omitempty"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float32            `json:"temperature,omitempty"`
	TopP             float32            `json:"top_p,omitempty"`
	StopSequences    []string           `json:"stop_sequences,omitempty"`
	AnthropicVersion string             `json:"anthropic_version"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason,omitempty"`
	Model      string             `json:"model,omitempty"`
}

func NewLLM(client *bedrockruntime.Client, model ModelID) *LLM {
	if model == "" {
		model = Claude3Haiku
	}
	return &LLM{
		client: client,
		model:  model,
	}
}

// splitMessages separates system messages, which the Anthropic
// messages API takes as a top level field, from the conversation.
func splitMessages(messages []llm.Message) (string, []anthropicMessage) {
	var system string
	converted := make([]anthropicMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == llm.SystemRole {
			if system != "" {
				system += "\n"
			}
			system += msg.Content
			continue
		}
		converted = append(converted, anthropicMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return system, converted
}

func (b *LLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (*llm.Message, error) {
	options := &llm.ChatOptions{
		Temperature: 0.7,
		MaxTokens:   2000,
	}
	for _, opt := range opts {
		opt(options)
	}

	system, converted := splitMessages(messages)
	requestBody, err := json.Marshal(anthropicRequest{
		Messages:         converted,
		System:           system,
		MaxTokens:        options.MaxTokens,
		Temperature:      options.Temperature,
		TopP:             options.TopP,
		StopSequences:    options.Stop,
		AnthropicVersion: "bedrock-2023-05-31",
	})
	if err != nil {
		return nil, &llm.LLMError{
			Op:      "Chat",
			Message: "failed to marshal request",
			Err:     err,
		}
	}

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     ptr.String(string(b.model)),
		Body:        requestBody,
		ContentType: ptr.String("application/json"),
	})
	if err != nil {
		return nil, handleBedrockError("Chat", err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, &llm.LLMError{
			Op:      "Chat",
			Message: "failed to unmarshal response",
			Err:     err,
		}
	}

	var content string
	for _, part := range resp.Content {
		content += part.Text
	}

	return &llm.Message{
		Role:    llm.AssistantRole,
		Content: content,
	}, nil
}

func (b *LLM) Complete(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	messages := []llm.Message{
		{
			Role:    llm.UserRole,
			Content: prompt,
		},
	}

	resp, err := b.Chat(ctx, messages, opts...)
	if err != nil {
		return "", err
	}

	return resp.Content, nil
}

func handleBedrockError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &llm.LLMError{
		Op:      op,
		Message: "Bedrock API error",
		Err:     err,
	}
}
