package ai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

const (
	grokBaseURL = "https://api.x.ai/v1"
	grokModel   = "grok-beta"
)

// GrokClient answers text prompts through the xAI OpenAI-compatible API.
type GrokClient struct {
	client *openai.Client
}

// NewGrokClient creates a new Grok client.
func NewGrokClient(apiKey string) (*GrokClient, error) {
	if apiKey == "" {
		return nil, errors.New("Grok API key is required")
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = grokBaseURL

	return &GrokClient{client: openai.NewClientWithConfig(config)}, nil
}

// Complete sends a system+user prompt pair and returns the answer text.
func (c *GrokClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: grokModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
