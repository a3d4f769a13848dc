package ai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	geminiModel   = "gemini-1.5-flash"
)

// GeminiClient describes images through the Gemini OpenAI-compatible
// endpoint.
type GeminiClient struct {
	client *openai.Client
}

// NewGeminiClient creates a new Gemini vision client.
func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = geminiBaseURL

	return &GeminiClient{client: openai.NewClientWithConfig(config)}, nil
}

// DescribeImage sends the image for vision analysis and returns the
// description text.
func (c *GeminiClient) DescribeImage(ctx context.Context, imageURL string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: geminiModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: imageAnalysisPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageURL,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty vision response")
	}
	return resp.Choices[0].Message.Content, nil
}
