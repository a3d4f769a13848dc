package ai

import (
	"bytes"
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// WhisperClient transcribes audio through the OpenAI audio API.
type WhisperClient struct {
	client *openai.Client
}

// NewWhisperClient creates a new Whisper client.
func NewWhisperClient(apiKey string) (*WhisperClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	return &WhisperClient{client: openai.NewClient(apiKey)}, nil
}

// Transcribe converts the audio bytes to text.
func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
