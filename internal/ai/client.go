// Package ai provides clients for the hosted AI backends and a gateway
// that composes them into search operations.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
)

// Response is the normalized result of an AI call. A transport failure
// after retries populates Err and leaves Text empty; callers never see a
// raised error.
type Response struct {
	Text   string       `json:"text,omitempty"`
	Err    string       `json:"error,omitempty"`
	Source model.Source `json:"source"`
}

// TextCompleter answers a free-text prompt under a system instruction.
type TextCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ImageDescriber produces a textual description of an image.
type ImageDescriber interface {
	DescribeImage(ctx context.Context, imageURL string) (string, error)
}

// Transcriber converts audio to text. Audio is passed as bytes so retry
// attempts can each re-read it from the start.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

const (
	guideSystemPrompt = "You are a knowledgeable local guide for Diani Beach, Kenya. " +
		"Provide helpful, accurate, and engaging information about local attractions, " +
		"activities, and services."

	enhanceSystemPrompt = "You are a Diani Beach local expert. Enhance this image " +
		"analysis with specific local knowledge and recommendations."

	imageAnalysisPrompt = "Analyze this image in the context of Diani Beach, Kenya. " +
		"Identify the type of location or establishment, notable features or attractions, " +
		"relevant tourist information, and similar places in Diani Beach. " +
		"Provide a natural, informative response that would be helpful for tourists."
)

// Gateway composes the backend clients into the three search operations.
type Gateway struct {
	grok    TextCompleter
	gemini  ImageDescriber
	whisper Transcriber
	timeout time.Duration
	logger  *logger.Logger
}

// NewGateway creates a gateway over the given backend clients. timeout
// bounds each individual attempt.
func NewGateway(grok TextCompleter, gemini ImageDescriber, whisper Transcriber, timeout time.Duration, log *logger.Logger) *Gateway {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		grok:    grok,
		gemini:  gemini,
		whisper: whisper,
		timeout: timeout,
		logger:  log,
	}
}

// Query answers a free-text prompt via Grok.
func (g *Gateway) Query(ctx context.Context, prompt string) Response {
	text, err := withRetry(ctx, g.timeout, func(ctx context.Context) (string, error) {
		return g.grok.Complete(ctx, guideSystemPrompt, prompt)
	})
	if err != nil {
		g.logger.Error("AI query failed", "error", err)
		return Response{Err: err.Error(), Source: model.SourceGrok}
	}
	return Response{Text: text, Source: model.SourceGrok}
}

// AnalyzeImage describes an image via Gemini vision and enhances the
// description with local context via Grok. Failure of either leg surfaces
// as a single error.
func (g *Gateway) AnalyzeImage(ctx context.Context, imageURL string) Response {
	description, err := withRetry(ctx, g.timeout, func(ctx context.Context) (string, error) {
		return g.gemini.DescribeImage(ctx, imageURL)
	})
	if err != nil {
		g.logger.Error("image analysis failed", "error", err)
		return Response{Err: err.Error(), Source: model.SourceGemini}
	}

	enhancement := fmt.Sprintf("Based on this image analysis: %s\n\n"+
		"Provide specific local insights and recommendations for visitors to Diani Beach.",
		description)
	text, err := withRetry(ctx, g.timeout, func(ctx context.Context) (string, error) {
		return g.grok.Complete(ctx, enhanceSystemPrompt, enhancement)
	})
	if err != nil {
		g.logger.Error("image enhancement failed", "error", err)
		return Response{Err: err.Error(), Source: model.SourceGemini}
	}

	return Response{Text: text, Source: model.SourceGemini}
}

// TranscribeAudio converts an audio recording to text via Whisper.
func (g *Gateway) TranscribeAudio(ctx context.Context, audio []byte, filename string) Response {
	text, err := withRetry(ctx, g.timeout, func(ctx context.Context) (string, error) {
		return g.whisper.Transcribe(ctx, audio, filename)
	})
	if err != nil {
		g.logger.Error("audio transcription failed", "error", err)
		return Response{Err: err.Error(), Source: model.SourceWhisper}
	}
	return Response{Text: text, Source: model.SourceWhisper}
}
