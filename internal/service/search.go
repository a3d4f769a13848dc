// Package service provides business logic for the discovery platform.
package service

import (
	"context"
	"time"

	"github.com/discoverdiani/discovery-platform/internal/ai"
	"github.com/discoverdiani/discovery-platform/internal/analytics"
	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
	"github.com/discoverdiani/discovery-platform/pkg/metrics"
)

// AIGateway is the surface of the AI backends the search service needs.
type AIGateway interface {
	Query(ctx context.Context, prompt string) ai.Response
	AnalyzeImage(ctx context.Context, imageURL string) ai.Response
	TranscribeAudio(ctx context.Context, audio []byte, filename string) ai.Response
}

// Requester identifies who issued a search, for event enrichment.
type Requester struct {
	UserID    string
	UserAgent string
}

// SearchService orchestrates AI calls and records every attempt into the
// analytics aggregator.
type SearchService struct {
	gateway    AIGateway
	aggregator *analytics.Aggregator
	logger     *logger.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(gateway AIGateway, aggregator *analytics.Aggregator, log *logger.Logger) *SearchService {
	return &SearchService{
		gateway:    gateway,
		aggregator: aggregator,
		logger:     log,
	}
}

// Text answers a free-text search.
func (s *SearchService) Text(ctx context.Context, query string, req Requester) ai.Response {
	start := time.Now()
	resp := s.gateway.Query(ctx, query)
	s.record(query, model.SearchTypeText, resp, time.Since(start), req)
	return resp
}

// Image analyzes an image by URL.
func (s *SearchService) Image(ctx context.Context, imageURL string, req Requester) ai.Response {
	start := time.Now()
	resp := s.gateway.AnalyzeImage(ctx, imageURL)
	s.record(imageURL, model.SearchTypeImage, resp, time.Since(start), req)
	return resp
}

// Voice transcribes an audio recording and answers the transcribed query.
func (s *SearchService) Voice(ctx context.Context, audio []byte, filename string, req Requester) ai.Response {
	start := time.Now()
	resp := s.gateway.TranscribeAudio(ctx, audio, filename)
	s.record(resp.Text, model.SearchTypeVoice, resp, time.Since(start), req)
	return resp
}

func (s *SearchService) record(query string, searchType model.SearchType, resp ai.Response, elapsed time.Duration, req Requester) {
	status := "success"
	if resp.Err != "" {
		status = "error"
	}
	metrics.RecordSearch(string(searchType), string(resp.Source), status, elapsed.Seconds())

	s.aggregator.RecordSearch(model.SearchSample{
		Query:          query,
		SearchType:     searchType,
		Source:         resp.Source,
		Successful:     resp.Err == "",
		ResponseTimeMs: elapsed.Milliseconds(),
		ErrorMessage:   resp.Err,
		UserID:         req.UserID,
		UserAgent:      req.UserAgent,
	})
}
