package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSink posts analytics events to an external product-analytics
// collector endpoint.
type HTTPSink struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPSink creates a sink that posts events to the given endpoint.
func NewHTTPSink(endpoint, token string) *HTTPSink {
	return &HTTPSink{
		endpoint: endpoint,
		token:    token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name implements Sink.
func (s *HTTPSink) Name() string { return "product-analytics" }

type trackEnvelope struct {
	Event      string `json:"event"`
	Properties any    `json:"properties"`
}

// Track posts the event as a JSON envelope.
func (s *HTTPSink) Track(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(trackEnvelope{Event: event, Properties: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned status %d", resp.StatusCode)
	}

	return nil
}
