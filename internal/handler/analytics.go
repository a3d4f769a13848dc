package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/discoverdiani/discovery-platform/internal/analytics"
	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
	"github.com/discoverdiani/discovery-platform/pkg/metrics"
)

// AnalyticsHandler exposes the aggregator's metrics, reports, the live
// SSE feed, and engagement event intake.
type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
	logger     *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(agg *analytics.Aggregator, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		aggregator: agg,
		logger:     log,
	}
}

// Metrics handles GET /api/v1/analytics/metrics
func (h *AnalyticsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.aggregator.Snapshot())
}

// Report handles GET /api/v1/analytics/report?range=hour|day|week
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	rng := model.ReportRange(r.URL.Query().Get("range"))
	if rng == "" {
		rng = model.RangeDay
	}
	switch rng {
	case model.RangeHour, model.RangeDay, model.RangeWeek:
	default:
		writeError(w, http.StatusBadRequest, "range must be hour, day, or week")
		return
	}

	writeJSON(w, http.StatusOK, h.aggregator.Report(rng))
}

// TrackEvent handles POST /api/v1/events
func (h *AnalyticsHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var event model.EngagementEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if event.EventName == "" {
		writeError(w, http.StatusBadRequest, "event_name cannot be empty")
		return
	}

	h.aggregator.RecordEngagement(event)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// alertEvent is the SSE payload for a triggered alert.
type alertEvent struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Stream handles GET /api/v1/analytics/stream
// Pushes a metrics snapshot on every recompute and every alert as it
// fires, over SSE.
func (h *AnalyticsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	// Subscriber callbacks run on the aggregator's goroutines, so hand
	// the values off through buffered channels and drop on overflow
	// rather than block a recompute.
	snapshots := make(chan model.MetricsSnapshot, 8)
	alerts := make(chan string, 8)

	unsubMetrics := h.aggregator.SubscribeToMetrics(func(snap model.MetricsSnapshot) {
		select {
		case snapshots <- snap:
		default:
		}
	})
	defer unsubMetrics()

	unsubAlerts := h.aggregator.SubscribeToAlerts(func(alert string) {
		select {
		case alerts <- alert:
		default:
		}
	})
	defer unsubAlerts()

	sendSSEEvent(w, flusher, "connected", map[string]string{"stream": "analytics"})
	sendSSEEvent(w, flusher, "metrics", h.aggregator.Snapshot())

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("SSE client disconnected")
			return

		case snap := <-snapshots:
			sendSSEEvent(w, flusher, "metrics", snap)

		case alert := <-alerts:
			sendSSEEvent(w, flusher, "alert", &alertEvent{
				Message:   alert,
				Timestamp: time.Now(),
			})

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", map[string]int64{
				"timestamp": time.Now().Unix(),
			})
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
