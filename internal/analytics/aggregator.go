// Package analytics implements the in-memory usage metrics aggregator: it
// ingests search and engagement events, maintains rolling statistics,
// evaluates threshold alerts, and fans live updates out to subscribers.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/internal/telemetry"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
	"github.com/discoverdiani/discovery-platform/pkg/metrics"
)

// Thresholds are the static alert thresholds, fixed at construction.
type Thresholds struct {
	ResponseTimeMs int64
	ErrorRatePct   float64
}

// DefaultThresholds returns the standard alert thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{ResponseTimeMs: 2000, ErrorRatePct: 10}
}

// Options configure an Aggregator. Zero values fall back to defaults.
type Options struct {
	Clock            Clock
	Thresholds       Thresholds
	CheckInterval    time.Duration
	SweepInterval    time.Duration
	HistoryMaxAge    time.Duration
	MaxSamples       int
	ActiveUserWindow time.Duration
}

func (o *Options) applyDefaults() {
	if o.Clock == nil {
		o.Clock = SystemClock()
	}
	if o.Thresholds == (Thresholds{}) {
		o.Thresholds = DefaultThresholds()
	}
	if o.CheckInterval == 0 {
		o.CheckInterval = time.Minute
	}
	if o.SweepInterval == 0 {
		o.SweepInterval = time.Hour
	}
	if o.HistoryMaxAge == 0 {
		o.HistoryMaxAge = time.Hour
	}
	if o.MaxSamples == 0 {
		o.MaxSamples = 100
	}
	if o.ActiveUserWindow == 0 {
		o.ActiveUserWindow = 5 * time.Minute
	}
}

// Aggregator owns all event history and subscriber state exclusively.
// External code reads via Snapshot/Report or subscription callbacks.
type Aggregator struct {
	opts   Options
	fanout *telemetry.Fanout
	logger *logger.Logger

	mu          sync.Mutex
	searchCount int64
	errorCount  int64
	samples     []int64
	history     []model.SearchEvent
	metricsSubs map[uint64]func(model.MetricsSnapshot)
	alertSubs   map[uint64]func(string)
	nextSubID   uint64

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates an aggregator. Timers do not run until Start is called.
func New(opts Options, fanout *telemetry.Fanout, log *logger.Logger) *Aggregator {
	opts.applyDefaults()
	return &Aggregator{
		opts:        opts,
		fanout:      fanout,
		logger:      log,
		metricsSubs: make(map[uint64]func(model.MetricsSnapshot)),
		alertSubs:   make(map[uint64]func(string)),
		stop:        make(chan struct{}),
	}
}

// Start launches the periodic threshold check and the hourly retention
// sweep. It returns immediately.
func (a *Aggregator) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		check := time.NewTicker(a.opts.CheckInterval)
		defer check.Stop()
		sweep := time.NewTicker(a.opts.SweepInterval)
		defer sweep.Stop()

		for {
			select {
			case <-check.C:
				a.runPeriodicCheck()
			case <-sweep.C:
				a.Sweep()
			case <-a.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the periodic timers. Safe to call more than once.
func (a *Aggregator) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
	a.wg.Wait()
}

// RecordSearch enriches the sample, appends it to history, forwards it to
// telemetry sinks, recomputes metrics for subscribers, and emits an
// immediate alert when the single sample breaches the response-time
// threshold. It never fails.
func (a *Aggregator) RecordSearch(sample model.SearchSample) model.SearchEvent {
	now := a.opts.Clock.Now()

	userID := sample.UserID
	if userID == "" {
		userID = NewUserID(now.UnixMilli())
	}

	event := model.SearchEvent{
		Query:          sample.Query,
		SearchType:     sample.SearchType,
		Source:         sample.Source,
		Successful:     sample.Successful,
		ResponseTimeMs: sample.ResponseTimeMs,
		ErrorMessage:   sample.ErrorMessage,
		Timestamp:      now,
		UserID:         userID,
		DeviceInfo:     ClassifyDevice(sample.UserAgent),
	}

	a.mu.Lock()
	a.history = append(a.history, event)
	a.samples = append(a.samples, event.ResponseTimeMs)
	a.searchCount++
	if !event.Successful {
		a.errorCount++
	}
	snapshot := a.snapshotLocked()
	metricsSubs := a.metricsSubscribersLocked()
	alertSubs := a.alertSubscribersLocked()
	a.mu.Unlock()

	if a.fanout != nil {
		name := "search_success"
		if !event.Successful {
			name = "search_failed"
		}
		a.fanout.Track(name, event)
	}

	for _, sub := range metricsSubs {
		a.safeNotifyMetrics(sub, snapshot)
	}

	if event.ResponseTimeMs > a.opts.Thresholds.ResponseTimeMs {
		alert := fmt.Sprintf("Slow response detected: %dms for %s search",
			event.ResponseTimeMs, event.SearchType)
		metrics.AlertsTotal.WithLabelValues("slow_response").Inc()
		for _, sub := range alertSubs {
			a.safeNotifyAlert(sub, alert)
		}
	}

	return event
}

// RecordEngagement forwards a non-search interaction to the telemetry
// sinks with an ISO-8601 timestamp. Engagement events are never stored
// locally and never participate in aggregation.
func (a *Aggregator) RecordEngagement(event model.EngagementEvent) {
	event.Timestamp = a.opts.Clock.Now().Format(time.RFC3339)
	if a.fanout != nil {
		a.fanout.Track(eventName(event.EventName), event)
	}
}

// Snapshot returns the current metrics, fully derived from history.
func (a *Aggregator) Snapshot() model.MetricsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Sweep drops events older than the retention window and truncates the
// latency-sample buffer. Runs hourly; unconditional.
func (a *Aggregator) Sweep() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := a.opts.Clock.Now().Add(-a.opts.HistoryMaxAge)
	kept := a.history[:0]
	for _, event := range a.history {
		if event.Timestamp.After(cutoff) {
			kept = append(kept, event)
		}
	}
	a.history = kept

	if len(a.samples) > a.opts.MaxSamples {
		a.samples = append([]int64(nil), a.samples[len(a.samples)-a.opts.MaxSamples:]...)
	}
}

// runPeriodicCheck recomputes metrics for subscribers and evaluates the
// rolling thresholds. Independent of the per-event immediate-alert path.
func (a *Aggregator) runPeriodicCheck() {
	a.mu.Lock()
	snapshot := a.snapshotLocked()
	metricsSubs := a.metricsSubscribersLocked()
	alertSubs := a.alertSubscribersLocked()
	a.mu.Unlock()

	for _, sub := range metricsSubs {
		a.safeNotifyMetrics(sub, snapshot)
	}

	var alerts []string
	if snapshot.AverageResponseTimeMs > float64(a.opts.Thresholds.ResponseTimeMs) {
		metrics.AlertsTotal.WithLabelValues("high_response_time").Inc()
		alerts = append(alerts, fmt.Sprintf("High response time detected: %.0fms",
			snapshot.AverageResponseTimeMs))
	}
	if snapshot.ErrorRate > a.opts.Thresholds.ErrorRatePct {
		metrics.AlertsTotal.WithLabelValues("high_error_rate").Inc()
		alerts = append(alerts, fmt.Sprintf("High error rate detected: %.1f%%",
			snapshot.ErrorRate))
	}

	for _, alert := range alerts {
		for _, sub := range alertSubs {
			a.safeNotifyAlert(sub, alert)
		}
	}
}

// snapshotLocked derives the snapshot; a.mu must be held.
func (a *Aggregator) snapshotLocked() model.MetricsSnapshot {
	snap := model.MetricsSnapshot{
		TotalSearches: a.searchCount,
		SearchTypes: map[model.SearchType]int{
			model.SearchTypeText:  0,
			model.SearchTypeImage: 0,
			model.SearchTypeVoice: 0,
		},
		APIUsage: map[model.Source]int{
			model.SourceGrok:    0,
			model.SourceGemini:  0,
			model.SourceWhisper: 0,
			model.SourceUnknown: 0,
		},
	}

	if a.searchCount > 0 {
		snap.SearchSuccessRate = float64(a.searchCount-a.errorCount) / float64(a.searchCount) * 100
		snap.ErrorRate = float64(a.errorCount) / float64(a.searchCount) * 100
	}

	if len(a.samples) > 0 {
		var total int64
		for _, s := range a.samples {
			total += s
		}
		snap.AverageResponseTimeMs = float64(total) / float64(len(a.samples))
	}

	cutoff := a.opts.Clock.Now().Add(-a.opts.ActiveUserWindow)
	active := make(map[string]struct{})
	for _, event := range a.history {
		if event.Timestamp.After(cutoff) {
			active[event.UserID] = struct{}{}
		}
		snap.SearchTypes[event.SearchType]++
		if _, ok := snap.APIUsage[event.Source]; ok {
			snap.APIUsage[event.Source]++
		} else {
			snap.APIUsage[model.SourceUnknown]++
		}
	}
	snap.ActiveUsers = len(active)

	start := 0
	if len(a.samples) > a.opts.MaxSamples {
		start = len(a.samples) - a.opts.MaxSamples
	}
	snap.ResponseTimeSamples = append([]int64(nil), a.samples[start:]...)

	return snap
}

func (a *Aggregator) safeNotifyMetrics(sub func(model.MetricsSnapshot), snap model.MetricsSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("metrics subscriber panicked", "panic", r)
		}
	}()
	sub(snap)
}

func (a *Aggregator) safeNotifyAlert(sub func(string), alert string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("alert subscriber panicked", "panic", r)
		}
	}()
	sub(alert)
}

// eventName normalizes a display name into a sink event name.
func eventName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
