package analytics

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/discoverdiani/discovery-platform/internal/model"
	"github.com/discoverdiani/discovery-platform/pkg/logger"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestAggregator(t *testing.T) (*Aggregator, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	agg := New(Options{Clock: clock}, nil, logger.NewNop())
	return agg, clock
}

func textSearch(user string, latencyMs int64) model.SearchSample {
	return model.SearchSample{
		Query:          "beach hotels",
		SearchType:     model.SearchTypeText,
		Source:         model.SourceGrok,
		Successful:     true,
		ResponseTimeMs: latencyMs,
		UserID:         user,
	}
}

func TestSnapshotEmptyHistory(t *testing.T) {
	agg, _ := newTestAggregator(t)

	snap := agg.Snapshot()
	if snap.SearchSuccessRate != 0 {
		t.Errorf("success rate = %v, want 0", snap.SearchSuccessRate)
	}
	if snap.ErrorRate != 0 {
		t.Errorf("error rate = %v, want 0", snap.ErrorRate)
	}
	if snap.AverageResponseTimeMs != 0 {
		t.Errorf("average response time = %v, want 0", snap.AverageResponseTimeMs)
	}
	if snap.ActiveUsers != 0 {
		t.Errorf("active users = %d, want 0", snap.ActiveUsers)
	}
}

func TestSuccessAndErrorRates(t *testing.T) {
	agg, _ := newTestAggregator(t)

	for i := 0; i < 9; i++ {
		agg.RecordSearch(textSearch(fmt.Sprintf("user_%d", i), 100))
	}
	agg.RecordSearch(model.SearchSample{
		Query:          "snorkeling",
		SearchType:     model.SearchTypeVoice,
		Source:         model.SourceWhisper,
		Successful:     false,
		ResponseTimeMs: 3000,
		ErrorMessage:   "transcription failed",
		UserID:         "user_9",
	})

	snap := agg.Snapshot()
	if snap.SearchSuccessRate != 90.0 {
		t.Errorf("success rate = %v, want 90.0", snap.SearchSuccessRate)
	}
	if snap.ErrorRate != 10.0 {
		t.Errorf("error rate = %v, want 10.0", snap.ErrorRate)
	}
	if snap.AverageResponseTimeMs != 390.0 {
		t.Errorf("average response time = %v, want 390.0", snap.AverageResponseTimeMs)
	}
	if snap.TotalSearches != 10 {
		t.Errorf("total searches = %d, want 10", snap.TotalSearches)
	}

	// errorCount = totalCount * errorRate / 100 within rounding.
	derived := float64(snap.TotalSearches) * snap.ErrorRate / 100
	if math.Abs(derived-1) > 1e-9 {
		t.Errorf("derived error count = %v, want 1", derived)
	}
}

func TestErrorRateExactlyAtThresholdDoesNotAlert(t *testing.T) {
	agg, _ := newTestAggregator(t)

	var alerts []string
	agg.SubscribeToAlerts(func(alert string) { alerts = append(alerts, alert) })

	for i := 0; i < 9; i++ {
		agg.RecordSearch(textSearch(fmt.Sprintf("user_%d", i), 100))
	}
	agg.RecordSearch(model.SearchSample{
		Query:          "snorkeling",
		SearchType:     model.SearchTypeVoice,
		Source:         model.SourceWhisper,
		Successful:     false,
		ResponseTimeMs: 100,
		UserID:         "user_9",
	})

	agg.runPeriodicCheck()

	// Error rate is exactly 10%; the check is strictly greater-than.
	if len(alerts) != 0 {
		t.Errorf("got alerts %v, want none at exactly 10%% error rate", alerts)
	}
}

func TestImmediateSlowResponseAlert(t *testing.T) {
	agg, _ := newTestAggregator(t)

	var alerts []string
	agg.SubscribeToAlerts(func(alert string) { alerts = append(alerts, alert) })

	agg.RecordSearch(textSearch("user_0", 3000))

	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	want := "Slow response detected: 3000ms for text search"
	if alerts[0] != want {
		t.Errorf("alert = %q, want %q", alerts[0], want)
	}

	// Exactly at the threshold must not alert.
	agg.RecordSearch(textSearch("user_1", 2000))
	if len(alerts) != 1 {
		t.Errorf("got %d alerts after 2000ms sample, want 1", len(alerts))
	}
}

func TestPeriodicHighResponseTimeAlert(t *testing.T) {
	agg, _ := newTestAggregator(t)

	var alerts []string
	agg.SubscribeToAlerts(func(alert string) { alerts = append(alerts, alert) })

	agg.RecordSearch(textSearch("user_0", 5000))
	alerts = nil // discard the immediate per-sample alert

	agg.runPeriodicCheck()

	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if alerts[0] != "High response time detected: 5000ms" {
		t.Errorf("alert = %q", alerts[0])
	}
}

func TestActiveUsersWindow(t *testing.T) {
	agg, clock := newTestAggregator(t)

	agg.RecordSearch(textSearch("user_a", 100))
	if got := agg.Snapshot().ActiveUsers; got != 1 {
		t.Errorf("active users = %d, want 1", got)
	}

	clock.Advance(6 * time.Minute)
	if got := agg.Snapshot().ActiveUsers; got != 0 {
		t.Errorf("active users after 6m = %d, want 0", got)
	}

	// Repeated evaluation with no new events is idempotent.
	if got := agg.Snapshot().ActiveUsers; got != 0 {
		t.Errorf("active users on re-evaluation = %d, want 0", got)
	}

	agg.RecordSearch(textSearch("user_b", 100))
	if got := agg.Snapshot().ActiveUsers; got != 1 {
		t.Errorf("active users = %d, want 1 (stale user_a must not count)", got)
	}
}

func TestSweepBoundsHistoryAndSamples(t *testing.T) {
	agg, clock := newTestAggregator(t)

	// Old events that the sweep must evict.
	for i := 0; i < 20; i++ {
		agg.RecordSearch(textSearch("user_old", 9999))
	}
	clock.Advance(2 * time.Hour)

	// Fresh events; more samples than the buffer bound.
	for i := 0; i < 150; i++ {
		agg.RecordSearch(textSearch("user_new", 100))
	}

	agg.Sweep()

	snap := agg.Snapshot()
	if len(snap.ResponseTimeSamples) != 100 {
		t.Errorf("sample buffer length = %d, want 100", len(snap.ResponseTimeSamples))
	}
	// Evicted 9999ms samples must never reappear in the average.
	if snap.AverageResponseTimeMs != 100.0 {
		t.Errorf("average response time = %v, want 100.0", snap.AverageResponseTimeMs)
	}
	// History distributions only cover retained events.
	if snap.SearchTypes[model.SearchTypeText] != 150 {
		t.Errorf("text distribution = %d, want 150", snap.SearchTypes[model.SearchTypeText])
	}
}

func TestUnsubscribeStopsDeliveries(t *testing.T) {
	agg, _ := newTestAggregator(t)

	var deliveries int
	unsubscribe := agg.SubscribeToAlerts(func(string) { deliveries++ })
	unsubscribe()
	unsubscribe() // idempotent

	agg.RecordSearch(textSearch("user_0", 10000))
	agg.runPeriodicCheck()

	if deliveries != 0 {
		t.Errorf("got %d deliveries after unsubscribe, want 0", deliveries)
	}
}

func TestUnsubscribeRemovesExactlyOneRegistration(t *testing.T) {
	agg, _ := newTestAggregator(t)

	var first, second int
	unsubFirst := agg.SubscribeToMetrics(func(model.MetricsSnapshot) { first++ })
	agg.SubscribeToMetrics(func(model.MetricsSnapshot) { second++ })
	unsubFirst()

	agg.RecordSearch(textSearch("user_0", 100))

	if first != 0 {
		t.Errorf("unsubscribed callback received %d deliveries", first)
	}
	if second != 1 {
		t.Errorf("remaining callback received %d deliveries, want 1", second)
	}
}

func TestPanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	agg, _ := newTestAggregator(t)

	var delivered int
	agg.SubscribeToAlerts(func(string) { panic("subscriber bug") })
	agg.SubscribeToAlerts(func(string) { delivered++ })

	agg.RecordSearch(textSearch("user_0", 5000))

	if delivered != 1 {
		t.Errorf("healthy subscriber got %d deliveries, want 1", delivered)
	}
}

func TestMetricsSubscriberReceivesFullSnapshot(t *testing.T) {
	agg, _ := newTestAggregator(t)

	var last model.MetricsSnapshot
	agg.SubscribeToMetrics(func(snap model.MetricsSnapshot) { last = snap })

	agg.RecordSearch(textSearch("user_0", 250))

	if last.TotalSearches != 1 {
		t.Errorf("snapshot total searches = %d, want 1", last.TotalSearches)
	}
	if last.SearchTypes[model.SearchTypeText] != 1 {
		t.Errorf("snapshot text distribution = %d, want 1", last.SearchTypes[model.SearchTypeText])
	}
	if last.APIUsage[model.SourceGrok] != 1 {
		t.Errorf("snapshot grok usage = %d, want 1", last.APIUsage[model.SourceGrok])
	}
}

func TestEnrichmentFillsMissingFields(t *testing.T) {
	agg, clock := newTestAggregator(t)

	event := agg.RecordSearch(model.SearchSample{
		Query:          "kite surfing lessons",
		SearchType:     model.SearchTypeText,
		Source:         model.SourceGrok,
		Successful:     true,
		ResponseTimeMs: 120,
	})

	if !event.Timestamp.Equal(clock.now) {
		t.Errorf("timestamp = %v, want %v", event.Timestamp, clock.now)
	}
	if event.UserID == "" {
		t.Error("user ID not generated")
	}
	if event.DeviceInfo.Browser != "Other" || event.DeviceInfo.OS != "Other" {
		t.Errorf("device info = %+v, want Other buckets for empty user agent", event.DeviceInfo)
	}
	if event.DeviceInfo.Type != "desktop" {
		t.Errorf("device type = %q, want desktop fallback", event.DeviceInfo.Type)
	}
}
