package analytics

import (
	"github.com/discoverdiani/discovery-platform/internal/model"
)

// SubscribeToMetrics registers a callback that receives the full current
// snapshot on every recompute. The returned function removes exactly this
// registration and is a no-op when called again.
func (a *Aggregator) SubscribeToMetrics(callback func(model.MetricsSnapshot)) func() {
	a.mu.Lock()
	id := a.nextSubID
	a.nextSubID++
	a.metricsSubs[id] = callback
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.metricsSubs, id)
		a.mu.Unlock()
	}
}

// SubscribeToAlerts registers a callback that receives every alert string.
// The returned function removes exactly this registration and is a no-op
// when called again.
func (a *Aggregator) SubscribeToAlerts(callback func(string)) func() {
	a.mu.Lock()
	id := a.nextSubID
	a.nextSubID++
	a.alertSubs[id] = callback
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.alertSubs, id)
		a.mu.Unlock()
	}
}

// metricsSubscribersLocked copies the current metrics subscribers so they
// can be invoked without holding the lock. a.mu must be held.
func (a *Aggregator) metricsSubscribersLocked() []func(model.MetricsSnapshot) {
	subs := make([]func(model.MetricsSnapshot), 0, len(a.metricsSubs))
	for _, sub := range a.metricsSubs {
		subs = append(subs, sub)
	}
	return subs
}

// alertSubscribersLocked copies the current alert subscribers. a.mu must
// be held.
func (a *Aggregator) alertSubscribersLocked() []func(string) {
	subs := make([]func(string), 0, len(a.alertSubs))
	for _, sub := range a.alertSubs {
		subs = append(subs, sub)
	}
	return subs
}
