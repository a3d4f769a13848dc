package analytics

import (
	"sort"
	"time"

	"github.com/discoverdiani/discovery-platform/internal/model"
)

var reportLookback = map[model.ReportRange]time.Duration{
	model.RangeHour: time.Hour,
	model.RangeDay:  24 * time.Hour,
	model.RangeWeek: 7 * 24 * time.Hour,
}

const topQueryLimit = 10

// unknownErrorBucket collects failed searches without an error message.
const unknownErrorBucket = "Unknown Error"

// Report computes an ad-hoc historical report over the events within the
// requested lookback window. An unrecognized range falls back to hour.
func (a *Aggregator) Report(rng model.ReportRange) model.Report {
	lookback, ok := reportLookback[rng]
	if !ok {
		rng, lookback = model.RangeHour, time.Hour
	}
	start := a.opts.Clock.Now().Add(-lookback)

	a.mu.Lock()
	relevant := make([]model.SearchEvent, 0, len(a.history))
	for _, event := range a.history {
		if !event.Timestamp.Before(start) {
			relevant = append(relevant, event)
		}
	}
	a.mu.Unlock()

	report := model.Report{
		Range: rng,
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

	users := make(map[string]struct{})
	queryCounts := make(map[string]int)
	errorCounts := make(map[string]int)
	var successful int
	var totalLatency int64

	for _, event := range relevant {
		users[event.UserID] = struct{}{}
		totalLatency += event.ResponseTimeMs
		if event.Successful {
			successful++
		} else {
			key := event.ErrorMessage
			if key == "" {
				key = unknownErrorBucket
			}
			errorCounts[key]++
		}

		report.SearchTypes[event.SearchType]++
		if _, ok := report.APIUsage[event.Source]; ok {
			report.APIUsage[event.Source]++
		} else {
			report.APIUsage[model.SourceUnknown]++
		}

		report.HourlyDistribution[event.Timestamp.Hour()]++
		queryCounts[event.Query]++
	}

	report.Summary = model.ReportSummary{
		TotalSearches: len(relevant),
		UniqueUsers:   len(users),
	}
	if len(relevant) > 0 {
		report.Summary.SuccessRate = float64(successful) / float64(len(relevant)) * 100
		report.Summary.AverageResponseTimeMs = float64(totalLatency) / float64(len(relevant))
	}

	report.TopQueries = topQueries(queryCounts, topQueryLimit)
	report.ErrorAnalysis = errorBreakdown(errorCounts)

	return report
}

func topQueries(counts map[string]int, limit int) []model.QueryCount {
	out := make([]model.QueryCount, 0, len(counts))
	for query, count := range counts {
		out = append(out, model.QueryCount{Query: query, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func errorBreakdown(counts map[string]int) []model.ErrorCount {
	out := make([]model.ErrorCount, 0, len(counts))
	for typ, count := range counts {
		out = append(out, model.ErrorCount{Type: typ, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
