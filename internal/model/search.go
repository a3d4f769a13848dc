// Package model defines data structures for the discovery platform.
package model

import (
	"time"
)

// SearchType is the input channel of a search.
type SearchType string

const (
	SearchTypeText  SearchType = "text"
	SearchTypeImage SearchType = "image"
	SearchTypeVoice SearchType = "voice"
)

// Source is the AI provider that answered a search.
type Source string

const (
	SourceGrok    Source = "grok"
	SourceGemini  Source = "gemini"
	SourceWhisper Source = "whisper"
	SourceUnknown Source = "unknown"
)

// DeviceInfo is a coarse classification of the requesting device.
type DeviceInfo struct {
	Type    string `json:"type"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

// SearchSample is the caller-supplied portion of a search event. The
// aggregator enriches it with a timestamp, user ID, and device info
// before it enters history.
type SearchSample struct {
	Query          string     `json:"query"`
	SearchType     SearchType `json:"search_type"`
	Source         Source     `json:"source"`
	Successful     bool       `json:"successful"`
	ResponseTimeMs int64      `json:"response_time_ms"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	UserID         string     `json:"user_id,omitempty"`
	UserAgent      string     `json:"-"`
}

// SearchEvent is one immutable record per search attempt. History is
// append-only; records leave only by age during the hourly sweep.
type SearchEvent struct {
	Query          string     `json:"query"`
	SearchType     SearchType `json:"search_type"`
	Source         Source     `json:"source"`
	Successful     bool       `json:"successful"`
	ResponseTimeMs int64      `json:"response_time_ms"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
	UserID         string     `json:"user_id"`
	DeviceInfo     DeviceInfo `json:"device_info"`
}

// EngagementEvent is a named non-search interaction (auth, business card
// click, share). Forwarded to telemetry sinks, never aggregated.
type EngagementEvent struct {
	EventName  string         `json:"event_name"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// MetricsSnapshot is a fully derived, point-in-time metrics value. Every
// field is a pure function of the search history at evaluation time.
type MetricsSnapshot struct {
	SearchSuccessRate     float64            `json:"search_success_rate"`
	AverageResponseTimeMs float64            `json:"average_response_time_ms"`
	ErrorRate             float64            `json:"error_rate"`
	TotalSearches         int64              `json:"total_searches"`
	ActiveUsers           int                `json:"active_users"`
	SearchTypes           map[SearchType]int `json:"search_types"`
	APIUsage              map[Source]int     `json:"api_usage"`
	ResponseTimeSamples   []int64            `json:"response_time_samples"`
}

// ReportRange selects the lookback window for a custom report.
type ReportRange string

const (
	RangeHour ReportRange = "hour"
	RangeDay  ReportRange = "day"
	RangeWeek ReportRange = "week"
)

// QueryCount pairs a query string with its occurrence count.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// ErrorCount pairs an error message with its occurrence count.
type ErrorCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ReportSummary holds the headline numbers of a custom report.
type ReportSummary struct {
	TotalSearches         int     `json:"total_searches"`
	SuccessRate           float64 `json:"success_rate"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
	UniqueUsers           int     `json:"unique_users"`
}

// Report is an ad-hoc historical report over a fixed lookback window.
type Report struct {
	Range              ReportRange        `json:"range"`
	Summary            ReportSummary      `json:"summary"`
	SearchTypes        map[SearchType]int `json:"search_types"`
	APIUsage           map[Source]int     `json:"api_usage"`
	HourlyDistribution [24]int            `json:"hourly_distribution"`
	TopQueries         []QueryCount       `json:"top_queries"`
	ErrorAnalysis      []ErrorCount       `json:"error_analysis"`
}
