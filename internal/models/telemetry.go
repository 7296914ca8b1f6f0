package models

import "time"

// LogLevel enumerates system_logs severities.
type LogLevel string

const (
	LevelDebug    LogLevel = "debug"
	LevelInfo     LogLevel = "info"
	LevelWarning  LogLevel = "warning"
	LevelError    LogLevel = "error"
	LevelCritical LogLevel = "critical"
)

// LogEntry mirrors a system_logs document. Entries are immutable once
// written; this pipeline only ever reads them.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Category  Category       `json:"category"`
	Level     LogLevel       `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// MetricSample is a single performance observation written by
// instrumented storefront pages.
type MetricSample struct {
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// CategoryStats holds the counts collected for one category over one
// trailing window.
type CategoryStats struct {
	Category     Category
	Total        int
	Errors       int
	SampleErrors []string
}

// MetricStats aggregates observations for a single metric name.
type MetricStats struct {
	Sum     float64 `json:"sum"`
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// AggregatedMetrics is the write-once snapshot persisted per scheduled
// performance run, used for historical trend display.
type AggregatedMetrics struct {
	Timestamp time.Time              `json:"timestamp"`
	Timeframe string                 `json:"timeframe"`
	Metrics   map[string]MetricStats `json:"metrics"`
}
