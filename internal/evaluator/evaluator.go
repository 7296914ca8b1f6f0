package evaluator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

// Thresholds is the static limit table the evaluator compares against.
// Error-rate limits are percentages per category; performance limits
// are milliseconds per metric name.
type Thresholds struct {
	ErrorRates           map[models.Category]float64
	PerformanceMs        map[string]float64
	DefaultPerformanceMs float64
}

// Evaluator classifies collected metrics against configured thresholds
// and produces alerts for breaches.
type Evaluator struct {
	thresholds Thresholds
}

// New constructs an Evaluator with the supplied threshold table.
func New(thresholds Thresholds) *Evaluator {
	if thresholds.DefaultPerformanceMs <= 0 {
		thresholds.DefaultPerformanceMs = 1000
	}
	return &Evaluator{thresholds: thresholds}
}

// Classify maps an observed value against a threshold. It never emits
// anything below info: observed >= 2x threshold is critical, observed
// >= threshold is warning, everything else is info.
func Classify(observed, threshold float64) models.Severity {
	switch {
	case observed >= 2*threshold:
		return models.SeverityCritical
	case observed >= threshold:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// EvaluateErrorRates converts per-category counts into alerts. A
// category with zero total operations but nonzero errors is treated as
// a 100% error rate against a zero threshold, so it always alerts.
// Categories below their threshold produce no alert at all.
func (e *Evaluator) EvaluateErrorRates(stats []models.CategoryStats, now time.Time) []models.Alert {
	alerts := make([]models.Alert, 0, len(stats))
	for _, s := range stats {
		if s.Total == 0 && s.Errors == 0 {
			continue
		}

		var rate, threshold float64
		if s.Total == 0 {
			// Errors with no baseline volume: alert unconditionally.
			rate = 100
			threshold = 0
		} else {
			rate = float64(s.Errors) / float64(s.Total) * 100
			threshold = e.thresholds.ErrorRates[s.Category]
			if rate < threshold {
				continue
			}
		}

		severity := Classify(rate, threshold)
		alerts = append(alerts, models.Alert{
			ID:        uuid.NewString(),
			Timestamp: now,
			Category:  s.Category,
			Severity:  severity,
			Message:   fmt.Sprintf("%s error rate %.1f%% exceeds threshold %.1f%%", s.Category, rate, threshold),
			Data: models.AlertData{
				ErrorRate:    rate,
				Threshold:    threshold,
				ErrorCount:   s.Errors,
				TotalCount:   s.Total,
				SampleErrors: s.SampleErrors,
			},
		})
	}
	return alerts
}

// EvaluatePerformance produces alerts for aggregated metric averages
// exceeding their per-name threshold. Metrics without a configured
// threshold fall back to the default. Averages below threshold
// classify as info and are not surfaced.
func (e *Evaluator) EvaluatePerformance(agg models.AggregatedMetrics, now time.Time) []models.Alert {
	alerts := make([]models.Alert, 0)
	for name, stats := range agg.Metrics {
		threshold, ok := e.thresholds.PerformanceMs[name]
		if !ok || threshold <= 0 {
			threshold = e.thresholds.DefaultPerformanceMs
		}

		severity := Classify(stats.Average, threshold)
		if severity == models.SeverityInfo {
			continue
		}

		alerts = append(alerts, models.Alert{
			ID:        uuid.NewString(),
			Timestamp: now,
			Category:  models.CategoryPerformance,
			Severity:  severity,
			Message:   fmt.Sprintf("%s averaged %.0fms over %s, threshold %.0fms", name, stats.Average, agg.Timeframe, threshold),
			Data: models.AlertData{
				Observed:   stats.Average,
				Threshold:  threshold,
				TotalCount: stats.Count,
			},
		})
	}
	return alerts
}
