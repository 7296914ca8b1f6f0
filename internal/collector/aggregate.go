package collector

import (
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

// Timeframe labels every aggregation snapshot. The window length is
// fixed; historical rows are comparable only because of this.
const Timeframe = "5min"

// Aggregate reduces raw samples into per-name sum/count/min/max/average
// statistics. Raw samples are discarded from working memory afterwards;
// they persist independently in the performance_metrics collection.
func Aggregate(samples []models.MetricSample, now time.Time) models.AggregatedMetrics {
	agg := models.AggregatedMetrics{
		Timestamp: now,
		Timeframe: Timeframe,
		Metrics:   make(map[string]models.MetricStats),
	}

	for _, sample := range samples {
		stats, ok := agg.Metrics[sample.Name]
		if !ok {
			stats = models.MetricStats{Min: sample.Value, Max: sample.Value}
		}
		stats.Sum += sample.Value
		stats.Count++
		if sample.Value < stats.Min {
			stats.Min = sample.Value
		}
		if sample.Value > stats.Max {
			stats.Max = sample.Value
		}
		agg.Metrics[sample.Name] = stats
	}

	for name, stats := range agg.Metrics {
		stats.Average = stats.Sum / float64(stats.Count)
		agg.Metrics[name] = stats
	}
	return agg
}
