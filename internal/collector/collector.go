package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/utils"
)

// Store defines the document-store reads and writes the collector needs.
type Store interface {
	CountOrdersCreated(ctx context.Context, start, end time.Time) (int, error)
	CountOrdersFulfilled(ctx context.Context, start, end time.Time) (int, error)
	CountPayments(ctx context.Context, start, end time.Time) (int, error)
	CountFailedPayments(ctx context.Context, start, end time.Time, sampleLimit int) (int, []string, error)
	CountInventoryUpdates(ctx context.Context, start, end time.Time) (int, error)
	CountCategoryErrors(ctx context.Context, category models.Category, start, end time.Time, sampleLimit int) (int, []string, error)
	FetchMetricSamples(ctx context.Context, start, end time.Time) ([]models.MetricSample, error)
	StoreAggregatedMetrics(ctx context.Context, agg models.AggregatedMetrics) error
}

// Collector reads recent documents from the store and reduces them to
// per-category counts and per-metric aggregates for one trailing
// window. It holds no state between runs.
type Collector struct {
	logger      *slog.Logger
	store       Store
	window      time.Duration
	sampleLimit int
}

// New constructs a Collector over the supplied store.
func New(logger *slog.Logger, store Store, window time.Duration, sampleLimit int) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	if sampleLimit <= 0 {
		sampleLimit = 5
	}
	return &Collector{logger: logger, store: store, window: window, sampleLimit: sampleLimit}
}

// CollectErrorRates queries totals and error counts for the four
// order-lifecycle categories over the window ending at now. The four
// category queries run concurrently; the first failure aborts the run.
func (c *Collector) CollectErrorRates(ctx context.Context, now time.Time) ([]models.CategoryStats, error) {
	if c.store == nil {
		return nil, fmt.Errorf("store not configured")
	}

	start := utils.WindowStart(now, c.window)
	results := make([]models.CategoryStats, len(models.Categories()))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range models.Categories() {
		i, category := i, category
		g.Go(func() error {
			stats, err := c.collectCategory(gctx, category, start, now)
			if err != nil {
				return fmt.Errorf("collect %s: %w", category, err)
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("collected category counts",
		slog.Time("window_start", start),
		slog.Time("window_end", now))
	return results, nil
}

func (c *Collector) collectCategory(ctx context.Context, category models.Category, start, end time.Time) (models.CategoryStats, error) {
	stats := models.CategoryStats{Category: category}

	var (
		total int
		err   error
	)
	switch category {
	case models.CategoryOrderCreation:
		total, err = c.store.CountOrdersCreated(ctx, start, end)
	case models.CategoryPaymentProcessing:
		total, err = c.store.CountPayments(ctx, start, end)
	case models.CategoryInventory:
		total, err = c.store.CountInventoryUpdates(ctx, start, end)
	case models.CategoryOrderFulfillment:
		total, err = c.store.CountOrdersFulfilled(ctx, start, end)
	default:
		return stats, fmt.Errorf("unknown category %q", category)
	}
	if err != nil {
		return stats, err
	}
	stats.Total = total

	if category == models.CategoryPaymentProcessing {
		failures, samples, err := c.store.CountFailedPayments(ctx, start, end, c.sampleLimit)
		if err != nil {
			return stats, err
		}
		stats.Errors = failures
		stats.SampleErrors = samples
		return stats, nil
	}

	errors, samples, err := c.store.CountCategoryErrors(ctx, category, start, end, c.sampleLimit)
	if err != nil {
		return stats, err
	}
	stats.Errors = errors
	stats.SampleErrors = samples
	return stats, nil
}

// CollectPerformance reads raw performance samples for the window
// ending at now, aggregates them per metric name, and persists the
// snapshot for trend display. The returned aggregate feeds threshold
// evaluation; an empty window yields a snapshot with no metrics and is
// not persisted.
func (c *Collector) CollectPerformance(ctx context.Context, now time.Time) (models.AggregatedMetrics, error) {
	if c.store == nil {
		return models.AggregatedMetrics{}, fmt.Errorf("store not configured")
	}

	start := utils.WindowStart(now, c.window)
	samples, err := c.store.FetchMetricSamples(ctx, start, now)
	if err != nil {
		return models.AggregatedMetrics{}, fmt.Errorf("fetch metric samples: %w", err)
	}

	agg := Aggregate(samples, now)
	if len(agg.Metrics) == 0 {
		c.logger.Debug("no performance samples in window", slog.Time("window_end", now))
		return agg, nil
	}

	if err := c.store.StoreAggregatedMetrics(ctx, agg); err != nil {
		return models.AggregatedMetrics{}, fmt.Errorf("store aggregated metrics: %w", err)
	}
	return agg, nil
}
