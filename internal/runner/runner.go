package runner

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/bus"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/collector"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/evaluator"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/metrics"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/utils"
)

// Job names used in logs and metrics labels.
const (
	JobErrorRates  = "error-rates"
	JobPerformance = "performance"
)

// Runner drives the two scheduled monitoring jobs. Each job ticks on
// its own interval with no coordination against the other; within a
// loop a slow run simply pushes the next tick back rather than being
// skipped or cancelled.
type Runner struct {
	logger    *slog.Logger
	interval  time.Duration
	collector *collector.Collector
	evaluator *evaluator.Evaluator
	publisher bus.Publisher
	latencies *utils.LatencyTracker
}

// New constructs a Runner.
func New(logger *slog.Logger, interval time.Duration, c *collector.Collector, e *evaluator.Evaluator, publisher bus.Publisher) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Runner{
		logger:    logger,
		interval:  interval,
		collector: c,
		evaluator: e,
		publisher: publisher,
		latencies: utils.NewLatencyTracker(512),
	}
}

// Start launches both job loops and blocks until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.loop(ctx, JobErrorRates, r.RunErrorRates)
	}()
	go func() {
		defer wg.Done()
		r.loop(ctx, JobPerformance, r.RunPerformance)
	}()
	wg.Wait()
}

func (r *Runner) loop(ctx context.Context, job string, run func(context.Context, time.Time)) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("monitoring job scheduled",
		slog.String("job", job),
		slog.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.observe(job, now, run)
		}
	}
}

func (r *Runner) observe(job string, now time.Time, run func(context.Context, time.Time)) {
	start := time.Now()
	// Runs are never cancelled mid-flight; shutdown only stops the tick loop.
	run(context.Background(), now)
	duration := time.Since(start)

	r.latencies.Observe(duration)
	if count := r.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := r.latencies.Percentile(95)
		r.logger.Info("run latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}
}

// RunErrorRates executes one error-rate window: collect counts for each
// category, evaluate thresholds, publish breaches. Query failures are
// logged and the run returns without alerting.
func (r *Runner) RunErrorRates(ctx context.Context, now time.Time) {
	start := time.Now()

	stats, err := r.collector.CollectErrorRates(ctx, now)
	if err != nil {
		r.logger.Error("error-rate collection failed", slog.Any("error", err))
		metrics.ObserveRun(JobErrorRates, time.Since(start), metrics.OutcomeError)
		return
	}

	alerts := r.evaluator.EvaluateErrorRates(stats, now)
	r.publish(ctx, JobErrorRates, alerts)
	metrics.ObserveRun(JobErrorRates, time.Since(start), metrics.OutcomeSuccess)
}

// RunPerformance executes one performance window: aggregate raw
// samples, persist the snapshot, evaluate averages, publish breaches.
func (r *Runner) RunPerformance(ctx context.Context, now time.Time) {
	start := time.Now()

	agg, err := r.collector.CollectPerformance(ctx, now)
	if err != nil {
		r.logger.Error("performance collection failed", slog.Any("error", err))
		metrics.ObserveRun(JobPerformance, time.Since(start), metrics.OutcomeError)
		return
	}

	alerts := r.evaluator.EvaluatePerformance(agg, now)
	r.publish(ctx, JobPerformance, alerts)
	metrics.ObserveRun(JobPerformance, time.Since(start), metrics.OutcomeSuccess)
}

func (r *Runner) publish(ctx context.Context, job string, alerts []models.Alert) {
	for _, alert := range alerts {
		payload, err := json.Marshal(alert)
		if err != nil {
			r.logger.Error("marshal alert failed",
				slog.String("job", job),
				slog.Any("error", err))
			continue
		}
		if err := r.publisher.Publish(ctx, payload); err != nil {
			r.logger.Error("publish alert failed",
				slog.String("job", job),
				slog.String("alert_id", alert.ID),
				slog.Any("error", err))
			continue
		}
		metrics.RecordAlert(string(alert.Category), string(alert.Severity))
		r.logger.Info("alert published",
			slog.String("job", job),
			slog.String("alert_id", alert.ID),
			slog.String("category", string(alert.Category)),
			slog.String("severity", string(alert.Severity)))
	}
}
