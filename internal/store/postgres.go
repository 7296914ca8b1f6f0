package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/cache"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

// Repository implements document-store access on PostgreSQL. Documents
// keep their flexible payloads in JSONB columns; the fields this
// pipeline filters on are promoted to plain columns.
type Repository struct {
	pool          *pgxpool.Pool
	cache         cache.Provider
	alertsTTL     time.Duration
	aggregatesTTL time.Duration
}

// New constructs a Repository over an existing connection pool.
func New(pool *pgxpool.Pool, cacheProvider cache.Provider, alertsTTL, aggregatesTTL time.Duration) *Repository {
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &Repository{
		pool:          pool,
		cache:         cacheProvider,
		alertsTTL:     alertsTTL,
		aggregatesTTL: aggregatesTTL,
	}
}

// Connect opens a pgx pool against the configured database and pings it
// so misconfiguration fails at startup rather than on the first run.
func Connect(ctx context.Context, url string, maxConns int32, timeout time.Duration) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// CountOrdersCreated counts orders created inside the window.
func (r *Repository) CountOrdersCreated(ctx context.Context, start, end time.Time) (int, error) {
	const query = `SELECT count(*) FROM orders WHERE created_at >= $1 AND created_at < $2`
	return r.countRow(ctx, query, start, end)
}

// CountOrdersFulfilled counts orders that reached a fulfilment state
// inside the window.
func (r *Repository) CountOrdersFulfilled(ctx context.Context, start, end time.Time) (int, error) {
	const query = `SELECT count(*) FROM orders
		WHERE updated_at >= $1 AND updated_at < $2 AND status IN ('shipped', 'delivered')`
	return r.countRow(ctx, query, start, end)
}

// CountPayments counts payment attempts inside the window.
func (r *Repository) CountPayments(ctx context.Context, start, end time.Time) (int, error) {
	const query = `SELECT count(*) FROM payments WHERE created_at >= $1 AND created_at < $2`
	return r.countRow(ctx, query, start, end)
}

// CountFailedPayments counts failed payment attempts and returns up to
// sampleLimit recent failure types. Missing error types default to
// "unknown" rather than being treated as malformed documents.
func (r *Repository) CountFailedPayments(ctx context.Context, start, end time.Time, sampleLimit int) (int, []string, error) {
	const countQuery = `SELECT count(*) FROM payments
		WHERE created_at >= $1 AND created_at < $2 AND status = 'failed'`
	total, err := r.countRow(ctx, countQuery, start, end)
	if err != nil {
		return 0, nil, err
	}
	if total == 0 {
		return 0, nil, nil
	}

	const sampleQuery = `SELECT COALESCE(NULLIF(error_type, ''), 'unknown') FROM payments
		WHERE created_at >= $1 AND created_at < $2 AND status = 'failed'
		ORDER BY created_at DESC LIMIT $3`
	samples, err := r.stringRows(ctx, sampleQuery, start, end, sampleLimit)
	if err != nil {
		return 0, nil, err
	}
	return total, samples, nil
}

// CountInventoryUpdates counts stock adjustments inside the window.
func (r *Repository) CountInventoryUpdates(ctx context.Context, start, end time.Time) (int, error) {
	const query = `SELECT count(*) FROM inventory_updates WHERE created_at >= $1 AND created_at < $2`
	return r.countRow(ctx, query, start, end)
}

// CountCategoryErrors counts error and critical system_logs entries for
// a category inside the window, returning up to sampleLimit recent
// messages.
func (r *Repository) CountCategoryErrors(ctx context.Context, category models.Category, start, end time.Time, sampleLimit int) (int, []string, error) {
	const countQuery = `SELECT count(*) FROM system_logs
		WHERE category = $1 AND level IN ('error', 'critical')
		AND created_at >= $2 AND created_at < $3`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, string(category), start, end).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("count %s errors: %w", category, err)
	}
	if total == 0 {
		return 0, nil, nil
	}

	const sampleQuery = `SELECT message FROM system_logs
		WHERE category = $1 AND level IN ('error', 'critical')
		AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC LIMIT $4`
	rows, err := r.pool.Query(ctx, sampleQuery, string(category), start, end, sampleLimit)
	if err != nil {
		return 0, nil, fmt.Errorf("sample %s errors: %w", category, err)
	}
	defer rows.Close()

	var samples []string
	for rows.Next() {
		var message string
		if err := rows.Scan(&message); err != nil {
			return 0, nil, err
		}
		samples = append(samples, message)
	}
	return total, samples, rows.Err()
}

// FetchMetricSamples reads raw performance samples for the window.
func (r *Repository) FetchMetricSamples(ctx context.Context, start, end time.Time) ([]models.MetricSample, error) {
	const query = `SELECT name, value, created_at FROM performance_metrics
		WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch metric samples: %w", err)
	}
	defer rows.Close()

	var samples []models.MetricSample
	for rows.Next() {
		var s models.MetricSample
		if err := rows.Scan(&s.Name, &s.Value, &s.Timestamp); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// StoreAggregatedMetrics persists one aggregation snapshot.
func (r *Repository) StoreAggregatedMetrics(ctx context.Context, agg models.AggregatedMetrics) error {
	payload, err := json.Marshal(agg.Metrics)
	if err != nil {
		return fmt.Errorf("marshal aggregated metrics: %w", err)
	}
	const query = `INSERT INTO aggregated_metrics (created_at, timeframe, metrics) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, agg.Timestamp, agg.Timeframe, payload); err != nil {
		return fmt.Errorf("insert aggregated metrics: %w", err)
	}
	return nil
}

// InsertAlert appends an alert record. Alert IDs are deliberately not
// unique at the storage level: redelivered topic messages create a
// second record, matching the original pipeline's behaviour.
func (r *Repository) InsertAlert(ctx context.Context, alert models.Alert) error {
	payload, err := json.Marshal(alert.Data)
	if err != nil {
		return fmt.Errorf("marshal alert data: %w", err)
	}
	const query = `INSERT INTO system_alerts (alert_id, created_at, category, severity, message, data)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.pool.Exec(ctx, query, alert.ID, alert.Timestamp, string(alert.Category), string(alert.Severity), alert.Message, payload); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// MarkAlertProcessed flips the processed flag for an alert ID and
// records the per-channel delivery outcomes.
func (r *Repository) MarkAlertProcessed(ctx context.Context, alertID string, deliveries []models.DeliveryResult) error {
	payload, err := json.Marshal(deliveries)
	if err != nil {
		return fmt.Errorf("marshal deliveries: %w", err)
	}
	const query = `UPDATE system_alerts
		SET processed = TRUE, processed_at = now(), deliveries = $2
		WHERE alert_id = $1`
	tag, err := r.pool.Exec(ctx, query, alertID, payload)
	if err != nil {
		return fmt.Errorf("mark alert processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %s not found", alertID)
	}
	return nil
}

// RecentAlerts returns the newest alert records, optionally filtered by
// category and severity. Results are cached briefly for the dashboard.
func (r *Repository) RecentAlerts(ctx context.Context, limit int, category, severity string) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("admin:alerts:%d:%s:%s", limit, category, severity)
	if data, err := r.cache.Get(ctx, cacheKey); err == nil {
		var cached []models.Alert
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	const query = `SELECT alert_id, created_at, category, severity, message, data, processed, deliveries
		FROM system_alerts
		WHERE ($2 = '' OR category = $2) AND ($3 = '' OR severity = $3)
		ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit, category, severity)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var (
			a          models.Alert
			data       []byte
			deliveries []byte
		)
		if err := rows.Scan(&a.ID, &a.Timestamp, &a.Category, &a.Severity, &a.Message, &data, &a.Processed, &deliveries); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &a.Data); err != nil {
				return nil, fmt.Errorf("decode alert data: %w", err)
			}
		}
		if len(deliveries) > 0 {
			if err := json.Unmarshal(deliveries, &a.Deliveries); err != nil {
				return nil, fmt.Errorf("decode alert deliveries: %w", err)
			}
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(alerts); err == nil {
		_ = r.cache.Set(ctx, cacheKey, payload, r.alertsTTL)
	}
	return alerts, nil
}

// RecentAggregates returns aggregation snapshots newer than since, most
// recent first, for trend display.
func (r *Repository) RecentAggregates(ctx context.Context, since time.Time, limit int) ([]models.AggregatedMetrics, error) {
	if limit <= 0 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("admin:aggregates:%d:%d", since.Unix(), limit)
	if data, err := r.cache.Get(ctx, cacheKey); err == nil {
		var cached []models.AggregatedMetrics
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	const query = `SELECT created_at, timeframe, metrics FROM aggregated_metrics
		WHERE created_at >= $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list aggregated metrics: %w", err)
	}
	defer rows.Close()

	var aggregates []models.AggregatedMetrics
	for rows.Next() {
		var (
			agg     models.AggregatedMetrics
			metrics []byte
		)
		if err := rows.Scan(&agg.Timestamp, &agg.Timeframe, &metrics); err != nil {
			return nil, err
		}
		if len(metrics) > 0 {
			if err := json.Unmarshal(metrics, &agg.Metrics); err != nil {
				return nil, fmt.Errorf("decode aggregated metrics: %w", err)
			}
		}
		aggregates = append(aggregates, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(aggregates); err == nil {
		_ = r.cache.Set(ctx, cacheKey, payload, r.aggregatesTTL)
	}
	return aggregates, nil
}

func (r *Repository) countRow(ctx context.Context, query string, start, end time.Time) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) stringRows(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
