package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

type fakeStore struct {
	ordersCreated    int
	ordersFulfilled  int
	payments         int
	failedPayments   int
	paymentSamples   []string
	inventoryUpdates int
	logErrors        map[models.Category]int
	logSamples       map[models.Category][]string
	metricSamples    []models.MetricSample

	storedAggregates []models.AggregatedMetrics
	failCategory     models.Category
	fetchErr         error
}

func (f *fakeStore) CountOrdersCreated(ctx context.Context, start, end time.Time) (int, error) {
	if f.failCategory == models.CategoryOrderCreation {
		return 0, errors.New("query failed")
	}
	return f.ordersCreated, nil
}

func (f *fakeStore) CountOrdersFulfilled(ctx context.Context, start, end time.Time) (int, error) {
	return f.ordersFulfilled, nil
}

func (f *fakeStore) CountPayments(ctx context.Context, start, end time.Time) (int, error) {
	return f.payments, nil
}

func (f *fakeStore) CountFailedPayments(ctx context.Context, start, end time.Time, sampleLimit int) (int, []string, error) {
	samples := f.paymentSamples
	if len(samples) > sampleLimit {
		samples = samples[:sampleLimit]
	}
	return f.failedPayments, samples, nil
}

func (f *fakeStore) CountInventoryUpdates(ctx context.Context, start, end time.Time) (int, error) {
	return f.inventoryUpdates, nil
}

func (f *fakeStore) CountCategoryErrors(ctx context.Context, category models.Category, start, end time.Time, sampleLimit int) (int, []string, error) {
	return f.logErrors[category], f.logSamples[category], nil
}

func (f *fakeStore) FetchMetricSamples(ctx context.Context, start, end time.Time) ([]models.MetricSample, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.metricSamples, nil
}

func (f *fakeStore) StoreAggregatedMetrics(ctx context.Context, agg models.AggregatedMetrics) error {
	f.storedAggregates = append(f.storedAggregates, agg)
	return nil
}

func TestCollectErrorRates(t *testing.T) {
	store := &fakeStore{
		ordersCreated:    40,
		ordersFulfilled:  25,
		payments:         100,
		failedPayments:   3,
		paymentSamples:   []string{"card_declined", "card_declined", "unknown"},
		inventoryUpdates: 60,
		logErrors:        map[models.Category]int{models.CategoryOrderCreation: 1},
		logSamples:       map[models.Category][]string{models.CategoryOrderCreation: {"validation failed"}},
	}
	c := New(nil, store, 5*time.Minute, 5)

	stats, err := c.CollectErrorRates(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 4 {
		t.Fatalf("expected four categories, got %d", len(stats))
	}

	byCategory := make(map[models.Category]models.CategoryStats)
	for _, s := range stats {
		byCategory[s.Category] = s
	}

	payments := byCategory[models.CategoryPaymentProcessing]
	if payments.Total != 100 || payments.Errors != 3 {
		t.Fatalf("unexpected payment stats: %+v", payments)
	}
	if len(payments.SampleErrors) != 3 {
		t.Fatalf("expected three payment samples, got %d", len(payments.SampleErrors))
	}

	creation := byCategory[models.CategoryOrderCreation]
	if creation.Total != 40 || creation.Errors != 1 {
		t.Fatalf("unexpected creation stats: %+v", creation)
	}
}

func TestCollectErrorRatesQueryFailureAborts(t *testing.T) {
	store := &fakeStore{failCategory: models.CategoryOrderCreation}
	c := New(nil, store, 5*time.Minute, 5)

	if _, err := c.CollectErrorRates(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected collection error to surface")
	}
}

func TestCollectPerformancePersistsSnapshot(t *testing.T) {
	store := &fakeStore{
		metricSamples: []models.MetricSample{
			{Name: "checkout_page_load", Value: 1200},
			{Name: "checkout_page_load", Value: 1400},
		},
	}
	c := New(nil, store, 5*time.Minute, 5)

	agg, err := c.CollectPerformance(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Metrics["checkout_page_load"].Average != 1300 {
		t.Fatalf("unexpected average: %v", agg.Metrics["checkout_page_load"].Average)
	}
	if len(store.storedAggregates) != 1 {
		t.Fatalf("expected one persisted snapshot, got %d", len(store.storedAggregates))
	}
}

func TestCollectPerformanceEmptyWindow(t *testing.T) {
	store := &fakeStore{}
	c := New(nil, store, 5*time.Minute, 5)

	agg, err := c.CollectPerformance(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(agg.Metrics) != 0 {
		t.Fatalf("expected no metrics, got %d", len(agg.Metrics))
	}
	if len(store.storedAggregates) != 0 {
		t.Fatalf("empty window should not persist a snapshot")
	}
}
