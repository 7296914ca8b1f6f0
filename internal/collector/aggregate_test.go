package collector

import (
	"testing"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

func TestAggregateStats(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	samples := []models.MetricSample{
		{Name: "checkout_page_load", Value: 1200},
		{Name: "checkout_page_load", Value: 800},
		{Name: "checkout_page_load", Value: 1000},
		{Name: "cart_update", Value: 300},
	}

	agg := Aggregate(samples, now)

	if agg.Timeframe != Timeframe {
		t.Fatalf("unexpected timeframe: %s", agg.Timeframe)
	}
	if !agg.Timestamp.Equal(now) {
		t.Fatalf("unexpected timestamp: %v", agg.Timestamp)
	}
	if len(agg.Metrics) != 2 {
		t.Fatalf("expected two metric names, got %d", len(agg.Metrics))
	}

	checkout := agg.Metrics["checkout_page_load"]
	if checkout.Count != 3 {
		t.Fatalf("expected count 3, got %d", checkout.Count)
	}
	if checkout.Sum != 3000 {
		t.Fatalf("expected sum 3000, got %v", checkout.Sum)
	}
	if checkout.Min != 800 || checkout.Max != 1200 {
		t.Fatalf("unexpected min/max: %v/%v", checkout.Min, checkout.Max)
	}
	if checkout.Average != 1000 {
		t.Fatalf("expected average 1000, got %v", checkout.Average)
	}

	cart := agg.Metrics["cart_update"]
	if cart.Count != 1 || cart.Min != 300 || cart.Max != 300 || cart.Average != 300 {
		t.Fatalf("unexpected single-sample stats: %+v", cart)
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(nil, time.Now())
	if len(agg.Metrics) != 0 {
		t.Fatalf("expected empty metrics map, got %d entries", len(agg.Metrics))
	}
}
