package evaluator

import (
	"testing"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

func testThresholds() Thresholds {
	return Thresholds{
		ErrorRates: map[models.Category]float64{
			models.CategoryOrderCreation:     5,
			models.CategoryPaymentProcessing: 2,
			models.CategoryInventory:         1,
			models.CategoryOrderFulfillment:  3,
		},
		PerformanceMs:        map[string]float64{"checkout_page_load": 3000},
		DefaultPerformanceMs: 1000,
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		observed  float64
		threshold float64
		want      models.Severity
	}{
		{observed: 1.9, threshold: 2, want: models.SeverityInfo},
		{observed: 2, threshold: 2, want: models.SeverityWarning},
		{observed: 3.9, threshold: 2, want: models.SeverityWarning},
		{observed: 4, threshold: 2, want: models.SeverityCritical},
		{observed: 6, threshold: 2, want: models.SeverityCritical},
		{observed: 100, threshold: 0, want: models.SeverityCritical},
	}
	for _, tc := range cases {
		if got := Classify(tc.observed, tc.threshold); got != tc.want {
			t.Errorf("Classify(%v, %v) = %v, want %v", tc.observed, tc.threshold, got, tc.want)
		}
	}
}

func TestEvaluateErrorRatesWarning(t *testing.T) {
	e := New(testThresholds())
	now := time.Unix(1_700_000_000, 0)

	alerts := e.EvaluateErrorRates([]models.CategoryStats{
		{Category: models.CategoryPaymentProcessing, Total: 100, Errors: 3, SampleErrors: []string{"card_declined"}},
	}, now)

	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	alert := alerts[0]
	if alert.Category != models.CategoryPaymentProcessing {
		t.Fatalf("unexpected category: %s", alert.Category)
	}
	if alert.Severity != models.SeverityWarning {
		t.Fatalf("expected warning, got %s", alert.Severity)
	}
	if alert.Data.ErrorRate < 2.99 || alert.Data.ErrorRate > 3.01 {
		t.Fatalf("expected rate near 3.0, got %v", alert.Data.ErrorRate)
	}
	if alert.ID == "" {
		t.Fatalf("expected alert ID to be set")
	}
	if alert.Data.SampleErrors[0] != "card_declined" {
		t.Fatalf("expected sample errors to carry through")
	}
}

func TestEvaluateErrorRatesCritical(t *testing.T) {
	e := New(testThresholds())

	alerts := e.EvaluateErrorRates([]models.CategoryStats{
		{Category: models.CategoryPaymentProcessing, Total: 100, Errors: 6},
	}, time.Now())

	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	if alerts[0].Severity != models.SeverityCritical {
		t.Fatalf("expected critical at 6%% against 2%% threshold, got %s", alerts[0].Severity)
	}
}

func TestEvaluateErrorRatesBelowThreshold(t *testing.T) {
	e := New(testThresholds())

	alerts := e.EvaluateErrorRates([]models.CategoryStats{
		{Category: models.CategoryOrderCreation, Total: 200, Errors: 2},
	}, time.Now())

	if len(alerts) != 0 {
		t.Fatalf("expected no alert below threshold, got %d", len(alerts))
	}
}

// Errors with no baseline volume alert unconditionally. Whether this is
// intentional upstream is unclear; the behaviour is preserved as-is.
func TestEvaluateErrorRatesZeroDenominator(t *testing.T) {
	e := New(testThresholds())

	alerts := e.EvaluateErrorRates([]models.CategoryStats{
		{Category: models.CategoryInventory, Total: 0, Errors: 2},
	}, time.Now())

	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	if alerts[0].Data.ErrorRate != 100 {
		t.Fatalf("expected 100%% rate, got %v", alerts[0].Data.ErrorRate)
	}
	if alerts[0].Data.Threshold != 0 {
		t.Fatalf("expected zero threshold, got %v", alerts[0].Data.Threshold)
	}
	if alerts[0].Severity != models.SeverityCritical {
		t.Fatalf("expected critical, got %s", alerts[0].Severity)
	}
}

func TestEvaluateErrorRatesEmptyCategory(t *testing.T) {
	e := New(testThresholds())

	alerts := e.EvaluateErrorRates([]models.CategoryStats{
		{Category: models.CategoryOrderFulfillment, Total: 0, Errors: 0},
	}, time.Now())

	if len(alerts) != 0 {
		t.Fatalf("expected quiet window to produce no alerts, got %d", len(alerts))
	}
}

func TestEvaluatePerformanceDefaultThreshold(t *testing.T) {
	e := New(testThresholds())

	agg := models.AggregatedMetrics{
		Timeframe: "5min",
		Metrics: map[string]models.MetricStats{
			"cart_update": {Sum: 4500, Count: 3, Min: 1200, Max: 1800, Average: 1500},
		},
	}
	alerts := e.EvaluatePerformance(agg, time.Now())

	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	if alerts[0].Severity != models.SeverityWarning {
		t.Fatalf("expected warning at 1500ms against default 1000ms, got %s", alerts[0].Severity)
	}
	if alerts[0].Data.Threshold != 1000 {
		t.Fatalf("expected default threshold 1000, got %v", alerts[0].Data.Threshold)
	}
}

func TestEvaluatePerformanceInfoSuppressed(t *testing.T) {
	e := New(testThresholds())

	agg := models.AggregatedMetrics{
		Timeframe: "5min",
		Metrics: map[string]models.MetricStats{
			"checkout_page_load": {Sum: 2000, Count: 2, Min: 900, Max: 1100, Average: 1000},
		},
	}
	alerts := e.EvaluatePerformance(agg, time.Now())

	if len(alerts) != 0 {
		t.Fatalf("expected no alert below the 3000ms threshold, got %d", len(alerts))
	}
}
