package models

import "time"

// Category enumerates the order-lifecycle stages watched by the monitor.
type Category string

const (
	CategoryOrderCreation     Category = "order-creation"
	CategoryPaymentProcessing Category = "payment-processing"
	CategoryInventory         Category = "inventory-management"
	CategoryOrderFulfillment  Category = "order-fulfillment"

	// CategoryPerformance tags alerts raised from aggregated page
	// timings rather than one of the four error-rate categories.
	CategoryPerformance Category = "performance"
)

// Categories lists the four error-rate categories in collection order.
func Categories() []Category {
	return []Category{
		CategoryOrderCreation,
		CategoryPaymentProcessing,
		CategoryInventory,
		CategoryOrderFulfillment,
	}
}

// Severity captures alert impact tiers.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is the unit published on the notification topic and persisted
// in the system_alerts collection. The ID is generated when the alert
// is created and travels with the payload so the dispatcher can mark
// the persisted record processed without a timestamp lookup.
type Alert struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Category  Category  `json:"category"`
	Message   string    `json:"message"`
	Data      AlertData `json:"data"`
	Severity  Severity  `json:"severity"`

	Processed  bool             `json:"processed,omitempty"`
	Deliveries []DeliveryResult `json:"deliveries,omitempty"`
}

// AlertData carries the numbers behind a threshold breach.
type AlertData struct {
	ErrorRate    float64  `json:"errorRate,omitempty"`
	Observed     float64  `json:"observed,omitempty"`
	Threshold    float64  `json:"threshold"`
	ErrorCount   int      `json:"errorCount,omitempty"`
	TotalCount   int      `json:"totalCount,omitempty"`
	SampleErrors []string `json:"sampleErrors,omitempty"`
}

// DeliveryResult records the outcome of one notification channel send.
type DeliveryResult struct {
	Channel string    `json:"channel"`
	OK      bool      `json:"ok"`
	Error   string    `json:"error,omitempty"`
	SentAt  time.Time `json:"sentAt"`
}
