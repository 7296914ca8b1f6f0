package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels runs that completed their window.
	OutcomeSuccess = "success"
	// OutcomeError labels runs aborted by a query failure.
	OutcomeError = "error"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_monitor",
			Name:      "runs_total",
			Help:      "Total number of scheduled monitoring runs, partitioned by job and outcome.",
		},
		[]string{"job", "outcome"},
	)

	runDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "order_monitor",
			Name:      "run_seconds",
			Help:      "Monitoring run latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"job"},
	)

	alertsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_monitor",
			Name:      "alerts_emitted_total",
			Help:      "Alerts published to the notification topic, partitioned by category and severity.",
		},
		[]string{"category", "severity"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_monitor",
			Name:      "notifications_total",
			Help:      "Notification channel sends, partitioned by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)
)

// Register attaches order-monitor collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		runsTotal,
		runDurationSeconds,
		alertsEmittedTotal,
		notificationsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRun records one scheduled run's duration and outcome.
func ObserveRun(job string, duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	runsTotal.WithLabelValues(job, label).Inc()
	if duration < 0 {
		duration = 0
	}
	runDurationSeconds.WithLabelValues(job).Observe(duration.Seconds())
}

// RecordAlert counts one alert published to the topic.
func RecordAlert(category, severity string) {
	alertsEmittedTotal.WithLabelValues(category, severity).Inc()
}

// RecordNotification counts one channel send outcome.
func RecordNotification(channel string, ok bool) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
	}
	notificationsTotal.WithLabelValues(channel, outcome).Inc()
}
