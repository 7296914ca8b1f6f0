package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/config"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/metrics"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/utils"
)

// AlertStore defines the persistence operations the dispatcher needs.
type AlertStore interface {
	InsertAlert(ctx context.Context, alert models.Alert) error
	MarkAlertProcessed(ctx context.Context, alertID string, deliveries []models.DeliveryResult) error
}

// Channel names recorded on delivery results and metrics labels.
const (
	ChannelChat   = "chat"
	ChannelPaging = "paging"
	ChannelEmail  = "email"
	ChannelSMS    = "sms"
)

// Dispatcher consumes alert payloads from the topic, persists them, and
// fans them out to the channels configured for the alert's severity
// tier. Each channel send is isolated: one failure never blocks the
// others, and every outcome lands in the completion record.
type Dispatcher struct {
	logger     *slog.Logger
	cfg        config.NotifyConfig
	store      AlertStore
	httpClient *http.Client
}

// NewDispatcher constructs a dispatcher with its own HTTP client.
func NewDispatcher(logger *slog.Logger, cfg config.NotifyConfig, store AlertStore) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		logger:     logger,
		cfg:        cfg,
		store:      store,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// HandleMessage consumes one topic payload. Redelivered payloads are
// persisted and dispatched again; nothing deduplicates on the alert ID.
func (d *Dispatcher) HandleMessage(ctx context.Context, payload []byte) {
	var alert models.Alert
	if err := json.Unmarshal(payload, &alert); err != nil {
		d.logger.Error("malformed alert payload", slog.Any("error", err))
		return
	}
	if err := d.Dispatch(ctx, alert); err != nil {
		d.logger.Error("alert dispatch failed",
			slog.String("alert_id", alert.ID),
			slog.Any("error", err))
	}
}

// Dispatch persists the alert, delivers it to the configured channels,
// and marks the persisted record processed with per-channel results.
func (d *Dispatcher) Dispatch(ctx context.Context, alert models.Alert) error {
	if d.store == nil {
		return fmt.Errorf("alert store not configured")
	}

	if err := d.store.InsertAlert(ctx, alert); err != nil {
		return utils.NewAppError("notify.Dispatch", "persist alert", err)
	}

	deliveries := d.deliver(ctx, alert)

	if err := d.store.MarkAlertProcessed(ctx, alert.ID, deliveries); err != nil {
		return utils.NewAppError("notify.Dispatch", "mark alert processed", err)
	}

	d.logger.Info("alert dispatched",
		slog.String("alert_id", alert.ID),
		slog.String("category", string(alert.Category)),
		slog.String("severity", string(alert.Severity)),
		slog.Int("channels", len(deliveries)))
	return nil
}

// deliver sends the alert to every channel in its severity tier.
// Critical alerts hit the paging webhook synchronously before the
// remaining channels fan out concurrently.
func (d *Dispatcher) deliver(ctx context.Context, alert models.Alert) []models.DeliveryResult {
	tier, ok := d.cfg.Channels[alert.Severity]
	if !ok {
		d.logger.Warn("no channels configured for severity",
			slog.String("severity", string(alert.Severity)))
		return nil
	}

	var deliveries []models.DeliveryResult

	if alert.Severity == models.SeverityCritical && tier.PagingWebhookURL != "" {
		deliveries = append(deliveries, d.sendPaging(ctx, tier, alert))
	}

	type send struct {
		channel string
		fn      func() models.DeliveryResult
	}
	var sends []send
	if tier.ChatWebhookURL != "" {
		sends = append(sends, send{ChannelChat, func() models.DeliveryResult {
			return d.sendChat(ctx, tier.ChatWebhookURL, alert)
		}})
	}
	if len(tier.Emails) > 0 {
		sends = append(sends, send{ChannelEmail, func() models.DeliveryResult {
			return d.sendEmailStub(tier.Emails, alert)
		}})
	}
	if len(tier.SMSNumbers) > 0 {
		sends = append(sends, send{ChannelSMS, func() models.DeliveryResult {
			return d.sendSMSStub(tier.SMSNumbers, alert)
		}})
	}

	results := make([]models.DeliveryResult, len(sends))
	var wg sync.WaitGroup
	for i, s := range sends {
		i, s := i, s
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.fn()
		}()
	}
	wg.Wait()

	deliveries = append(deliveries, results...)
	for _, result := range deliveries {
		metrics.RecordNotification(result.Channel, result.OK)
	}
	return deliveries
}

// sendEmailStub only logs intent; real delivery was never wired up.
func (d *Dispatcher) sendEmailStub(recipients []string, alert models.Alert) models.DeliveryResult {
	d.logger.Info("would send email",
		slog.String("alert_id", alert.ID),
		slog.String("recipients", strings.Join(recipients, ",")))
	return models.DeliveryResult{Channel: ChannelEmail, OK: true, SentAt: time.Now().UTC()}
}

// sendSMSStub only logs intent; real delivery was never wired up.
func (d *Dispatcher) sendSMSStub(numbers []string, alert models.Alert) models.DeliveryResult {
	d.logger.Info("would send sms",
		slog.String("alert_id", alert.ID),
		slog.Int("recipients", len(numbers)))
	return models.DeliveryResult{Channel: ChannelSMS, OK: true, SentAt: time.Now().UTC()}
}

func (d *Dispatcher) postJSON(ctx context.Context, url string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
