package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/config"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

// pagerEvent is the events-API body shape expected by the paging
// provider.
type pagerEvent struct {
	RoutingKey  string       `json:"routing_key"`
	EventAction string       `json:"event_action"`
	Payload     pagerPayload `json:"payload"`
}

type pagerPayload struct {
	Summary       string         `json:"summary"`
	Source        string         `json:"source"`
	Severity      string         `json:"severity"`
	CustomDetails map[string]any `json:"custom_details"`
}

func (d *Dispatcher) sendPaging(ctx context.Context, tier config.ChannelSet, alert models.Alert) models.DeliveryResult {
	result := models.DeliveryResult{Channel: ChannelPaging, SentAt: time.Now().UTC()}

	event := pagerEvent{
		RoutingKey:  tier.PagingRoutingKey,
		EventAction: "trigger",
		Payload: pagerPayload{
			Summary:  alert.Message,
			Source:   d.cfg.Source,
			Severity: string(alert.Severity),
			CustomDetails: map[string]any{
				"alert_id":  alert.ID,
				"category":  string(alert.Category),
				"errorRate": alert.Data.ErrorRate,
				"observed":  alert.Data.Observed,
				"threshold": alert.Data.Threshold,
			},
		},
	}

	if err := d.postJSON(ctx, tier.PagingWebhookURL, event); err != nil {
		d.logger.Warn("paging webhook failed",
			slog.String("alert_id", alert.ID),
			slog.Any("error", err))
		result.Error = err.Error()
		return result
	}
	result.OK = true
	return result
}
