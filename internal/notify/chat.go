package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

// chatMessage is the webhook body shape expected by the team chat
// integration: a summary line plus one color-coded attachment with
// field pairs.
type chatMessage struct {
	Text        string           `json:"text"`
	Attachments []chatAttachment `json:"attachments"`
}

type chatAttachment struct {
	Color  string      `json:"color"`
	Fields []chatField `json:"fields"`
}

type chatField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func (d *Dispatcher) sendChat(ctx context.Context, url string, alert models.Alert) models.DeliveryResult {
	result := models.DeliveryResult{Channel: ChannelChat, SentAt: time.Now().UTC()}

	if err := d.postJSON(ctx, url, buildChatMessage(alert)); err != nil {
		d.logger.Warn("chat webhook failed",
			slog.String("alert_id", alert.ID),
			slog.Any("error", err))
		result.Error = err.Error()
		return result
	}
	result.OK = true
	return result
}

func buildChatMessage(alert models.Alert) chatMessage {
	fields := []chatField{
		{Title: "Category", Value: string(alert.Category), Short: true},
		{Title: "Severity", Value: string(alert.Severity), Short: true},
	}
	if alert.Data.ErrorRate > 0 || alert.Data.TotalCount > 0 {
		fields = append(fields,
			chatField{Title: "Error Rate", Value: fmt.Sprintf("%.1f%%", alert.Data.ErrorRate), Short: true},
			chatField{Title: "Threshold", Value: fmt.Sprintf("%.1f%%", alert.Data.Threshold), Short: true},
			chatField{Title: "Errors", Value: fmt.Sprintf("%d / %d", alert.Data.ErrorCount, alert.Data.TotalCount), Short: true},
		)
	}
	if alert.Data.Observed > 0 {
		fields = append(fields,
			chatField{Title: "Observed", Value: fmt.Sprintf("%.0fms", alert.Data.Observed), Short: true},
			chatField{Title: "Threshold", Value: fmt.Sprintf("%.0fms", alert.Data.Threshold), Short: true},
		)
	}
	fields = append(fields, chatField{
		Title: "Time",
		Value: alert.Timestamp.UTC().Format(time.RFC3339),
		Short: true,
	})

	return chatMessage{
		Text: fmt.Sprintf("[%s] %s", alert.Severity, alert.Message),
		Attachments: []chatAttachment{{
			Color:  severityColor(alert.Severity),
			Fields: fields,
		}},
	}
}

func severityColor(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return "danger"
	case models.SeverityWarning:
		return "warning"
	default:
		return "good"
	}
}
