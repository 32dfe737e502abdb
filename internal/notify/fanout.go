// Package notify is the notification fan-out collaborator boundary. Delivery
// is at-least-once and best effort; the moderation core never blocks a
// decision on it.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Message types published to the fan-out.
const (
	TypeReportReceived  = "report_received"
	TypeReportResolved  = "report_resolved"
	TypeReportDismissed = "report_dismissed"
	TypeAccountActioned = "account_actioned"
)

type Message struct {
	Type      string    `json:"type"`
	ReportID  uuid.UUID `json:"report_id"`
	Body      string    `json:"body"`
	Timestamp int64     `json:"timestamp"`
}

type Fanout interface {
	// Notify delivers the message to each recipient and returns how many
	// deliveries were handed off.
	Notify(ctx context.Context, recipientIDs []uuid.UUID, msg Message) (int, error)
}

// LogFanout is the fallback used when no broker is configured. Messages are
// only logged, which keeps local development free of a RabbitMQ dependency.
type LogFanout struct{}

func (LogFanout) Notify(_ context.Context, recipientIDs []uuid.UUID, msg Message) (int, error) {
	slog.Info("notification fan-out (log only)",
		"type", msg.Type,
		"report_id", msg.ReportID.String(),
		"recipients", len(recipientIDs),
	)
	return len(recipientIDs), nil
}
