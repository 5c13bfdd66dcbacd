// Package notify is the fire-and-forget notification collaborator. Services
// call Send after their transaction commits; a failed send is logged and
// never rolls back or fails the parent operation.
package notify

import (
	"context"
	"log/slog"
)

// TemplateKind selects the downstream template for a notification.
type TemplateKind string

const (
	KindAgendaPublished  TemplateKind = "agenda_published"
	KindStatusChanged    TemplateKind = "resource_status_changed"
	KindMinutesFinalized TemplateKind = "minutes_finalized"
)

// Notifier delivers a notification. Implementations are best-effort; the
// error return exists for logging, not control flow.
type Notifier interface {
	Send(ctx context.Context, recipient string, kind TemplateKind, data map[string]string) error
}

// LogNotifier records notifications in the structured log. Default
// implementation until an outbound channel is wired.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, recipient string, kind TemplateKind, data map[string]string) error {
	n.logger.InfoContext(ctx, "notification",
		"recipient", recipient,
		"kind", string(kind),
		"data", data,
	)
	return nil
}
