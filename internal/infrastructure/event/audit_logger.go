package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/opencrm/backend/internal/domain/shared"
)

// AuditLogger is a wildcard handler that writes every domain event to
// the structured log, giving a flat audit trail of customer, product
// and order changes.
type AuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger creates a new audit logging handler
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// Handle logs the event
func (a *AuditLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	a.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns nil so the handler receives all events
func (a *AuditLogger) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*AuditLogger)(nil)
