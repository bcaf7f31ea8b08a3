package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/skyops/crew-admin/internal/events"
)

// StartAuditWorker subscribes an audit-trail logger to every admin event.
// The gateway owns no durable state, so the trail goes to the structured log.
func StartAuditWorker(bus events.Dispatcher, logger *zap.Logger) {
	if bus == nil {
		return
	}
	audit := logger.Named("audit")

	handler := func(ctx context.Context, event events.Event) error {
		audit.Info("admin action",
			zap.String("event_id", event.ID),
			zap.String("event", string(event.Type)),
			zap.String("actor", event.Actor.Subject),
			zap.String("actor_role", event.Actor.Role),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, eventType := range events.All {
		bus.Subscribe(eventType, handler)
	}
}
