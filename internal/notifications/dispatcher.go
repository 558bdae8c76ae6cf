package notifications

import (
	"context"
	"log/slog"

	"greenroom/internal/logging"
	"greenroom/internal/store"
)

// Dispatcher drains the notification outbox through a Service. Delivery
// failures leave the row pending for the next drain; they never propagate.
type Dispatcher struct {
	store   *store.Store
	service Service
	logger  *slog.Logger
}

// NewDispatcher builds an outbox dispatcher.
func NewDispatcher(st *store.Store, service Service, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		store:   st,
		service: service,
		logger:  logger.With(logging.String(logging.FieldComponent, "notifications")),
	}
}

// Drain delivers pending outbox rows oldest-first and returns how many were
// successfully sent.
func (d *Dispatcher) Drain(ctx context.Context, limit int) (int, error) {
	pending, err := d.store.PendingNotifications(ctx, limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, notification := range pending {
		if err := d.service.Deliver(ctx, notification); err != nil {
			d.logger.Warn("notification delivery failed",
				logging.Int64("notification_id", notification.ID),
				logging.String("type", notification.Type),
				logging.Error(err),
			)
			continue
		}
		if err := d.store.MarkNotificationSent(ctx, notification.ID); err != nil {
			d.logger.Warn("failed to mark notification sent",
				logging.Int64("notification_id", notification.ID),
				logging.Error(err),
			)
			continue
		}
		sent++
	}
	return sent, nil
}
