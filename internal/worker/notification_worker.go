package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/whistleblow-portal/internal/events"
	"github.com/spec-kit/whistleblow-portal/internal/service"
)

// StartNotificationWorker wires the notification service into the event
// dispatcher.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) {
	dispatcher.Subscribe(events.EventReportSubmitted, notifications.HandleReportSubmitted)
	dispatcher.Subscribe(events.EventMessageAdded, notifications.HandleMessageAdded)
	dispatcher.Subscribe(events.EventReportStatusChanged, notifications.HandleStatusChanged)
	dispatcher.Subscribe(events.EventConfirmationSent, notifications.HandleStatusChanged)
	logger.Info("notification worker subscribed to case events")
}
