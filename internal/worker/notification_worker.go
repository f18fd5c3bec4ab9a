package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/giftcard-service/internal/events"
	"github.com/spec-kit/giftcard-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// dispatcher and returns the service for callers that need it.
func StartNotificationWorker(dispatcher events.Dispatcher, logger *zap.Logger) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	notifications := service.NewNotificationService(dispatcher, logger.Named("notifications"))
	notifications.RegisterHandlers()
	return notifications
}
