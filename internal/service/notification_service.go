package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/giftcard-service/internal/events"
)

// NotificationService reacts to gift card events with audit logs and recipient notices.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n == nil || n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGiftCardCreated, n.handleGiftCardCreated)
	n.dispatcher.Subscribe(events.EventGiftCardStatusChanged, n.handleGiftCardStatusChanged)
	n.dispatcher.Subscribe(events.EventGiftCardUpdated, n.handleGiftCardUpdated)
}

func (n *NotificationService) handleGiftCardCreated(ctx context.Context, event events.Event) error {
	n.audit(event)
	if payload, ok := event.Payload.(events.GiftCardCreatedPayload); ok && payload.RecipientEmail != nil {
		n.sendRecipientNoticeStub(ctx, event, *payload.RecipientEmail)
	}
	return nil
}

func (n *NotificationService) handleGiftCardStatusChanged(_ context.Context, event events.Event) error {
	n.audit(event)
	return nil
}

func (n *NotificationService) handleGiftCardUpdated(_ context.Context, event events.Event) error {
	n.audit(event)
	return nil
}

func (n *NotificationService) audit(event events.Event) {
	n.logger.Info("gift card event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("gift_card_id", event.GiftCardID),
		zap.String("owner_id", event.OwnerID),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload))
}

// sendRecipientNoticeStub stands in for delivering the code to the recipient.
func (n *NotificationService) sendRecipientNoticeStub(_ context.Context, event events.Event, email string) {
	n.logger.Debug("sendRecipientNoticeStub",
		zap.String("gift_card_id", event.GiftCardID),
		zap.String("recipient_email", email))
}
