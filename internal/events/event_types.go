package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGiftCardCreated       EventType = "gift_card_created"
	EventGiftCardStatusChanged EventType = "gift_card_status_changed"
	EventGiftCardUpdated       EventType = "gift_card_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	GiftCardID string      `json:"gift_card_id"`
	OwnerID    string      `json:"owner_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// GiftCardCreatedPayload payload.
type GiftCardCreatedPayload struct {
	Amount         int64   `json:"amount"`
	RecipientEmail *string `json:"recipient_email,omitempty"`
}

// GiftCardStatusChangedPayload payload.
type GiftCardStatusChangedPayload struct {
	OldIsUsed bool `json:"old_is_used"`
	NewIsUsed bool `json:"new_is_used"`
}

// GiftCardUpdatedPayload lists the fields touched by a generic update.
type GiftCardUpdatedPayload struct {
	Fields []string `json:"fields"`
}
