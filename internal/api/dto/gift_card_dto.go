package dto

import (
	"time"

	"github.com/spec-kit/giftcard-service/internal/domain"
)

// CreateGiftCardRequest payload. A missing amount decodes to zero and is
// rejected as an invalid amount by the service.
type CreateGiftCardRequest struct {
	Amount         int64   `json:"amount"`
	RecipientName  *string `json:"recipientName" validate:"omitempty,max=255"`
	RecipientEmail *string `json:"recipientEmail"`
}

// UpdateGiftCardStatusRequest payload.
type UpdateGiftCardStatusRequest struct {
	IsUsed *bool `json:"isUsed" validate:"required"`
}

// UpdateGiftCardRequest is a partial update; absent fields are untouched.
type UpdateGiftCardRequest struct {
	Code           *string    `json:"code"`
	Amount         *int64     `json:"amount"`
	IsUsed         *bool      `json:"isUsed"`
	RecipientName  *string    `json:"recipientName" validate:"omitempty,max=255"`
	RecipientEmail *string    `json:"recipientEmail"`
	SentAt         *time.Time `json:"sentAt"`
	ReceivedAt     *time.Time `json:"receivedAt"`
}

// GiftCardResponse is the card as returned to its owner.
type GiftCardResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Code           string     `json:"code"`
	Amount         int64      `json:"amount"`
	IsUsed         bool       `json:"isUsed"`
	RecipientName  *string    `json:"recipientName"`
	RecipientEmail *string    `json:"recipientEmail"`
	SentAt         *time.Time `json:"sentAt"`
	ReceivedAt     *time.Time `json:"receivedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func NewGiftCardResponse(card *domain.GiftCard) GiftCardResponse {
	return GiftCardResponse{
		ID:             card.ID,
		UserID:         card.UserID,
		Code:           card.Code,
		Amount:         card.Amount,
		IsUsed:         card.IsUsed,
		RecipientName:  card.RecipientName,
		RecipientEmail: card.RecipientEmail,
		SentAt:         card.SentAt,
		ReceivedAt:     card.ReceivedAt,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

func NewGiftCardListResponse(cards []domain.GiftCard) []GiftCardResponse {
	out := make([]GiftCardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, NewGiftCardResponse(&cards[i]))
	}
	return out
}
