package domain

import "time"

// GiftCard is an issued claim code tracked on behalf of its owner.
type GiftCard struct {
	ID             string
	UserID         string
	Code           string
	Amount         int64
	IsUsed         bool
	RecipientName  *string
	RecipientEmail *string
	SentAt         *time.Time
	ReceivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnedBy reports whether userID owns the card.
func (g *GiftCard) OwnedBy(userID string) bool {
	return g != nil && userID != "" && g.UserID == userID
}
