package domain

import "time"

// User is the domain model for account holders who own gift cards.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
