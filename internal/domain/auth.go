package domain

import "time"

// Session represents an issued bearer token and the server-side session backing it.
type Session struct {
	ID        string
	UserID    string
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
