package dto

import (
	"time"

	"github.com/spec-kit/giftcard-service/internal/domain"
)

// CredentialsRequest is the payload for register and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse carries the bearer token for a new session.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewUserResponse never exposes the password hash.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func NewAuthResponse(s *domain.Session) AuthResponse {
	return AuthResponse{Token: s.Token, ExpiresAt: s.ExpiresAt}
}
