package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/giftcard-service/internal/api/dto"
	"github.com/spec-kit/giftcard-service/internal/auth"
	"github.com/spec-kit/giftcard-service/internal/domain"
	apperrors "github.com/spec-kit/giftcard-service/pkg/util/errorutil"
)

// Authenticator is the slice of the auth service the user endpoints need.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (*domain.User, *domain.Session, error)
	Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth Authenticator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService Authenticator) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /api/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	user, session, err := h.auth.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"ok":   true,
		"user": dto.NewUserResponse(user),
		"auth": dto.NewAuthResponse(session),
	})
}

// Login handles POST /api/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	user, session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"ok":   true,
		"user": dto.NewUserResponse(user),
		"auth": dto.NewAuthResponse(session),
	})
}

// Logout handles POST /api/logout. It succeeds with or without a live session.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		if err := h.auth.Logout(c.UserContext(), principal.SessionID); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"ok": true, "message": "logged out"})
}

// WhoAmI handles GET /api/user.
func (h *UsersHandler) WhoAmI(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	return c.JSON(fiber.Map{"ok": true, "user": dto.NewUserResponse(principal.User)})
}
