package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/giftcard-service/internal/domain"
	apperrors "github.com/spec-kit/giftcard-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller of a single request.
type Principal struct {
	User      *domain.User
	SessionID string
}

// IdentityResolver turns a bearer token into the caller's identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*Principal, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	resolver IdentityResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}
	principal, err := m.resolver.ResolveIdentity(c.UserContext(), token)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional attaches a principal when a valid token is present and never rejects.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err == nil {
		if principal, err := m.resolver.ResolveIdentity(c.UserContext(), token); err == nil {
			c.Locals(principalKey, principal)
		}
	}
	return c.Next()
}

// RequireUser rejects requests that reached a handler without an identity.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	if !ok || principal == nil || principal.User == nil {
		return nil, false
	}
	return principal, true
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthenticated("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
