package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/giftcard-service/internal/domain"
	apperrors "github.com/spec-kit/giftcard-service/pkg/util/errorutil"
)

type staticResolver map[string]*Principal

func (r staticResolver) ResolveIdentity(_ context.Context, token string) (*Principal, error) {
	if p, ok := r[token]; ok {
		return p, nil
	}
	return nil, apperrors.NewUnauthenticated("invalid token")
}

func newTestApp(mw *AuthMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/protected", mw.Handle, RequireUser(), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.User.Username)
	})
	app.Get("/optional", mw.Optional, func(c *fiber.Ctx) error {
		if p, ok := PrincipalFromContext(c); ok {
			return c.SendString(p.User.Username)
		}
		return c.SendString("anonymous")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	resolver := staticResolver{"good": {User: &domain.User{ID: "u1", Username: "alice"}, SessionID: "s1"}}
	app := newTestApp(NewAuthMiddleware(resolver))

	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"valid token", "/protected", "Bearer good", http.StatusOK},
		{"lowercase scheme", "/protected", "bearer good", http.StatusOK},
		{"missing header", "/protected", "", http.StatusUnauthorized},
		{"wrong scheme", "/protected", "Basic good", http.StatusUnauthorized},
		{"unknown token", "/protected", "Bearer bad", http.StatusUnauthorized},
		{"optional without token", "/optional", "", http.StatusOK},
		{"optional with bad token", "/optional", "Bearer bad", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
