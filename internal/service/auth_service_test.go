package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/giftcard-service/internal/config"
	apperrors "github.com/spec-kit/giftcard-service/pkg/util/errorutil"
)

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeSessionStore) {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	users := newFakeUserRepo()
	sessions := newFakeSessionStore()
	return NewAuthService(cfg, AuthDependencies{UserRepo: users, Sessions: sessions}), users, sessions
}

func TestRegisterThenLoginResolvesSameUser(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	registered, regSession, err := svc.Register(ctx, "  alice ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", registered.Username)
	assert.NotEmpty(t, regSession.Token)
	assert.NotEqual(t, "hunter2", registered.PasswordHash)

	loggedIn, loginSession, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.NotEqual(t, regSession.ID, loginSession.ID)

	current, err := svc.CurrentUser(ctx, loginSession.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, current.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"blank username", "   ", "pw"},
		{"empty password", "bob", ""},
		{"long username", strings.Repeat("u", 65), "pw"},
		{"long password", "bob", strings.Repeat("p", 73)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.username, tc.password)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "pw-one")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice", "pw-two")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateUsername))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "correct")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "alice", "incorrect")
	_, _, unknownUser := svc.Login(ctx, "mallory", "correct")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.True(t, apperrors.HasCode(wrongPassword, apperrors.CodeInvalidCredentials))
	assert.True(t, apperrors.HasCode(unknownUser, apperrors.CodeInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())

	longPassword := strings.Repeat("p", 72)
	_, _, err = svc.Register(ctx, "bob", longPassword)
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "bob", longPassword)
	require.NoError(t, err)

	_, _, overlong := svc.Login(ctx, "bob", longPassword+"x")
	require.Error(t, overlong)
	assert.True(t, apperrors.HasCode(overlong, apperrors.CodeInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), overlong.Error())
}

func TestLogoutRevokesOnlyThatSession(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	_, first, err := svc.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, first.ID))
	_, ok := sessions.sessions[first.ID]
	assert.False(t, ok)

	_, err = svc.CurrentUser(ctx, first.Token)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))

	_, err = svc.CurrentUser(ctx, second.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, first.ID))
	require.NoError(t, svc.Logout(ctx, ""))
}

func TestResolveIdentityRejectsGarbageToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.ResolveIdentity(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}

func TestResolveIdentityIsPerToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	alice, aliceSession, err := svc.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	bob, bobSession, err := svc.Register(ctx, "bob", "pw")
	require.NoError(t, err)

	principal, err := svc.ResolveIdentity(ctx, aliceSession.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, principal.User.ID)
	assert.Equal(t, aliceSession.ID, principal.SessionID)

	principal, err = svc.ResolveIdentity(ctx, bobSession.Token)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, principal.User.ID)
}
