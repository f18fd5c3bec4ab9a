package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/giftcard-service/internal/auth"
	"github.com/spec-kit/giftcard-service/internal/config"
	"github.com/spec-kit/giftcard-service/internal/domain"
	"github.com/spec-kit/giftcard-service/internal/repository"
	apperrors "github.com/spec-kit/giftcard-service/pkg/util/errorutil"
)

const (
	maxUsernameLength = 64
	// bcrypt ignores input beyond 72 bytes.
	maxPasswordBytes = 72
)

// AuthService coordinates registration, login and session resolution.
type AuthService struct {
	users      repository.UserRepository
	sessions   auth.SessionStore
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Sessions auth.SessionStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, nil, err
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, nil, apperrors.NewInvalidInput(fmt.Sprintf("username must be at most %d characters", maxUsernameLength), nil)
	}
	if len(password) > maxPasswordBytes {
		return nil, nil, apperrors.NewInvalidInput(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes), nil)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, nil, apperrors.NewDuplicateUsername()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, nil, apperrors.NewDuplicateUsername()
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login authenticates an account holder. Unknown usernames and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, nil, err
	}
	// bcrypt ignores bytes past the limit, so a longer password can never be the registered one.
	if len(password) > maxPasswordBytes {
		auth.BurnComparison(password, s.bcryptCost)
		return nil, nil, apperrors.NewInvalidCredentials()
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.BurnComparison(password, s.bcryptCost)
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		return nil, nil, fmt.Errorf("lookup username: %w", err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		return nil, nil, fmt.Errorf("compare password: %w", err)
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout revokes the session. Unknown or empty session ids are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// ResolveIdentity validates a bearer token against its live session and loads the user.
func (s *AuthService) ResolveIdentity(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthenticated("invalid token")
	}

	userID, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return nil, apperrors.NewUnauthenticated("session expired or logged out")
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if userID != claims.UserID {
		return nil, apperrors.NewUnauthenticated("invalid token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("user not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &auth.Principal{User: user, SessionID: claims.ID}, nil
}

// CurrentUser resolves the user behind a bearer token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	principal, err := s.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	return principal.User, nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Save(ctx, sessionID, user.ID, s.tokenMgr.TTL()); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		Token:     token,
		IssuedAt:  expiresAt.Add(-s.tokenMgr.TTL()),
		ExpiresAt: expiresAt,
	}, nil
}

func validateCredentials(username, password string) error {
	missing := []string{}
	if username == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apperrors.NewInvalidInput(strings.Join(missing, " and ")+" required", map[string]any{"missing": missing})
	}
	return nil
}
