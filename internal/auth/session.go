package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown, expired or revoked sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists the association between a session id and its user.
type SessionStore interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

// keyValueStore is the slice of the Redis client sessions need.
type keyValueStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisSessionStore keeps sessions as expiring string keys.
type RedisSessionStore struct {
	client keyValueStore
	prefix string
}

// NewRedisSessionStore builds a store writing keys under prefix.
func NewRedisSessionStore(client keyValueStore, prefix string) *RedisSessionStore {
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		prefix = "giftcards"
	}
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return s.prefix + ":session:" + sessionID
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(userID) == "" {
		return errors.New("session id and user id are required")
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return s.client.Set(ctx, s.key(sessionID), userID, ttl)
}

func (s *RedisSessionStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrSessionNotFound
	}
	userID, err := s.client.Get(ctx, s.key(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return userID, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(sessionID))
}
