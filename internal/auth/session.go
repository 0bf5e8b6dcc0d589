package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionTTL is fixed from creation. Reads never extend it.
const SessionTTL = 24 * time.Hour

const sessionKeyPrefix = "session:"

// SessionStore maps opaque session tokens to user ids in Redis.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Create issues a new random token bound to userID.
func (s *SessionStore) Create(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	value := strconv.FormatUint(uint64(userID), 10)
	if err := s.client.Set(ctx, sessionKey(token), value, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id behind token. ok is false when the token is
// malformed, unknown or expired.
func (s *SessionStore) Resolve(ctx context.Context, token string) (uint, bool, error) {
	if _, err := uuid.Parse(token); err != nil {
		return 0, false, nil
	}

	value, err := s.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load session: %w", err)
	}

	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, false, nil
	}
	return uint(id), true, nil
}

// Delete removes token. Deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
