package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spendlog/spendlog/internal/model"
)

// sessionPrefix is the Redis key prefix for sessions, keyed by token digest.
const sessionPrefix = "session:"

func sessionKey(digest string) string {
	return sessionPrefix + digest
}

// CreateSession stores a session under the token digest with the given TTL.
func (c *Cache) CreateSession(ctx context.Context, digest string, session *model.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(digest), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// GetSession loads the session for a token digest.
// Returns nil if the session does not exist or has expired.
func (c *Cache) GetSession(ctx context.Context, digest string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupted entry - treat as logged out
		return nil, nil //nolint:nilerr
	}

	return &session, nil
}

// DeleteSession removes the session for a token digest.
func (c *Cache) DeleteSession(ctx context.Context, digest string) error {
	if err := c.client.Del(ctx, sessionKey(digest)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
