package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "counselctl:credential:"

// RedisStore shares a credential between console instances. Entries expire
// after the configured TTL.
type RedisStore struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
	now     func() time.Time
}

// NewRedisStore creates a Redis-backed store for the given profile.
func NewRedisStore(client *redis.Client, profile string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		profile: profile,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *RedisStore) key() string { return keyPrefix + s.profile }

func (s *RedisStore) Get(ctx context.Context) (*Credential, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notStored(s.profile)
		}
		return nil, fmt.Errorf("redis get credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}
	return &cred, nil
}

func (s *RedisStore) Set(ctx context.Context, cred Credential) error {
	if cred.SavedAt.IsZero() {
		cred.SavedAt = s.now().UTC()
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set credential: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("redis del credential: %w", err)
	}
	return nil
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	return tokenOf(s.Get(ctx))
}

// Ping reports whether Redis is reachable; used by the readiness check.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
