package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailops/backend/internal/domain/credential"
)

const (
	// DefaultSecretKeyPrefix namespaces secret hashes in a shared Redis
	DefaultSecretKeyPrefix = "retailops:secret:"

	fieldValue     = "value"
	fieldExpiresAt = "expires_at"
	fieldUpdatedAt = "updated_at"
)

// RedisSecretStore implements credential.Store with one hash per secret.
// Secrets with an expiry also get a Redis TTL so stale tokens disappear.
type RedisSecretStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisSecretStore creates a store on an existing client
func NewRedisSecretStore(client *redis.Client, keyPrefix string) *RedisSecretStore {
	if keyPrefix == "" {
		keyPrefix = DefaultSecretKeyPrefix
	}
	return &RedisSecretStore{client: client, keyPrefix: keyPrefix, now: time.Now}
}

// Get returns the value, or credential.ErrCredentialUnavailable when the key
// is missing or expired
func (s *RedisSecretStore) Get(ctx context.Context, key string) (string, error) {
	secret, err := s.find(ctx, key)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.IsExpired(s.now()) {
		return "", credential.ErrCredentialUnavailable
	}
	return secret.Value, nil
}

// Put writes the value and expiry atomically
func (s *RedisSecretStore) Put(ctx context.Context, key, value string, expiresAt *time.Time) error {
	redisKey := s.keyPrefix + key
	expires := ""
	if expiresAt != nil {
		expires = expiresAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisKey,
			fieldValue, value,
			fieldExpiresAt, expires,
			fieldUpdatedAt, s.now().UTC().Format(time.RFC3339Nano),
		)
		if expiresAt != nil {
			pipe.ExpireAt(ctx, redisKey, *expiresAt)
		} else {
			pipe.Persist(ctx, redisKey)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store secret %s: %w", key, err)
	}
	return nil
}

// Describe reports presence and expiry without the value
func (s *RedisSecretStore) Describe(ctx context.Context, key string) (credential.Metadata, error) {
	secret, err := s.find(ctx, key)
	if err != nil {
		return credential.Metadata{}, err
	}
	return credential.Describe(key, secret, s.now()), nil
}

func (s *RedisSecretStore) find(ctx context.Context, key string) (*credential.Secret, error) {
	fields, err := s.client.HGetAll(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read secret %s: %w", key, err)
	}
	value, ok := fields[fieldValue]
	if !ok {
		return nil, nil
	}

	secret := &credential.Secret{Key: key, Value: value}
	if raw := fields[fieldExpiresAt]; raw != "" {
		exp, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("secret %s has malformed expiry: %w", key, err)
		}
		secret.ExpiresAt = &exp
	}
	if raw := fields[fieldUpdatedAt]; raw != "" {
		if updated, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			secret.UpdatedAt = updated
		}
	}
	return secret, nil
}

var _ credential.Store = (*RedisSecretStore)(nil)
