package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/retailops/backend/internal/domain/credential"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Credential store backends
const (
	BackendDatabase = "database"
	BackendRedis    = "redis"
)

// CredentialStoreFactory picks the credential store backend from configuration
type CredentialStoreFactory struct {
	cfg         config.CredentialsConfig
	redisConfig config.RedisConfig
	db          *gorm.DB
	logger      *zap.Logger
	dbFallback  bool
}

// CredentialStoreFactoryOption configures the factory
type CredentialStoreFactoryOption func(*CredentialStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CredentialStoreFactoryOption {
	return func(f *CredentialStoreFactory) { f.logger = logger }
}

// WithDatabaseFallback controls whether an unreachable Redis falls back to
// the database backend. Default is false.
func WithDatabaseFallback(allow bool) CredentialStoreFactoryOption {
	return func(f *CredentialStoreFactory) { f.dbFallback = allow }
}

// NewCredentialStoreFactory creates a new factory
func NewCredentialStoreFactory(cfg config.CredentialsConfig, redisCfg config.RedisConfig, db *gorm.DB, opts ...CredentialStoreFactoryOption) *CredentialStoreFactory {
	f := &CredentialStoreFactory{cfg: cfg, redisConfig: redisCfg, db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds the configured store, sealed when an encryption key is set.
// The returned Redis client is nil for the database backend; callers close
// it on shutdown otherwise.
func (f *CredentialStoreFactory) Create(ctx context.Context) (credential.Store, *redis.Client, error) {
	store, client, err := f.createBackend(ctx)
	if err != nil || f.cfg.EncryptionKey == "" {
		return store, client, err
	}
	sealed, err := NewSealedStore(store, f.cfg.EncryptionKey)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, nil, err
	}
	f.logger.Info("credential values are sealed at rest")
	return sealed, client, nil
}

func (f *CredentialStoreFactory) createBackend(ctx context.Context) (credential.Store, *redis.Client, error) {
	switch f.cfg.Backend {
	case "", BackendDatabase:
		f.logger.Info("using database credential store")
		return persistence.NewGormSecretStore(f.db), nil, nil

	case BackendRedis:
		client, err := NewRedisClient(ctx, f.redisConfig)
		if err == nil {
			f.logger.Info("using Redis credential store", zap.String("addr", f.redisConfig.Addr()))
			return NewRedisSecretStore(client, f.cfg.KeyPrefix), client, nil
		}
		if !f.dbFallback {
			return nil, nil, fmt.Errorf("redis credential store unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to database credential store", zap.Error(err))
		return persistence.NewGormSecretStore(f.db), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown credential backend %q", f.cfg.Backend)
	}
}
