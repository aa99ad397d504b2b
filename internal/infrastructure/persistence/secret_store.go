package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/retailops/backend/internal/domain/credential"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSecretStore implements credential.Store on the secrets table
type GormSecretStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormSecretStore creates a new GormSecretStore
func NewGormSecretStore(db *gorm.DB) *GormSecretStore {
	return &GormSecretStore{db: db, now: time.Now}
}

// Get returns the value, or credential.ErrCredentialUnavailable when the key
// is missing or expired
func (s *GormSecretStore) Get(ctx context.Context, key string) (string, error) {
	secret, err := s.find(ctx, key)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.IsExpired(s.now()) {
		return "", credential.ErrCredentialUnavailable
	}
	return secret.Value, nil
}

// Put writes or replaces the value and expiry for key
func (s *GormSecretStore) Put(ctx context.Context, key, value string, expiresAt *time.Time) error {
	model := &models.SecretModel{
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}
	if expiresAt != nil {
		utc := expiresAt.UTC()
		model.ExpiresAt = &utc
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(model).Error
}

// Describe reports presence and expiry without the value
func (s *GormSecretStore) Describe(ctx context.Context, key string) (credential.Metadata, error) {
	secret, err := s.find(ctx, key)
	if err != nil {
		return credential.Metadata{}, err
	}
	return credential.Describe(key, secret, s.now()), nil
}

func (s *GormSecretStore) find(ctx context.Context, key string) (*credential.Secret, error) {
	var model models.SecretModel
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ credential.Store = (*GormSecretStore)(nil)
