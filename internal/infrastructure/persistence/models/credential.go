package models

import (
	"time"

	"github.com/retailops/backend/internal/domain/credential"
)

// SecretModel stores one credential value keyed by name
type SecretModel struct {
	Key       string     `gorm:"type:varchar(200);primaryKey"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time
	UpdatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SecretModel) TableName() string {
	return "secrets"
}

// ToDomain converts the model to a domain secret
func (m *SecretModel) ToDomain() *credential.Secret {
	return &credential.Secret{
		Key:       m.Key,
		Value:     m.Value,
		ExpiresAt: m.ExpiresAt,
		UpdatedAt: m.UpdatedAt,
	}
}
