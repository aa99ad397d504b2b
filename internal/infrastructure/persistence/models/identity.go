package models

import (
	"github.com/retailops/backend/internal/domain/identity"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	BaseModel
	Email string        `gorm:"type:varchar(320)"`
	Role  identity.Role `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:        m.ID,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// UserModelFromDomain builds a model from a domain user
func UserModelFromDomain(u *identity.User) *UserModel {
	return &UserModel{
		BaseModel: baseFrom(u.ID, u.CreatedAt, u.UpdatedAt),
		Email:     u.Email,
		Role:      u.Role,
	}
}
