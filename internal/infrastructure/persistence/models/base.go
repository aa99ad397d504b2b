package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel provides the UUID key and timestamps shared by most tables
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func baseFrom(id uuid.UUID, created, updated time.Time) BaseModel {
	return BaseModel{ID: id, CreatedAt: created.UTC(), UpdatedAt: updated.UTC()}
}
