package models

import (
	"github.com/retailops/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for catalog.Product
type ProductModel struct {
	BaseModel
	SKU       string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(255);not null"`
	MinStock  int       `gorm:"not null"`
	Embedding []float32 `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:        m.ID,
		SKU:       m.SKU,
		Name:      m.Name,
		MinStock:  m.MinStock,
		Embedding: m.Embedding,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ProductModelFromDomain builds a model from a domain product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		BaseModel: baseFrom(p.ID, p.CreatedAt, p.UpdatedAt),
		SKU:       p.SKU,
		Name:      p.Name,
		MinStock:  p.MinStock,
		Embedding: p.Embedding,
	}
}
