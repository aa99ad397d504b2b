package models

import (
	"encoding/json"
	"time"

	"github.com/retailops/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for trade.Order. (source, external_id)
// is unique and is the upsert conflict target.
type OrderModel struct {
	BaseModel
	Source      trade.Source    `gorm:"type:varchar(20);not null;uniqueIndex:uq_orders_source_external,priority:1"`
	ExternalID  string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_orders_source_external,priority:2"`
	OrderNumber string          `gorm:"type:varchar(100);index"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Currency    string          `gorm:"type:varchar(3)"`
	Status      string          `gorm:"type:varchar(50)"`
	OrderedAt   time.Time       `gorm:"not null;index"`
	Payload     json.RawMessage `gorm:"type:jsonb;serializer:json;not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain order
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		ID:          m.ID,
		Source:      m.Source,
		ExternalID:  m.ExternalID,
		OrderNumber: m.OrderNumber,
		TotalAmount: m.TotalAmount,
		Currency:    m.Currency,
		Status:      m.Status,
		OrderedAt:   m.OrderedAt,
		Payload:     m.Payload,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// OrderModelFromDomain builds a model from a domain order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	payload := o.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return &OrderModel{
		BaseModel:   baseFrom(o.ID, o.CreatedAt, o.UpdatedAt),
		Source:      o.Source,
		ExternalID:  o.ExternalID,
		OrderNumber: o.OrderNumber,
		TotalAmount: o.TotalAmount,
		Currency:    o.Currency,
		Status:      o.Status,
		OrderedAt:   o.OrderedAt.UTC(),
		Payload:     payload,
	}
}
