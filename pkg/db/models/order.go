package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/slicehaven/storefront-backend/pkg/enums"
)

// Order is the immutable record created from a session cart at checkout
// finalization.
type Order struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	SessionID      string                `gorm:"column:session_id;not null;index"`
	Fulfillment    enums.FulfillmentType `gorm:"column:fulfillment;not null;default:'delivery'"`
	ShippingMethod *string               `gorm:"column:shipping_method"`
	Subtotal       decimal.Decimal       `gorm:"column:subtotal;type:numeric(10,2);not null"`
	FeeTotal       decimal.Decimal       `gorm:"column:fee_total;type:numeric(10,2);not null"`
	Total          decimal.Decimal       `gorm:"column:total;type:numeric(10,2);not null"`
	Status         enums.OrderStatus     `gorm:"column:status;not null;default:'pending'"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID"`
}
