package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItem captures the snapshot of each cart line within an order.
type OrderLineItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Name      string          `gorm:"column:name;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`

	Meta []OrderLineItemMeta `gorm:"foreignKey:LineItemID"`
}

// OrderLineItemMeta is one labeled key/value pair projected from a cart
// line's customization selection. Rows are written once at finalization and
// never updated.
type OrderLineItemMeta struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LineItemID uuid.UUID `gorm:"column:line_item_id;type:uuid;not null;index"`
	Key        string    `gorm:"column:meta_key;not null"`
	Value      string    `gorm:"column:meta_value;not null"`
}
