package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry the menu client can reference by id. The
// storefront never invents products; reconciliation resolves every submitted
// line against this table.
type Product struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;not null"`
	Category  string          `gorm:"column:category;not null;default:'pizza'"`
	BasePrice decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
