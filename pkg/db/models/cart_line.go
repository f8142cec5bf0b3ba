package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/slicehaven/storefront-backend/pkg/types"
)

// CartLine is one product+quantity entry in the working cart. UnitPrice is the
// catalog snapshot at insertion time; FinalPrice and Customizations are the
// client-attached metadata that survive every recalculation pass and are
// carried forward into order creation.
type CartLine struct {
	ID             uuid.UUID                     `gorm:"column:id;type:uuid;primaryKey"`
	CartID         uuid.UUID                     `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID      int64                         `gorm:"column:product_id;not null"`
	ProductName    string                        `gorm:"column:product_name;not null"`
	Quantity       int                           `gorm:"column:quantity;not null"`
	UnitPrice      decimal.Decimal               `gorm:"column:unit_price;type:numeric(10,2);not null"`
	FinalPrice     decimal.NullDecimal           `gorm:"column:final_price;type:numeric(10,2)"`
	Customizations *types.CustomizationSelection `gorm:"column:customizations;type:jsonb"`
	CreatedAt      time.Time                     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                     `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveUnitPrice re-derives the unit price to charge from the stored
// override metadata. It never compounds a previous override, so applying it
// any number of times yields the same value.
func (l CartLine) EffectiveUnitPrice() decimal.Decimal {
	if l.FinalPrice.Valid {
		return l.FinalPrice.Decimal
	}
	return l.UnitPrice
}
