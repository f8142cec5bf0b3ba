package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/slicehaven/storefront-backend/pkg/enums"
)

// CartRecord is the session-scoped working cart. One active record exists per
// storefront session; reconciliation rebuilds its lines in place.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	SessionID string           `gorm:"column:session_id;not null;uniqueIndex:idx_cart_session_active,where:status = 'active'"`
	Status    enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Lines []CartLine `gorm:"foreignKey:CartID"`
}
