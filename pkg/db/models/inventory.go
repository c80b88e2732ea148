package models

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the authoritative stock state for one (product, option) pair.
// A nil OptionID means the product is tracked at product level. Quantity is the
// physical stock on hand; ReservedQuantity is stock held against unconfirmed
// orders and never exceeds Quantity. Rows are only mutated through the atomic
// repository primitives and are never deleted.
type Inventory struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID        uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_inventories_product_option"`
	OptionID         *uuid.UUID `gorm:"column:option_id;type:uuid;uniqueIndex:ux_inventories_product_option"`
	Quantity         int        `gorm:"column:quantity;not null;default:0"`
	ReservedQuantity int        `gorm:"column:reserved_quantity;not null;default:0"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Inventory) TableName() string { return "inventories" }

// AvailableQuantity is the sellable amount. It is always derived, never stored.
func (i Inventory) AvailableQuantity() int {
	return i.Quantity - i.ReservedQuantity
}

