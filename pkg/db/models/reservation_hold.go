package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minsukang/storelink-backend/pkg/enums"
)

// ReservationHold tracks a referenced reservation so that abandoned holds can
// be swept back into available stock. The hold row is bookkeeping only: the
// reserved quantity itself lives on the Inventory row.
type ReservationHold struct {
	ID          uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	InventoryID uuid.UUID                   `gorm:"column:inventory_id;type:uuid;not null;index"`
	Quantity    int                         `gorm:"column:quantity;not null"`
	Status      enums.ReservationHoldStatus `gorm:"column:status;type:reservation_hold_status_enum;not null;index:ix_reservation_holds_status_expires,priority:1"`

	ReferenceType enums.InventoryReferenceType `gorm:"column:reference_type;type:inventory_reference_type_enum;not null;index:ix_reservation_holds_reference,priority:1"`
	ReferenceID   string                       `gorm:"column:reference_id;type:varchar(100);not null;index:ix_reservation_holds_reference,priority:2"`

	ExpiresAt time.Time `gorm:"column:expires_at;not null;index:ix_reservation_holds_status_expires,priority:2"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ReservationHold) TableName() string { return "reservation_holds" }
