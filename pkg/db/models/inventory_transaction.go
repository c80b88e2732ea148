package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minsukang/storelink-backend/pkg/enums"
)

// InventoryTransaction records one immutable stock movement with the ledger
// snapshot taken at the moment of the mutation. Rows are append-only: the
// repository exposes no update or delete operation, and the association to its
// Inventory row never changes after creation.
//
// Quantity is signed: positive for inbound movements, negative for outbound,
// either sign for adjustments. CurrentQuantity always equals
// PreviousQuantity + Quantity.
type InventoryTransaction struct {
	ID          uuid.UUID                        `gorm:"column:id;type:uuid;primaryKey"`
	InventoryID uuid.UUID                        `gorm:"column:inventory_id;type:uuid;not null;index:ix_inventory_transactions_inventory_created,priority:1"`
	Type        enums.InventoryTransactionType   `gorm:"column:type;type:inventory_transaction_type_enum;not null"`
	Reason      enums.InventoryTransactionReason `gorm:"column:reason;type:inventory_transaction_reason_enum;not null"`

	Quantity         int `gorm:"column:quantity;not null"`
	PreviousQuantity int `gorm:"column:previous_quantity;not null"`
	CurrentQuantity  int `gorm:"column:current_quantity;not null"`

	ReferenceType *enums.InventoryReferenceType `gorm:"column:reference_type;type:inventory_reference_type_enum;index:ix_inventory_transactions_reference,priority:1"`
	ReferenceID   *string                       `gorm:"column:reference_id;type:varchar(100);index:ix_inventory_transactions_reference,priority:2"`

	Note        *string `gorm:"column:note;type:text"`
	ProcessedBy *string `gorm:"column:processed_by;type:varchar(100)"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:ix_inventory_transactions_inventory_created,priority:2"`
}

func (InventoryTransaction) TableName() string { return "inventory_transactions" }

// IsIncrease reports whether this movement added stock.
func (t InventoryTransaction) IsIncrease() bool {
	return t.Quantity > 0
}

// IsDecrease reports whether this movement removed stock.
func (t InventoryTransaction) IsDecrease() bool {
	return t.Quantity < 0
}
