package enums

import "fmt"

// InventoryTransactionType is the movement category recorded on every stock transaction.
type InventoryTransactionType string

const (
	InventoryTransactionTypeInbound    InventoryTransactionType = "INBOUND"
	InventoryTransactionTypeOutbound   InventoryTransactionType = "OUTBOUND"
	InventoryTransactionTypeAdjustment InventoryTransactionType = "ADJUSTMENT"
)

var validInventoryTransactionTypes = []InventoryTransactionType{
	InventoryTransactionTypeInbound,
	InventoryTransactionTypeOutbound,
	InventoryTransactionTypeAdjustment,
}

// IsValid reports whether the value matches the canonical transaction type enum.
func (t InventoryTransactionType) IsValid() bool {
	for _, candidate := range validInventoryTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInventoryTransactionType converts the raw string to InventoryTransactionType.
func ParseInventoryTransactionType(value string) (InventoryTransactionType, error) {
	for _, candidate := range validInventoryTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction type %q", value)
}
