package enums

import "fmt"

// InventoryReferenceType identifies the external entity that caused a stock movement.
type InventoryReferenceType string

const (
	InventoryReferenceOrder          InventoryReferenceType = "ORDER"
	InventoryReferenceWMSReceipt     InventoryReferenceType = "WMS_RECEIPT"
	InventoryReferenceReturn         InventoryReferenceType = "RETURN"
	InventoryReferenceExchange       InventoryReferenceType = "EXCHANGE"
	InventoryReferenceInventoryCount InventoryReferenceType = "INVENTORY_COUNT"
	InventoryReferenceAdmin          InventoryReferenceType = "ADMIN"
)

var validInventoryReferenceTypes = []InventoryReferenceType{
	InventoryReferenceOrder,
	InventoryReferenceWMSReceipt,
	InventoryReferenceReturn,
	InventoryReferenceExchange,
	InventoryReferenceInventoryCount,
	InventoryReferenceAdmin,
}

// IsValid reports whether the value matches the canonical reference type enum.
func (r InventoryReferenceType) IsValid() bool {
	for _, candidate := range validInventoryReferenceTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseInventoryReferenceType converts the raw string to InventoryReferenceType.
func ParseInventoryReferenceType(value string) (InventoryReferenceType, error) {
	for _, candidate := range validInventoryReferenceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory reference type %q", value)
}
