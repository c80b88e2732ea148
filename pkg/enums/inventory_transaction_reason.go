package enums

import "fmt"

// InventoryTransactionReason is the specific business cause of a stock movement.
type InventoryTransactionReason string

const (
	// Inbound reasons.
	InventoryReasonWMSInbound          InventoryTransactionReason = "WMS_INBOUND"
	InventoryReasonReturnReceived      InventoryTransactionReason = "RETURN_RECEIVED"
	InventoryReasonExchangeReturn      InventoryTransactionReason = "EXCHANGE_RETURN"
	InventoryReasonWrongShipmentReturn InventoryTransactionReason = "WRONG_SHIPMENT_RETURN"

	// Outbound reasons.
	InventoryReasonOrderShipment           InventoryTransactionReason = "ORDER_SHIPMENT"
	InventoryReasonExchangeShipment        InventoryTransactionReason = "EXCHANGE_SHIPMENT"
	InventoryReasonWrongShipmentReshipping InventoryTransactionReason = "WRONG_SHIPMENT_RESHIPPING"

	// Adjustment reasons.
	InventoryReasonDamage              InventoryTransactionReason = "DAMAGE"
	InventoryReasonLost                InventoryTransactionReason = "LOST"
	InventoryReasonExpired             InventoryTransactionReason = "EXPIRED"
	InventoryReasonInventoryCountPlus  InventoryTransactionReason = "INVENTORY_COUNT_PLUS"
	InventoryReasonInventoryCountMinus InventoryTransactionReason = "INVENTORY_COUNT_MINUS"
	InventoryReasonManualAdjustment    InventoryTransactionReason = "MANUAL_ADJUSTMENT"
)

var validInventoryTransactionReasons = []InventoryTransactionReason{
	InventoryReasonWMSInbound,
	InventoryReasonReturnReceived,
	InventoryReasonExchangeReturn,
	InventoryReasonWrongShipmentReturn,
	InventoryReasonOrderShipment,
	InventoryReasonExchangeShipment,
	InventoryReasonWrongShipmentReshipping,
	InventoryReasonDamage,
	InventoryReasonLost,
	InventoryReasonExpired,
	InventoryReasonInventoryCountPlus,
	InventoryReasonInventoryCountMinus,
	InventoryReasonManualAdjustment,
}

// reasonCategories is the fixed mapping from reason to movement category.
// Callers must pick the transaction constructor that matches the category.
var reasonCategories = map[InventoryTransactionReason]InventoryTransactionType{
	InventoryReasonWMSInbound:          InventoryTransactionTypeInbound,
	InventoryReasonReturnReceived:      InventoryTransactionTypeInbound,
	InventoryReasonExchangeReturn:      InventoryTransactionTypeInbound,
	InventoryReasonWrongShipmentReturn: InventoryTransactionTypeInbound,

	InventoryReasonOrderShipment:           InventoryTransactionTypeOutbound,
	InventoryReasonExchangeShipment:        InventoryTransactionTypeOutbound,
	InventoryReasonWrongShipmentReshipping: InventoryTransactionTypeOutbound,

	InventoryReasonDamage:              InventoryTransactionTypeAdjustment,
	InventoryReasonLost:                InventoryTransactionTypeAdjustment,
	InventoryReasonExpired:             InventoryTransactionTypeAdjustment,
	InventoryReasonInventoryCountPlus:  InventoryTransactionTypeAdjustment,
	InventoryReasonInventoryCountMinus: InventoryTransactionTypeAdjustment,
	InventoryReasonManualAdjustment:    InventoryTransactionTypeAdjustment,
}

// IsValid reports whether the value matches the canonical reason enum.
func (r InventoryTransactionReason) IsValid() bool {
	_, ok := reasonCategories[r]
	return ok
}

// Category returns the movement category this reason belongs to.
func (r InventoryTransactionReason) Category() InventoryTransactionType {
	return reasonCategories[r]
}

// ParseInventoryTransactionReason converts the raw string to InventoryTransactionReason.
func ParseInventoryTransactionReason(value string) (InventoryTransactionReason, error) {
	for _, candidate := range validInventoryTransactionReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction reason %q", value)
}

// InventoryTransactionReasons returns the canonical reason list in declaration order.
func InventoryTransactionReasons() []InventoryTransactionReason {
	out := make([]InventoryTransactionReason, len(validInventoryTransactionReasons))
	copy(out, validInventoryTransactionReasons)
	return out
}
