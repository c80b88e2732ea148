package enums

import "fmt"

// ReservationHoldStatus tracks the lifecycle of a reservation hold row.
type ReservationHoldStatus string

const (
	ReservationHoldStatusActive    ReservationHoldStatus = "active"
	ReservationHoldStatusConfirmed ReservationHoldStatus = "confirmed"
	ReservationHoldStatusReleased  ReservationHoldStatus = "released"
	ReservationHoldStatusExpired   ReservationHoldStatus = "expired"
)

var validReservationHoldStatuses = []ReservationHoldStatus{
	ReservationHoldStatusActive,
	ReservationHoldStatusConfirmed,
	ReservationHoldStatusReleased,
	ReservationHoldStatusExpired,
}

// IsValid reports whether the value matches the canonical hold status enum.
func (s ReservationHoldStatus) IsValid() bool {
	for _, candidate := range validReservationHoldStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseReservationHoldStatus converts the raw string to ReservationHoldStatus.
func ParseReservationHoldStatus(value string) (ReservationHoldStatus, error) {
	for _, candidate := range validReservationHoldStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation hold status %q", value)
}
