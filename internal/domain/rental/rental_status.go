package rental

import "fmt"

// RentalStatus represents the current state of a rental in its lifecycle.
type RentalStatus string

const (
	StatusPending  RentalStatus = "PENDING"
	StatusApproved RentalStatus = "APPROVED"
	StatusCancel   RentalStatus = "CANCEL"
)

// validTransitions defines the state machine for rental status transitions.
// A cancelled rental can be reactivated straight back to APPROVED; nothing
// ever returns to PENDING.
var validTransitions = map[RentalStatus][]RentalStatus{
	StatusPending:  {StatusApproved, StatusCancel},
	StatusApproved: {StatusCancel},
	StatusCancel:   {StatusApproved},
}

// IsValid returns true if the status is a recognized rental status.
func (s RentalStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s RentalStatus) CanTransitionTo(target RentalStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// String returns the string representation of the status.
func (s RentalStatus) String() string {
	return string(s)
}

// ParseRentalStatus converts a string to a RentalStatus, returning an error if invalid.
func ParseRentalStatus(s string) (RentalStatus, error) {
	status := RentalStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid rental status: %s", s)
	}
	return status, nil
}
