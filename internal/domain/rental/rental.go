package rental

import (
	"time"

	"github.com/antarakost/service-rental/internal/domain/shared"
	"github.com/google/uuid"
)

// RoomAssignment is a value object describing the room attached to a rental.
// Number holds RoomUnassigned until staff pick a room.
type RoomAssignment struct {
	Number string `json:"room_number"`
	Type   string `json:"room_type"`
}

// ContactInfo is a value object holding the tenant's contact details.
// All fields are optional until filled in by staff.
type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
}

// Rental is the aggregate root for the rental domain.
type Rental struct {
	id        uuid.UUID
	status    RentalStatus
	room      RoomAssignment
	contact   ContactInfo
	period    RentalPeriod
	pricing   Pricing
	documents []Document
	notes     string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewRental creates a new Rental aggregate in PENDING status. Completeness
// is deliberately not enforced here: an operator may save an incomplete
// rental and fill it in later; the approval gate checks completeness.
func NewRental(
	room RoomAssignment,
	contact ContactInfo,
	startDate time.Time,
	durationType DurationType,
	pricing Pricing,
	notes string,
) (*Rental, error) {
	if startDate.IsZero() {
		return nil, shared.NewValidationError("start date is required")
	}
	if room.Number == "" {
		room.Number = RoomUnassigned
	}
	if pricing.Currency == "" {
		pricing.Currency = "IDR"
	}

	now := time.Now().UTC()
	return &Rental{
		id:        uuid.New(),
		status:    StatusPending,
		room:      room,
		contact:   contact,
		period:    NewRentalPeriod(startDate, durationType),
		pricing:   pricing,
		notes:     notes,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructRental rebuilds a Rental from persistence data (no validation).
func ReconstructRental(
	id uuid.UUID,
	status RentalStatus,
	room RoomAssignment,
	contact ContactInfo,
	period RentalPeriod,
	pricing Pricing,
	documents []Document,
	notes string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Rental {
	return &Rental{
		id:        id,
		status:    status,
		room:      room,
		contact:   contact,
		period:    period,
		pricing:   pricing,
		documents: documents,
		notes:     notes,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the rental's unique identifier.
func (r *Rental) ID() uuid.UUID { return r.id }

// Status returns the current rental status.
func (r *Rental) Status() RentalStatus { return r.status }

// Room returns the room assignment.
func (r *Rental) Room() RoomAssignment { return r.room }

// Contact returns the tenant's contact details.
func (r *Rental) Contact() ContactInfo { return r.contact }

// Period returns the rental period.
func (r *Rental) Period() RentalPeriod { return r.period }

// Pricing returns the pricing amounts.
func (r *Rental) Pricing() Pricing { return r.pricing }

// Documents returns the attached documents in upload order.
func (r *Rental) Documents() []Document { return r.documents }

// Notes returns the free-text notes.
func (r *Rental) Notes() string { return r.notes }

// Version returns the entity version for optimistic locking.
func (r *Rental) Version() int64 { return r.version }

// CreatedAt returns the creation timestamp.
func (r *Rental) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Rental) UpdatedAt() time.Time { return r.updatedAt }

// --- Behavior ---

// Approve transitions the rental to APPROVED after the approval profile
// passes. On a validation failure the rental is left untouched and the
// returned error carries the missing-field labels.
func (r *Rental) Approve() error {
	if !r.status.CanTransitionTo(StatusApproved) {
		return shared.NewInvalidStateError(string(r.status), string(StatusApproved))
	}
	if result := r.ValidateForApproval(); !result.Valid {
		return shared.NewMissingFieldsError(result.MissingFields)
	}
	r.status = StatusApproved
	r.updatedAt = time.Now().UTC()
	return nil
}

// Reject cancels a rental that is still PENDING. No validation applies.
func (r *Rental) Reject() error {
	if r.status != StatusPending {
		return shared.NewInvalidStateError(string(r.status), string(StatusCancel))
	}
	r.status = StatusCancel
	r.updatedAt = time.Now().UTC()
	return nil
}

// Cancel cancels an APPROVED rental. No validation applies.
func (r *Rental) Cancel() error {
	if r.status != StatusApproved {
		return shared.NewInvalidStateError(string(r.status), string(StatusCancel))
	}
	r.status = StatusCancel
	r.updatedAt = time.Now().UTC()
	return nil
}

// Reactivate moves a cancelled rental straight back to APPROVED. The
// approval profile is intentionally not re-run: the prior approval is
// trusted even if fields changed while the rental was cancelled.
func (r *Rental) Reactivate() error {
	if r.status != StatusCancel {
		return shared.NewInvalidStateError(string(r.status), string(StatusApproved))
	}
	r.status = StatusApproved
	r.updatedAt = time.Now().UTC()
	return nil
}

// EditPatch holds the staff-editable rental fields. Nil pointers leave the
// corresponding field unchanged.
type EditPatch struct {
	RoomNumber   *string       `json:"room_number"`
	RoomType     *string       `json:"room_type"`
	ContactName  *string       `json:"contact_name"`
	Email        *string       `json:"email"`
	Phone        *string       `json:"phone"`
	WhatsApp     *string       `json:"whatsapp"`
	StartDate    *time.Time    `json:"start_date"`
	DurationType *DurationType `json:"duration_type"`
	Amount       *int64        `json:"amount"`
	PaidAmount   *int64        `json:"paid_amount"`
	Notes        *string       `json:"notes"`
}

// ApplyEdit applies a field patch. The end date is recomputed whenever the
// start date or duration type changes; it can never be set directly. Edits
// are not gated on validation so an incomplete rental can be saved while
// still PENDING.
func (r *Rental) ApplyEdit(patch EditPatch) error {
	if patch.DurationType != nil && !patch.DurationType.IsValid() {
		return shared.NewValidationError("invalid duration type: " + string(*patch.DurationType))
	}

	if patch.RoomNumber != nil {
		r.room.Number = *patch.RoomNumber
	}
	if patch.RoomType != nil {
		r.room.Type = *patch.RoomType
	}
	if patch.ContactName != nil {
		r.contact.Name = *patch.ContactName
	}
	if patch.Email != nil {
		r.contact.Email = *patch.Email
	}
	if patch.Phone != nil {
		r.contact.Phone = *patch.Phone
	}
	if patch.WhatsApp != nil {
		r.contact.WhatsApp = *patch.WhatsApp
	}
	if patch.Amount != nil {
		if *patch.Amount < 0 {
			return shared.NewValidationError("amount cannot be negative")
		}
		r.pricing.Amount = *patch.Amount
	}
	if patch.PaidAmount != nil {
		if *patch.PaidAmount < 0 {
			return shared.NewValidationError("paid amount cannot be negative")
		}
		r.pricing.PaidAmount = *patch.PaidAmount
	}
	if patch.Notes != nil {
		r.notes = *patch.Notes
	}

	if patch.StartDate != nil || patch.DurationType != nil {
		start := r.period.StartDate
		durationType := r.period.DurationType
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.DurationType != nil {
			durationType = *patch.DurationType
		}
		r.period = NewRentalPeriod(start, durationType)
	}

	r.updatedAt = time.Now().UTC()
	return nil
}

// AppendDocument attaches a document record to the rental.
func (r *Rental) AppendDocument(doc Document) {
	r.documents = append(r.documents, doc)
	r.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Rental) IncrementVersion() {
	r.version++
	r.updatedAt = time.Now().UTC()
}
