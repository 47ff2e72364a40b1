package rental

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for rental aggregates.
type Repository interface {
	// FindByID retrieves a rental by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Rental, error)

	// ListAll retrieves rentals with pagination, newest first.
	ListAll(ctx context.Context, page, limit int) ([]*Rental, int64, error)

	// CountByStatus returns rental counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new rental.
	Save(ctx context.Context, r *Rental) error

	// Update persists changes to an existing rental with optimistic locking.
	Update(ctx context.Context, r *Rental) error

	// AppendDocument atomically appends a document record to a rental's
	// document list. Concurrent appends for the same rental are serialized
	// by the store.
	AppendDocument(ctx context.Context, id uuid.UUID, doc Document) error

	// Delete removes a rental permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}
