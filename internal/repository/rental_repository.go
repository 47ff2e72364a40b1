package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rentalDomain "github.com/antarakost/service-rental/internal/domain/rental"
	"github.com/antarakost/service-rental/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RentalModel is the GORM model for the rentals table.
type RentalModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Status     string          `gorm:"not null;size:20;index"`
	RoomNumber string          `gorm:"not null;size:20;index"`
	RoomType   string          `gorm:"size:50"`
	Contact    json.RawMessage `gorm:"type:jsonb;not null"`
	StartDate  time.Time       `gorm:"not null"`
	EndDate    time.Time       `gorm:"not null"`
	Duration   string          `gorm:"not null;size:20"`
	Amount     int64           `gorm:"not null"`
	PaidAmount int64           `gorm:"not null"`
	Currency   string          `gorm:"not null;size:3;default:'IDR'"`
	Documents  json.RawMessage `gorm:"type:jsonb"`
	Notes      string          `gorm:"size:1000"`
	Version    int64           `gorm:"not null;default:1"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RentalModel) TableName() string {
	return "rentals"
}

// GormRentalRepository is the GORM-based implementation of rental.Repository.
type GormRentalRepository struct {
	db *gorm.DB
}

// NewGormRentalRepository creates a new GormRentalRepository.
func NewGormRentalRepository(db *gorm.DB) *GormRentalRepository {
	return &GormRentalRepository{db: db}
}

// FindByID retrieves a rental by its unique identifier.
func (r *GormRentalRepository) FindByID(ctx context.Context, id uuid.UUID) (*rentalDomain.Rental, error) {
	var model RentalModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Rental", id.String())
		}
		return nil, fmt.Errorf("failed to find rental by ID: %w", err)
	}
	return toDomainRental(&model)
}

// ListAll retrieves rentals with pagination, newest first.
func (r *GormRentalRepository) ListAll(ctx context.Context, page, limit int) ([]*rentalDomain.Rental, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RentalModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rentals: %w", err)
	}

	var models []RentalModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list rentals: %w", err)
	}

	rentals := make([]*rentalDomain.Rental, len(models))
	for i, m := range models {
		rt, err := toDomainRental(&m)
		if err != nil {
			return nil, 0, err
		}
		rentals[i] = rt
	}
	return rentals, total, nil
}

// CountByStatus returns rental counts grouped by status.
func (r *GormRentalRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&RentalModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new rental.
func (r *GormRentalRepository) Save(ctx context.Context, rt *rentalDomain.Rental) error {
	model, err := toRentalModel(rt)
	if err != nil {
		return fmt.Errorf("failed to convert rental to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save rental: %w", err)
	}
	return nil
}

// Update persists changes to an existing rental with optimistic locking.
func (r *GormRentalRepository) Update(ctx context.Context, rt *rentalDomain.Rental) error {
	model, err := toRentalModel(rt)
	if err != nil {
		return fmt.Errorf("failed to convert rental to model: %w", err)
	}

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before the write).
	expectedVersion := rt.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&RentalModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"room_number": model.RoomNumber,
			"room_type":   model.RoomType,
			"contact":     model.Contact,
			"start_date":  model.StartDate,
			"end_date":    model.EndDate,
			"duration":    model.Duration,
			"amount":      model.Amount,
			"paid_amount": model.PaidAmount,
			"currency":    model.Currency,
			"notes":       model.Notes,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update rental: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("rental was modified by another transaction")
	}
	return nil
}

// AppendDocument atomically appends a document record to the rental's
// document list. The jsonb concatenation runs inside the database, so
// concurrent appends from independent document pipelines serialize there
// instead of overwriting each other.
func (r *GormRentalRepository) AppendDocument(ctx context.Context, id uuid.UUID, doc rentalDomain.Document) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&RentalModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"documents":  gorm.Expr(`COALESCE(documents, '[]'::jsonb) || ?::jsonb`, string(docJSON)),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to append document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Rental", id.String())
	}
	return nil
}

// Delete removes a rental permanently.
func (r *GormRentalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&RentalModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete rental: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Rental", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toRentalModel(rt *rentalDomain.Rental) (*RentalModel, error) {
	contactJSON, err := json.Marshal(rt.Contact())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contact info: %w", err)
	}

	var documentsJSON json.RawMessage
	if len(rt.Documents()) > 0 {
		data, err := json.Marshal(rt.Documents())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal documents: %w", err)
		}
		documentsJSON = data
	}

	return &RentalModel{
		ID:         rt.ID(),
		Status:     string(rt.Status()),
		RoomNumber: rt.Room().Number,
		RoomType:   rt.Room().Type,
		Contact:    contactJSON,
		StartDate:  rt.Period().StartDate,
		EndDate:    rt.Period().EndDate,
		Duration:   string(rt.Period().DurationType),
		Amount:     rt.Pricing().Amount,
		PaidAmount: rt.Pricing().PaidAmount,
		Currency:   rt.Pricing().Currency,
		Documents:  documentsJSON,
		Notes:      rt.Notes(),
		Version:    rt.Version(),
		CreatedAt:  rt.CreatedAt(),
		UpdatedAt:  rt.UpdatedAt(),
	}, nil
}

func toDomainRental(m *RentalModel) (*rentalDomain.Rental, error) {
	var contact rentalDomain.ContactInfo
	if err := json.Unmarshal(m.Contact, &contact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact info: %w", err)
	}

	var documents []rentalDomain.Document
	if len(m.Documents) > 0 {
		if err := json.Unmarshal(m.Documents, &documents); err != nil {
			return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
		}
	}

	status, err := rentalDomain.ParseRentalStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return rentalDomain.ReconstructRental(
		m.ID,
		status,
		rentalDomain.RoomAssignment{Number: m.RoomNumber, Type: m.RoomType},
		contact,
		rentalDomain.RentalPeriod{
			StartDate:    m.StartDate,
			EndDate:      m.EndDate,
			DurationType: rentalDomain.DurationType(m.Duration),
		},
		rentalDomain.Pricing{Amount: m.Amount, PaidAmount: m.PaidAmount, Currency: m.Currency},
		documents,
		m.Notes,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
