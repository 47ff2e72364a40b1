package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antarakost/service-rental/internal/domain/rental"
	"github.com/antarakost/service-rental/internal/domain/shared"
	"github.com/antarakost/service-rental/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransitionAction names a lifecycle transition request.
type TransitionAction string

const (
	ActionApprove    TransitionAction = "approve"
	ActionReject     TransitionAction = "reject"
	ActionCancel     TransitionAction = "cancel"
	ActionReactivate TransitionAction = "reactivate"
)

// ParseTransitionAction converts a string to a TransitionAction.
func ParseTransitionAction(s string) (TransitionAction, error) {
	action := TransitionAction(s)
	switch action {
	case ActionApprove, ActionReject, ActionCancel, ActionReactivate:
		return action, nil
	}
	return "", fmt.Errorf("invalid transition action: %s", s)
}

// CreateRentalRequest holds the data needed to register a new rental.
type CreateRentalRequest struct {
	RoomNumber   string              `json:"room_number"`
	RoomType     string              `json:"room_type"`
	ContactName  string              `json:"contact_name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	WhatsApp     string              `json:"whatsapp"`
	StartDate    time.Time           `json:"start_date" binding:"required"`
	DurationType rental.DurationType `json:"duration_type" binding:"required"`
	Amount       int64               `json:"amount"`
	PaidAmount   int64               `json:"paid_amount"`
	Notes        string              `json:"notes"`
}

// RentalDTO is the response representation of a rental, including the
// derived payment values that are never persisted.
type RentalDTO struct {
	ID               uuid.UUID             `json:"id"`
	Status           string                `json:"status"`
	Room             rental.RoomAssignment `json:"room"`
	Contact          rental.ContactInfo    `json:"contact"`
	Period           rental.RentalPeriod   `json:"period"`
	Pricing          rental.Pricing        `json:"pricing"`
	PaymentStatus    string                `json:"payment_status"`
	RemainingBalance int64                 `json:"remaining_balance"`
	Documents        []rental.Document     `json:"documents"`
	Notes            string                `json:"notes,omitempty"`
	Version          int64                 `json:"version"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// TransitionResult is the structured outcome of a transition request. A
// gated transition that fails validation is reported here, not as an error:
// the operator needs the missing-field list, and the rental is untouched.
type TransitionResult struct {
	Success       bool       `json:"success"`
	Message       string     `json:"message"`
	MissingFields []string   `json:"missing_fields,omitempty"`
	Rental        *RentalDTO `json:"rental,omitempty"`
}

// RentalService is the application service governing the rental lifecycle.
type RentalService struct {
	repo     rental.Repository
	currency string
	producer *events.Producer
	logger   *zap.Logger
}

// NewRentalService creates a new RentalService.
func NewRentalService(
	repo rental.Repository,
	currency string,
	producer *events.Producer,
	logger *zap.Logger,
) *RentalService {
	return &RentalService{
		repo:     repo,
		currency: currency,
		producer: producer,
		logger:   logger,
	}
}

// CreateRental registers a new rental in PENDING status. Completeness is
// not required at this point; the approval gate enforces it later.
func (s *RentalService) CreateRental(ctx context.Context, req CreateRentalRequest) (*RentalDTO, error) {
	r, err := rental.NewRental(
		rental.RoomAssignment{Number: req.RoomNumber, Type: req.RoomType},
		rental.ContactInfo{
			Name:     req.ContactName,
			Email:    req.Email,
			Phone:    req.Phone,
			WhatsApp: req.WhatsApp,
		},
		req.StartDate,
		req.DurationType,
		rental.Pricing{Amount: req.Amount, PaidAmount: req.PaidAmount, Currency: s.currency},
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save rental: %w", err)
	}

	result := toRentalDTO(r)
	return &result, nil
}

// Transition applies a lifecycle action to the rental. Validation and
// state-machine failures come back as an unsuccessful TransitionResult with
// the rental unchanged; infrastructure failures come back as an error.
func (s *RentalService) Transition(ctx context.Context, rentalID uuid.UUID, action TransitionAction) (*TransitionResult, error) {
	r, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	var transitionErr error
	var eventType string
	switch action {
	case ActionApprove:
		transitionErr = r.Approve()
		eventType = events.RentalApproved
	case ActionReject:
		transitionErr = r.Reject()
		eventType = events.RentalRejected
	case ActionCancel:
		transitionErr = r.Cancel()
		eventType = events.RentalCancelled
	case ActionReactivate:
		transitionErr = r.Reactivate()
		eventType = events.RentalReactivated
	default:
		return nil, shared.NewValidationError(fmt.Sprintf("unknown action: %s", action))
	}

	if transitionErr != nil {
		var de *shared.DomainError
		if errors.As(transitionErr, &de) &&
			(de.Kind == shared.KindValidation || de.Kind == shared.KindInvalidState) {
			return &TransitionResult{
				Success:       false,
				Message:       de.Message,
				MissingFields: de.MissingFields,
			}, nil
		}
		return nil, transitionErr
	}

	r.IncrementVersion()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, eventType, r)

	result := toRentalDTO(r)
	return &TransitionResult{Success: true, Message: "ok", Rental: &result}, nil
}

// EditFields applies a field patch to the rental. The end date is
// recomputed by the aggregate whenever the start date or duration type
// changes. Edits are never gated on the approval profile.
func (s *RentalService) EditFields(ctx context.Context, rentalID uuid.UUID, patch rental.EditPatch) (*RentalDTO, error) {
	r, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if err := r.ApplyEdit(patch); err != nil {
		return nil, err
	}

	r.IncrementVersion()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}

	result := toRentalDTO(r)
	return &result, nil
}

// RecordPayment adds a received payment to the rental's paid amount.
func (s *RentalService) RecordPayment(ctx context.Context, rentalID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return shared.NewValidationError("payment amount must be positive")
	}

	r, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return err
	}

	newPaid := r.Pricing().PaidAmount + amount
	if err := r.ApplyEdit(rental.EditPatch{PaidAmount: &newPaid}); err != nil {
		return err
	}

	r.IncrementVersion()
	return s.repo.Update(ctx, r)
}

// IsFieldMissing reports whether a single field is missing on the rental,
// for live per-field UI indicators.
func (s *RentalService) IsFieldMissing(ctx context.Context, rentalID uuid.UUID, field rental.Field) (bool, error) {
	r, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return false, err
	}
	return r.IsFieldMissing(field), nil
}

// GetRental retrieves a single rental by ID.
func (s *RentalService) GetRental(ctx context.Context, rentalID uuid.UUID) (*RentalDTO, error) {
	r, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	result := toRentalDTO(r)
	return &result, nil
}

// ListRentals returns a paginated list of rentals, newest first.
func (s *RentalService) ListRentals(ctx context.Context, page, limit int) ([]RentalDTO, int64, error) {
	rentals, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rentals: %w", err)
	}

	dtos := make([]RentalDTO, len(rentals))
	for i, r := range rentals {
		dtos[i] = toRentalDTO(r)
	}
	return dtos, total, nil
}

// RentalStatsDTO holds rental counts for the back-office dashboard.
type RentalStatsDTO struct {
	TotalRentals int64            `json:"total_rentals"`
	ByStatus     map[string]int64 `json:"by_status"`
}

// GetRentalStats returns aggregate rental counts by status.
func (s *RentalService) GetRentalStats(ctx context.Context) (*RentalStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rental stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &RentalStatsDTO{TotalRentals: total, ByStatus: counts}, nil
}

// DeleteRental removes a rental permanently.
func (s *RentalService) DeleteRental(ctx context.Context, rentalID uuid.UUID) error {
	return s.repo.Delete(ctx, rentalID)
}

// --- Helpers ---

func toRentalDTO(r *rental.Rental) RentalDTO {
	paymentStatus, remaining := rental.ResolvePayment(r.Pricing().Amount, r.Pricing().PaidAmount)
	return RentalDTO{
		ID:               r.ID(),
		Status:           string(r.Status()),
		Room:             r.Room(),
		Contact:          r.Contact(),
		Period:           r.Period(),
		Pricing:          r.Pricing(),
		PaymentStatus:    string(paymentStatus),
		RemainingBalance: remaining,
		Documents:        r.Documents(),
		Notes:            r.Notes(),
		Version:          r.Version(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}

func (s *RentalService) publishStatusChanged(ctx context.Context, eventType string, r *rental.Rental) {
	if s.producer == nil {
		return
	}

	evt := events.RentalStatusChangedEvent{
		RentalID:   r.ID(),
		RoomNumber: r.Room().Number,
		Status:     string(r.Status()),
		OccurredAt: time.Now().UTC(),
	}
	envelope, err := events.NewEnvelope("service-rental", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create event envelope",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.Publish(ctx, events.TopicRentalEvents, r.ID().String(), envelope); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("rental_id", r.ID().String()),
			zap.Error(err),
		)
	}
}
