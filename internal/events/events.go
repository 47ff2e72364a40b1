package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topics carrying rental and payment events.
const (
	TopicRentalEvents  = "rental.events"
	TopicPaymentEvents = "payment.events"
)

// Event types published on rental.events.
const (
	RentalApproved          = "rental.approved"
	RentalRejected          = "rental.rejected"
	RentalCancelled         = "rental.cancelled"
	RentalReactivated       = "rental.reactivated"
	RentalDocumentGenerated = "rental.document_generated"
)

// Event types consumed from payment.events.
const (
	PaymentReceived = "payment.received"
)

// Envelope is the wire format for all events.
type Envelope struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Type   string          `json:"type"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// NewEnvelope wraps an event payload in an Envelope.
func NewEnvelope(source, eventType string, data interface{}) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Envelope{
		ID:     uuid.New().String(),
		Source: source,
		Type:   eventType,
		Time:   time.Now().UTC(),
		Data:   raw,
	}, nil
}

// ParseEnvelope decodes an Envelope from raw bytes.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse event envelope: %w", err)
	}
	return e, nil
}

// ParseData decodes the envelope's payload into v.
func (e Envelope) ParseData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// RentalStatusChangedEvent is published on every lifecycle transition.
type RentalStatusChangedEvent struct {
	RentalID   uuid.UUID `json:"rental_id"`
	RoomNumber string    `json:"room_number"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DocumentGeneratedEvent is published for each successfully generated document.
type DocumentGeneratedEvent struct {
	RentalID     uuid.UUID `json:"rental_id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	FileURL      string    `json:"file_url"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PaymentReceivedEvent carries a payment recorded by the payment system.
type PaymentReceivedEvent struct {
	RentalID   uuid.UUID `json:"rental_id"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
