package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentApplier records a received payment against a rental.
type PaymentApplier interface {
	RecordPayment(ctx context.Context, rentalID uuid.UUID, amount int64) error
}

// PaymentEventConsumer listens to payment events and records paid amounts
// on the matching rentals.
type PaymentEventConsumer struct {
	reader  *kafkago.Reader
	applier PaymentApplier
	logger  *zap.Logger
}

// NewPaymentEventConsumer creates a consumer on the payment events topic.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	applier PaymentApplier,
	logger *zap.Logger,
) *PaymentEventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    TopicPaymentEvents,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &PaymentEventConsumer{reader: reader, applier: applier, logger: logger}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		if err := c.handleMessage(ctx, msg); err != nil {
			c.logger.Error("failed to handle payment event", zap.Error(err))
		}
	}
}

// Close closes the underlying Kafka reader.
func (c *PaymentEventConsumer) Close() error {
	return c.reader.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	envelope, err := ParseEnvelope(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch envelope.Type {
	case PaymentReceived:
		return c.handlePaymentReceived(ctx, envelope)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", envelope.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentReceived(ctx context.Context, envelope Envelope) error {
	var evt PaymentReceivedEvent
	if err := envelope.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentReceivedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment received event",
		zap.String("rental_id", evt.RentalID.String()),
		zap.Int64("amount", evt.Amount),
	)

	if err := c.applier.RecordPayment(ctx, evt.RentalID, evt.Amount); err != nil {
		c.logger.Error("failed to record payment on rental",
			zap.String("rental_id", evt.RentalID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
