// Package payment stages provider charges and records confirmed payments
// against bookings.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctors_portal/internal/domain"
	"doctors_portal/internal/logging"
)

// IntentCreator stages a charge with the payment provider and returns the
// client-facing secret. Amounts are in minor currency units.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64) (string, error)
}

type paymentStore interface {
	Insert(ctx context.Context, payment domain.Payment) (domain.Payment, error)
}

type bookingMarker interface {
	MarkPaid(ctx context.Context, id primitive.ObjectID, transactionID string) error
}

// Coordinator drives the two payment flows: staging an intent before the
// client pays, and recording the result after the client has paid.
type Coordinator struct {
	intents  IntentCreator
	payments paymentStore
	bookings bookingMarker
	logger   *logrus.Entry
}

// NewCoordinator constructs a payment Coordinator.
func NewCoordinator(intents IntentCreator, payments paymentStore, bookings bookingMarker, logger *logrus.Entry) *Coordinator {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Coordinator{
		intents:  intents,
		payments: payments,
		bookings: bookings,
		logger:   logger,
	}
}

// CreateIntent stages a charge for the booking price, converting it to minor
// units. Provider failures are returned unchanged for the transport layer to
// surface; there is no retry.
func (c *Coordinator) CreateIntent(ctx context.Context, price float64) (string, error) {
	if c == nil || c.intents == nil {
		return "", errors.New("payment coordinator is not initialized")
	}
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if price <= 0 {
		return "", fmt.Errorf("price must be positive, got %v", price)
	}

	// Round rather than truncate: 19.99*100 is 1998.99... in float64.
	amount := int64(math.Round(price * 100))

	secret, err := c.intents.CreateIntent(ctx, amount)
	if err != nil {
		return "", err
	}

	c.logger.WithFields(logging.Fields{
		"event":  "payment_intent_created",
		"amount": amount,
	}).Info("created payment intent")

	return secret, nil
}

// Record inserts the payment, then marks the referenced booking paid. The
// two writes are sequential and not transactional: if the booking update
// fails the payment record stays behind with no compensating delete,
// matching the original system's behavior.
func (c *Coordinator) Record(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	if c == nil || c.payments == nil || c.bookings == nil {
		return domain.Payment{}, errors.New("payment coordinator is not initialized")
	}
	if ctx == nil {
		return domain.Payment{}, errors.New("context is required")
	}

	bookingID, err := primitive.ObjectIDFromHex(payment.BookingID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("invalid bookingId %q: %w", payment.BookingID, err)
	}

	inserted, err := c.payments.Insert(ctx, payment)
	if err != nil {
		return domain.Payment{}, err
	}

	if err := c.bookings.MarkPaid(ctx, bookingID, payment.TransactionID); err != nil {
		c.logger.WithFields(logging.Fields{
			"event":      "payment_booking_update_failed",
			"booking_id": payment.BookingID,
		}).WithError(err).Error("payment recorded but booking not marked paid")

		return inserted, fmt.Errorf("mark booking paid: %w", err)
	}

	c.logger.WithFields(logging.Fields{
		"event":          "payment_recorded",
		"booking_id":     payment.BookingID,
		"transaction_id": payment.TransactionID,
	}).Info("recorded payment")

	return inserted, nil
}
