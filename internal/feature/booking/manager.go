// Package booking creates and retrieves patient bookings with a best-effort
// duplicate guard.
package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctors_portal/internal/domain"
	"doctors_portal/internal/logging"
)

type bookingStore interface {
	Exists(ctx context.Context, date, email, treatment string) (bool, error)
	Insert(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (domain.Booking, error)
}

// Ack is the creation outcome. When Acknowledged is false the booking was
// refused as a duplicate and Message explains why.
type Ack struct {
	Acknowledged bool
	Message      string
	Booking      domain.Booking
}

// Manager owns booking creation and retrieval.
type Manager struct {
	bookings bookingStore
	logger   *logrus.Entry
}

// NewManager constructs a booking Manager.
func NewManager(bookings bookingStore, logger *logrus.Entry) *Manager {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Manager{
		bookings: bookings,
		logger:   logger,
	}
}

// Create inserts a booking unless one already exists for the same
// (date, email, treatment) tuple. The existence check and the insert are two
// separate store operations; two concurrent requests for the same tuple can
// both pass the check and both insert. The original system carries the same
// race and it is kept here rather than papered over with a unique index.
func (m *Manager) Create(ctx context.Context, b domain.Booking) (Ack, error) {
	if m == nil || m.bookings == nil {
		return Ack{}, errors.New("booking manager is not initialized")
	}
	if ctx == nil {
		return Ack{}, errors.New("context is required")
	}
	if b.AppointmentDate == "" || b.Email == "" || b.Treatment == "" {
		return Ack{}, errors.New("appointmentDate, email and treatment are required")
	}

	exists, err := m.bookings.Exists(ctx, b.AppointmentDate, b.Email, b.Treatment)
	if err != nil {
		return Ack{}, err
	}
	if exists {
		m.logger.WithFields(logging.Fields{
			"event":     "booking_duplicate",
			"email":     b.Email,
			"date":      b.AppointmentDate,
			"treatment": b.Treatment,
		}).Info("refused duplicate booking")

		return Ack{
			Acknowledged: false,
			Message:      fmt.Sprintf("You already have a booking on %s", b.AppointmentDate),
		}, nil
	}

	created, err := m.bookings.Insert(ctx, b)
	if err != nil {
		return Ack{}, err
	}

	m.logger.WithFields(logging.Fields{
		"event":     "booking_created",
		"email":     created.Email,
		"date":      created.AppointmentDate,
		"treatment": created.Treatment,
		"slot":      created.Slot,
	}).Info("created booking")

	return Ack{Acknowledged: true, Booking: created}, nil
}

// ListByEmail returns all bookings made by the given email. Identity
// enforcement (the caller may only list their own) happens in the transport
// layer before this is reached.
func (m *Manager) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	if m == nil || m.bookings == nil {
		return nil, errors.New("booking manager is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if email == "" {
		return nil, errors.New("email is required")
	}

	return m.bookings.FindByEmail(ctx, email)
}

// GetByID returns one booking. This read carries no identity check, matching
// the original system's open endpoint.
func (m *Manager) GetByID(ctx context.Context, id primitive.ObjectID) (domain.Booking, error) {
	if m == nil || m.bookings == nil {
		return domain.Booking{}, errors.New("booking manager is not initialized")
	}
	if ctx == nil {
		return domain.Booking{}, errors.New("context is required")
	}

	return m.bookings.GetByID(ctx, id)
}
