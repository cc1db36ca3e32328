// Package availability computes the remaining bookable slots per treatment
// for a given date.
package availability

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"doctors_portal/internal/domain"
	"doctors_portal/internal/logging"
)

type optionCatalog interface {
	List(ctx context.Context) ([]domain.AppointmentOption, error)
	ListNames(ctx context.Context) ([]domain.Specialty, error)
}

type bookingFinder interface {
	FindByDate(ctx context.Context, date string) ([]domain.Booking, error)
}

// Service narrows the appointment catalog to what is still bookable on a
// date by subtracting already-reserved slots.
type Service struct {
	catalog  optionCatalog
	bookings bookingFinder
	logger   *logrus.Entry
}

// NewService constructs an availability Service.
func NewService(catalog optionCatalog, bookings bookingFinder, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Service{
		catalog:  catalog,
		bookings: bookings,
		logger:   logger,
	}
}

// Options returns every appointment option with its slot list reduced to the
// slots still free on the given date. Slot order is preserved and options
// with no remaining slots are still returned; hiding them is the caller's
// choice. The scan is O(options x bookings), which is fine at the daily
// volumes a single clinic produces.
func (s *Service) Options(ctx context.Context, date string) ([]domain.AppointmentOption, error) {
	if s == nil || s.catalog == nil || s.bookings == nil {
		return nil, errors.New("availability service is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if date == "" {
		return nil, errors.New("date is required")
	}

	options, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookings.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	for i := range options {
		used := make(map[string]struct{})
		for _, b := range booked {
			if b.Treatment == options[i].Name {
				used[b.Slot] = struct{}{}
			}
		}

		remaining := make([]string, 0, len(options[i].Slots))
		for _, slot := range options[i].Slots {
			if _, taken := used[slot]; !taken {
				remaining = append(remaining, slot)
			}
		}
		options[i].Slots = remaining
	}

	s.logger.WithFields(logging.Fields{
		"event":    "availability_computed",
		"date":     date,
		"options":  len(options),
		"bookings": len(booked),
	}).Debug("computed remaining slots")

	return options, nil
}

// Specialties returns the name-only projection of the catalog, used to
// populate treatment pickers. No availability computation is involved.
func (s *Service) Specialties(ctx context.Context) ([]domain.Specialty, error) {
	if s == nil || s.catalog == nil {
		return nil, errors.New("availability service is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	return s.catalog.ListNames(ctx)
}
