// Package store encapsulates MongoDB client management and collection helpers.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type countCollection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// StatsProvider exposes helper methods to retrieve collection counts for basic
// diagnostics without leaking MongoDB internals to callers.
type StatsProvider struct {
	users    countCollection
	bookings countCollection
	doctors  countCollection
}

// NewStatsProvider constructs a StatsProvider backed by the provided
// collections.
func NewStatsProvider(users, bookings, doctors countCollection) *StatsProvider {
	return &StatsProvider{
		users:    users,
		bookings: bookings,
		doctors:  doctors,
	}
}

// CountUsers returns the number of documents in the users collection.
func (p *StatsProvider) CountUsers(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if p == nil || p.users == nil {
		return 0, errors.New("stats provider is not initialized")
	}

	count, err := p.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

// CountBookings returns the number of documents in the bookings collection.
func (p *StatsProvider) CountBookings(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if p == nil || p.bookings == nil {
		return 0, errors.New("stats provider is not initialized")
	}

	count, err := p.bookings.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

// CountDoctors returns the number of documents in the doctors collection.
func (p *StatsProvider) CountDoctors(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if p == nil || p.doctors == nil {
		return 0, errors.New("stats provider is not initialized")
	}

	count, err := p.doctors.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}

	return count, nil
}
