package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctors_portal/internal/domain"
)

type stubCatalog struct {
	options []domain.AppointmentOption
	names   []domain.Specialty
	err     error
}

func (s *stubCatalog) List(ctx context.Context) ([]domain.AppointmentOption, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.AppointmentOption, len(s.options))
	copy(out, s.options)
	for i := range out {
		slots := make([]string, len(out[i].Slots))
		copy(slots, out[i].Slots)
		out[i].Slots = slots
	}
	return out, nil
}

func (s *stubCatalog) ListNames(ctx context.Context) ([]domain.Specialty, error) {
	return s.names, s.err
}

type stubBookings struct {
	byDate map[string][]domain.Booking
	err    error
}

func (s *stubBookings) FindByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byDate[date], nil
}

func newService(catalog *stubCatalog, bookings *stubBookings) *Service {
	hookLogger, _ := logtest.NewNullLogger()
	return NewService(catalog, bookings, logrus.NewEntry(hookLogger))
}

func TestOptionsSubtractsBookedSlots(t *testing.T) {
	catalog := &stubCatalog{options: []domain.AppointmentOption{
		{Name: "Braces", Slots: []string{"9AM", "10AM"}, Price: 99},
	}}
	bookings := &stubBookings{byDate: map[string][]domain.Booking{
		"2024-01-01": {
			{AppointmentDate: "2024-01-01", Treatment: "Braces", Slot: "9AM"},
		},
	}}

	svc := newService(catalog, bookings)

	options, err := svc.Options(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Braces", options[0].Name)
	assert.Equal(t, []string{"10AM"}, options[0].Slots)
}

func TestOptionsPreservesSlotOrder(t *testing.T) {
	catalog := &stubCatalog{options: []domain.AppointmentOption{
		{Name: "Whitening", Slots: []string{"8AM", "9AM", "10AM", "11AM", "1PM"}},
	}}
	bookings := &stubBookings{byDate: map[string][]domain.Booking{
		"2024-02-02": {
			{AppointmentDate: "2024-02-02", Treatment: "Whitening", Slot: "9AM"},
			{AppointmentDate: "2024-02-02", Treatment: "Whitening", Slot: "11AM"},
		},
	}}

	svc := newService(catalog, bookings)

	options, err := svc.Options(context.Background(), "2024-02-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"8AM", "10AM", "1PM"}, options[0].Slots)
}

func TestOptionsOnlyAffectsMatchingTreatment(t *testing.T) {
	catalog := &stubCatalog{options: []domain.AppointmentOption{
		{Name: "Braces", Slots: []string{"9AM", "10AM"}},
		{Name: "Whitening", Slots: []string{"9AM", "10AM"}},
	}}
	bookings := &stubBookings{byDate: map[string][]domain.Booking{
		"2024-01-01": {
			{AppointmentDate: "2024-01-01", Treatment: "Braces", Slot: "9AM"},
		},
	}}

	svc := newService(catalog, bookings)

	options, err := svc.Options(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"10AM"}, options[0].Slots)
	assert.Equal(t, []string{"9AM", "10AM"}, options[1].Slots)
}

func TestOptionsKeepsFullyBookedTemplates(t *testing.T) {
	catalog := &stubCatalog{options: []domain.AppointmentOption{
		{Name: "Braces", Slots: []string{"9AM"}},
	}}
	bookings := &stubBookings{byDate: map[string][]domain.Booking{
		"2024-01-01": {
			{AppointmentDate: "2024-01-01", Treatment: "Braces", Slot: "9AM"},
		},
	}}

	svc := newService(catalog, bookings)

	options, err := svc.Options(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Len(t, options, 1, "fully booked templates are returned, not elided")
	assert.Empty(t, options[0].Slots)
}

func TestOptionsIgnoresBookingsOnOtherDates(t *testing.T) {
	catalog := &stubCatalog{options: []domain.AppointmentOption{
		{Name: "Braces", Slots: []string{"9AM", "10AM"}},
	}}
	bookings := &stubBookings{byDate: map[string][]domain.Booking{
		"2024-01-02": {
			{AppointmentDate: "2024-01-02", Treatment: "Braces", Slot: "9AM"},
		},
	}}

	svc := newService(catalog, bookings)

	options, err := svc.Options(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"9AM", "10AM"}, options[0].Slots)
}

func TestOptionsValidatesInput(t *testing.T) {
	svc := newService(&stubCatalog{}, &stubBookings{})

	_, err := svc.Options(context.Background(), "")
	assert.Error(t, err)

	_, err = svc.Options(nil, "2024-01-01")
	assert.Error(t, err)
}

func TestOptionsPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("store down")

	svc := newService(&stubCatalog{err: storeErr}, &stubBookings{})
	_, err := svc.Options(context.Background(), "2024-01-01")
	assert.ErrorIs(t, err, storeErr)

	svc = newService(&stubCatalog{}, &stubBookings{err: storeErr})
	_, err = svc.Options(context.Background(), "2024-01-01")
	assert.ErrorIs(t, err, storeErr)
}

func TestSpecialtiesReturnsNameProjection(t *testing.T) {
	catalog := &stubCatalog{names: []domain.Specialty{
		{Name: "Braces"},
		{Name: "Whitening"},
	}}

	svc := newService(catalog, &stubBookings{})

	names, err := svc.Specialties(context.Background())
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "Braces", names[0].Name)
}
