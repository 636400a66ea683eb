package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/domain"
)

func (f *fixture) seedBookingForHotel(t *testing.T, hotel domain.Actor) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		GuestID:        testGuest.ID,
		HotelID:        hotel.ID,
		TotalPrice:     10000,
		CommissionRate: 10,
		Currency:       "EUR",
		CheckIn:        time.Now().Add(-10 * 24 * time.Hour),
		CheckOut:       time.Now().Add(-5 * 24 * time.Hour),
		Status:         domain.BookingActive,
		CreatedAt:      time.Now().Add(-30 * 24 * time.Hour),
	}
	require.NoError(t, f.bookings.Insert(context.Background(), b))
	return b
}

func TestOpenDispute(t *testing.T) {
	f := newFixture()
	booking := f.seedBookingForHotel(t, testHotel)
	period := domain.PeriodOf(time.Now())

	dispute, err := f.disputeService.Open(context.Background(), testHotel, booking.ID, period, "commission charged on a no-show")
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeOpen, dispute.Status)
	assert.Equal(t, testHotel.ID, dispute.HotelID)
	assert.Equal(t, period, dispute.Period)
}

func TestOpenDisputeClosedWindow(t *testing.T) {
	f := newFixture()
	booking := f.seedBookingForHotel(t, testHotel)
	lastMonth := domain.PeriodOf(time.Now().AddDate(0, -1, 0))

	_, err := f.disputeService.Open(context.Background(), testHotel, booking.ID, lastMonth, "late charge")
	assert.ErrorIs(t, err, domain.ErrDisputeWindowClosed)
}

func TestOpenDisputeOncePerBookingAndPeriod(t *testing.T) {
	f := newFixture()
	booking := f.seedBookingForHotel(t, testHotel)
	period := domain.PeriodOf(time.Now())

	_, err := f.disputeService.Open(context.Background(), testHotel, booking.ID, period, "first")
	require.NoError(t, err)

	_, err = f.disputeService.Open(context.Background(), testHotel, booking.ID, period, "second")
	assert.ErrorIs(t, err, domain.ErrDisputeExists)
}

func TestOpenDisputeForeignBooking(t *testing.T) {
	f := newFixture()
	booking := f.seedBookingForHotel(t, testHotel)

	var vErr domain.ValidationError
	_, err := f.disputeService.Open(context.Background(), testHotel2, booking.ID, domain.PeriodOf(time.Now()), "not mine")
	assert.ErrorAs(t, err, &vErr)
}

func TestResolveDispute(t *testing.T) {
	f := newFixture()
	booking := f.seedBookingForHotel(t, testHotel)

	dispute, err := f.disputeService.Open(context.Background(), testHotel, booking.ID, domain.PeriodOf(time.Now()), "wrong amount")
	require.NoError(t, err)

	resolved, err := f.disputeService.Resolve(context.Background(), dispute.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeResolved, resolved.Status)

	_, err = f.disputeService.Resolve(context.Background(), dispute.ID)
	assert.ErrorIs(t, err, domain.ErrWriteConflict)
}

func TestListDisputesByHotel(t *testing.T) {
	f := newFixture()
	b1 := f.seedBookingForHotel(t, testHotel)
	b2 := f.seedBookingForHotel(t, testHotel2)
	period := domain.PeriodOf(time.Now())

	_, err := f.disputeService.Open(context.Background(), testHotel, b1.ID, period, "one")
	require.NoError(t, err)
	_, err = f.disputeService.Open(context.Background(), testHotel2, b2.ID, period, "two")
	require.NoError(t, err)

	mine, err := f.disputeService.ListByHotel(context.Background(), testHotel)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
