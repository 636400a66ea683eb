package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/domain"
)

func TestSubmitOffer(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)

	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeNegotiable, 10000)

	assert.False(t, offer.ID.IsZero())
	assert.Equal(t, domain.OfferSent, offer.Status)
	assert.Equal(t, testHotel.ID, offer.OffererID)
	assert.Nil(t, offer.GuestCounterPrice)
}

func TestSubmitOfferBlocksDuplicateLiveOffer(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	f.seedSentOffer(t, testHotel, req, domain.OfferModeSimple, 10000)

	dup := &domain.Offer{
		RequestID:      req.ID,
		TotalPrice:     9000,
		Currency:       "EUR",
		CommissionRate: 10,
		Mode:           domain.OfferModeSimple,
	}
	_, err := f.offerService.Submit(context.Background(), testHotel, dup)

	var it domain.InvalidTransition
	assert.ErrorAs(t, err, &it)

	// a second hotel is free to bid on the same request
	_, err = f.offerService.Submit(context.Background(), testHotel2, &domain.Offer{
		RequestID:      req.ID,
		TotalPrice:     9500,
		Currency:       "EUR",
		CommissionRate: 8,
		Mode:           domain.OfferModeSimple,
	})
	assert.NoError(t, err)
}

func TestSubmitOfferAgainstExpiredRequest(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)

	req.CreatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, f.requests.Insert(context.Background(), req))

	_, err := f.offerService.Submit(context.Background(), testHotel, &domain.Offer{
		RequestID:      req.ID,
		TotalPrice:     10000,
		Currency:       "EUR",
		CommissionRate: 10,
		Mode:           domain.OfferModeSimple,
	})
	assert.ErrorIs(t, err, domain.ErrRequestClosed)
}

func TestReviseOffer(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeRefreshable, 10000)

	revised, err := f.offerService.Revise(context.Background(), testHotel, offer.ID, 9200)
	require.NoError(t, err)
	assert.Equal(t, 9200.0, revised.TotalPrice)
	assert.Equal(t, domain.OfferUpdated, revised.Status)

	// revising again from updated is fine, the offer stays live
	revised, err = f.offerService.Revise(context.Background(), testHotel, offer.ID, 9100)
	require.NoError(t, err)
	assert.Equal(t, 9100.0, revised.TotalPrice)
}

func TestReviseOfferOnlyByItsOfferer(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeRefreshable, 10000)

	var it domain.InvalidTransition
	_, err := f.offerService.Revise(context.Background(), testHotel2, offer.ID, 9000)
	assert.ErrorAs(t, err, &it)
}

func TestCounterOfferOnce(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeNegotiable, 10000)

	countered, err := f.offerService.Counter(context.Background(), testGuest, offer.ID, 9000)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferCountered, countered.Status)
	require.NotNil(t, countered.GuestCounterPrice)
	assert.Equal(t, 9000.0, *countered.GuestCounterPrice)

	// the counter is once per offer lifetime, not once per round
	_, err = f.offerService.Counter(context.Background(), testGuest, offer.ID, 8500)
	assert.ErrorIs(t, err, domain.ErrCounterAlreadySet)
}

func TestCounterOfferRequiresNegotiableMode(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeSimple, 10000)

	var it domain.InvalidTransition
	_, err := f.offerService.Counter(context.Background(), testGuest, offer.ID, 9000)
	assert.ErrorAs(t, err, &it)
}

func TestCounterOfferOnlyByRequester(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeNegotiable, 10000)

	var it domain.InvalidTransition
	_, err := f.offerService.Counter(context.Background(), testHotel, offer.ID, 9000)
	assert.ErrorAs(t, err, &it)
}

func TestCounterSurvivesHotelRevision(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeNegotiable, 10000)

	_, err := f.offerService.Counter(context.Background(), testGuest, offer.ID, 9000)
	require.NoError(t, err)

	// hotel answers the counter with a new price, counter stays consumed
	revised, err := f.offerService.Revise(context.Background(), testHotel, offer.ID, 9300)
	require.NoError(t, err)
	require.NotNil(t, revised.GuestCounterPrice)
	assert.Equal(t, 9000.0, *revised.GuestCounterPrice)

	_, err = f.offerService.Counter(context.Background(), testGuest, offer.ID, 8800)
	assert.ErrorIs(t, err, domain.ErrCounterAlreadySet)
}

func TestRejectOffer(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeSimple, 10000)

	rejected, err := f.offerService.Reject(context.Background(), testGuest, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferRejected, rejected.Status)

	// a rejected offer no longer blocks a fresh submit from the same hotel
	_, err = f.offerService.Submit(context.Background(), testHotel, &domain.Offer{
		RequestID:      req.ID,
		TotalPrice:     9500,
		Currency:       "EUR",
		CommissionRate: 10,
		Mode:           domain.OfferModeSimple,
	})
	assert.NoError(t, err)
}

func TestRejectTerminalOffer(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeSimple, 10000)

	_, err := f.offerService.Withdraw(context.Background(), testHotel, offer.ID)
	require.NoError(t, err)

	// a withdrawn offer stays withdrawn
	var it domain.InvalidTransition
	_, err = f.offerService.Reject(context.Background(), testGuest, offer.ID)
	assert.ErrorAs(t, err, &it)

	stored, err := f.offers.GetByID(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferWithdrawn, stored.Status)

	// same for an already rejected one
	second := f.seedSentOffer(t, testHotel2, req, domain.OfferModeSimple, 9800)
	_, err = f.offerService.Reject(context.Background(), testGuest, second.ID)
	require.NoError(t, err)
	_, err = f.offerService.Reject(context.Background(), testGuest, second.ID)
	assert.ErrorAs(t, err, &it)
}

func TestWithdrawOffer(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeSimple, 10000)

	withdrawn, err := f.offerService.Withdraw(context.Background(), testHotel, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferWithdrawn, withdrawn.Status)

	var it domain.InvalidTransition
	_, err = f.offerService.Withdraw(context.Background(), testHotel, offer.ID)
	assert.ErrorAs(t, err, &it)
}

func TestOfferActionsAfterAccept(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	offer := f.seedSentOffer(t, testHotel, req, domain.OfferModeNegotiable, 10000)

	_, err := f.bookingService.Accept(context.Background(), testGuest, AcceptOfferInput{
		RequestID:          req.ID,
		OfferID:            offer.ID,
		PaymentMethod:      domain.PaymentPayAtHotel,
		CancellationPolicy: domain.CancellationPolicy{Type: domain.PolicyFlexible},
	})
	require.NoError(t, err)

	_, err = f.offerService.Revise(context.Background(), testHotel, offer.ID, 9000)
	assert.ErrorIs(t, err, domain.ErrRequestClosed)

	_, err = f.offerService.Counter(context.Background(), testGuest, offer.ID, 9000)
	assert.ErrorIs(t, err, domain.ErrRequestClosed)

	_, err = f.offerService.Submit(context.Background(), testHotel2, &domain.Offer{
		RequestID:      req.ID,
		TotalPrice:     9000,
		Currency:       "EUR",
		CommissionRate: 10,
		Mode:           domain.OfferModeSimple,
	})
	assert.ErrorIs(t, err, domain.ErrRequestClosed)
}

func TestListOffers(t *testing.T) {
	f := newFixture()
	req := f.seedOpenRequest(t, testGuest, 0)
	f.seedSentOffer(t, testHotel, req, domain.OfferModeSimple, 10000)
	f.seedSentOffer(t, testHotel2, req, domain.OfferModeSimple, 9500)

	byRequest, err := f.offerService.ListByRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Len(t, byRequest, 2)

	byOfferer, err := f.offerService.ListByOfferer(context.Background(), testHotel)
	require.NoError(t, err)
	assert.Len(t, byOfferer, 1)
}
