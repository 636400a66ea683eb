package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	guest  = Actor{ID: "guest-1", Role: RoleGuest}
	agency = Actor{ID: "agency-1", Role: RoleAgency}
	hotel  = Actor{ID: "hotel-1", Role: RoleHotel}
)

func openRequest(by Actor) *Request {
	return &Request{
		ID:                      primitive.NewObjectID(),
		CreatedByRole:           by.Role,
		CreatedByID:             by.ID,
		City:                    "Belgrade",
		CheckIn:                 time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
		CheckOut:                time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		Adults:                  2,
		RoomsCount:              1,
		CreatedAt:               time.Now(),
		ResponseDeadlineMinutes: 60,
		Status:                  RequestOpen,
	}
}

func sentOffer(req *Request, mode OfferMode) *Offer {
	return &Offer{
		ID:             primitive.NewObjectID(),
		RequestID:      req.ID,
		OffererID:      hotel.ID,
		TotalPrice:     10000,
		Currency:       "EUR",
		CommissionRate: 10,
		Mode:           mode,
		Status:         OfferSent,
	}
}

func TestCanSubmitOffer(t *testing.T) {
	req := openRequest(guest)

	assert.NoError(t, CanSubmitOffer(hotel, req, nil))

	var it InvalidTransition
	assert.ErrorAs(t, CanSubmitOffer(guest, req, nil), &it)

	existing := sentOffer(req, OfferModeSimple)
	assert.ErrorAs(t, CanSubmitOffer(hotel, req, existing), &it)

	req.Status = RequestExpired
	assert.ErrorIs(t, CanSubmitOffer(hotel, req, nil), ErrRequestClosed)
}

func TestCanReviseOffer(t *testing.T) {
	req := openRequest(guest)
	offer := sentOffer(req, OfferModeRefreshable)

	assert.NoError(t, CanReviseOffer(hotel, req, offer))

	var it InvalidTransition
	assert.ErrorAs(t, CanReviseOffer(Actor{ID: "hotel-2", Role: RoleHotel}, req, offer), &it)

	offer.Status = OfferRejected
	assert.ErrorAs(t, CanReviseOffer(hotel, req, offer), &it)

	offer.Status = OfferSent
	req.Status = RequestAccepted
	assert.ErrorIs(t, CanReviseOffer(hotel, req, offer), ErrRequestClosed)
}

func TestCanCounterOffer(t *testing.T) {
	req := openRequest(guest)
	offer := sentOffer(req, OfferModeNegotiable)

	assert.NoError(t, CanCounterOffer(guest, req, offer))

	var it InvalidTransition
	assert.ErrorAs(t, CanCounterOffer(hotel, req, offer), &it)

	simple := sentOffer(req, OfferModeSimple)
	assert.ErrorAs(t, CanCounterOffer(guest, req, simple), &it)

	counter := 9000.0
	offer.GuestCounterPrice = &counter
	assert.ErrorIs(t, CanCounterOffer(guest, req, offer), ErrCounterAlreadySet)

	// the one-counter rule outranks every other guard
	offer.Mode = OfferModeSimple
	assert.ErrorIs(t, CanCounterOffer(guest, req, offer), ErrCounterAlreadySet)
}

func TestCanCounterOfferOnlyFromSentOrCountered(t *testing.T) {
	req := openRequest(guest)
	offer := sentOffer(req, OfferModeNegotiable)

	offer.Status = OfferCountered
	assert.NoError(t, CanCounterOffer(guest, req, offer))

	var it InvalidTransition
	offer.Status = OfferUpdated
	assert.ErrorAs(t, CanCounterOffer(guest, req, offer), &it)

	offer.Status = OfferWithdrawn
	assert.ErrorAs(t, CanCounterOffer(guest, req, offer), &it)
}

func TestCanRejectOffer(t *testing.T) {
	req := openRequest(guest)
	offer := sentOffer(req, OfferModeSimple)

	assert.NoError(t, CanRejectOffer(guest, req, offer))

	// rejection is allowed even after the request closed
	req.Status = RequestExpired
	assert.NoError(t, CanRejectOffer(guest, req, offer))

	var it InvalidTransition
	assert.ErrorAs(t, CanRejectOffer(hotel, req, offer), &it)

	offer.Status = OfferAccepted
	assert.ErrorAs(t, CanRejectOffer(guest, req, offer), &it)

	// withdrawn and rejected are terminal, no coming back as rejected
	offer.Status = OfferWithdrawn
	assert.ErrorAs(t, CanRejectOffer(guest, req, offer), &it)
	offer.Status = OfferRejected
	assert.ErrorAs(t, CanRejectOffer(guest, req, offer), &it)
}

func TestCanWithdrawOffer(t *testing.T) {
	req := openRequest(guest)
	offer := sentOffer(req, OfferModeSimple)

	assert.NoError(t, CanWithdrawOffer(hotel, req, offer))

	var it InvalidTransition
	assert.ErrorAs(t, CanWithdrawOffer(guest, req, offer), &it)

	offer.Status = OfferAccepted
	assert.ErrorAs(t, CanWithdrawOffer(hotel, req, offer), &it)

	offer.Status = OfferSent
	req.Status = RequestCancelled
	assert.ErrorIs(t, CanWithdrawOffer(hotel, req, offer), ErrRequestClosed)
}

func TestCanAcceptOffer(t *testing.T) {
	req := openRequest(agency)
	offer := sentOffer(req, OfferModeSimple)

	assert.NoError(t, CanAcceptOffer(agency, req, offer))

	var it InvalidTransition
	assert.ErrorAs(t, CanAcceptOffer(guest, req, offer), &it)

	offer.Status = OfferWithdrawn
	assert.ErrorAs(t, CanAcceptOffer(agency, req, offer), &it)

	offer.Status = OfferCountered
	assert.NoError(t, CanAcceptOffer(agency, req, offer))

	req.Status = RequestExpired
	assert.ErrorIs(t, CanAcceptOffer(agency, req, offer), ErrRequestClosed)
}

func TestCanCancelRequest(t *testing.T) {
	req := openRequest(guest)

	assert.NoError(t, CanCancelRequest(guest, req))

	var it InvalidTransition
	assert.ErrorAs(t, CanCancelRequest(hotel, req), &it)

	req.Status = RequestAccepted
	assert.ErrorIs(t, CanCancelRequest(guest, req), ErrRequestClosed)
}

func TestRequestValidate(t *testing.T) {
	req := openRequest(guest)
	assert.NoError(t, req.Validate())

	var vErr ValidationError
	bad := *req
	bad.City = ""
	assert.ErrorAs(t, bad.Validate(), &vErr)

	bad = *req
	bad.CheckOut = bad.CheckIn
	assert.ErrorAs(t, bad.Validate(), &vErr)

	bad = *req
	bad.AgencyDiscountRate = 5
	assert.ErrorAs(t, bad.Validate(), &vErr)

	agencyReq := openRequest(agency)
	agencyReq.AgencyDiscountRate = 5
	assert.NoError(t, agencyReq.Validate())
}

func TestDiscountRateIgnoredForGuests(t *testing.T) {
	req := openRequest(guest)
	req.AgencyDiscountRate = 5
	assert.Equal(t, 0.0, req.DiscountRate())

	agencyReq := openRequest(agency)
	agencyReq.AgencyDiscountRate = 5
	assert.Equal(t, 5.0, agencyReq.DiscountRate())
}

func TestOfferValidate(t *testing.T) {
	req := openRequest(guest)
	offer := sentOffer(req, OfferModeNegotiable)
	assert.NoError(t, offer.Validate())

	var vErr ValidationError
	bad := *offer
	bad.TotalPrice = 0
	assert.ErrorAs(t, bad.Validate(), &vErr)

	bad = *offer
	bad.CommissionRate = 12
	assert.ErrorAs(t, bad.Validate(), &vErr)

	bad = *offer
	bad.Mode = "haggling"
	assert.ErrorAs(t, bad.Validate(), &vErr)
}
