package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/domain"
	"marketplace-service/repository"
)

var testAgency2 = domain.Actor{ID: "agency-2", Role: domain.RoleAgency}

type packageFixture struct {
	repo    *repository.MemoryPackageRepo
	service PackageService
}

func newPackageFixture() *packageFixture {
	repo := repository.NewMemoryPackageRepo()
	return &packageFixture{
		repo:    repo,
		service: NewPackageServiceImpl(repo, testLogger(), testTracer()),
	}
}

func (f *packageFixture) seedRequest(t *testing.T, actor domain.Actor) *domain.PackageRequest {
	t.Helper()
	req := &domain.PackageRequest{
		Destination:             "Antalya",
		StartDate:               time.Now().Add(30 * 24 * time.Hour),
		EndDate:                 time.Now().Add(37 * 24 * time.Hour),
		Travellers:              4,
		ResponseDeadlineMinutes: 120,
	}
	created, err := f.service.CreateRequest(context.Background(), actor, req)
	require.NoError(t, err)
	return created
}

func (f *packageFixture) seedOffer(t *testing.T, actor domain.Actor, req *domain.PackageRequest, price float64) *domain.PackageOffer {
	t.Helper()
	offer := &domain.PackageOffer{
		RequestID:      req.ID,
		TotalPrice:     price,
		Currency:       "EUR",
		CommissionRate: 8,
		Description:    "7 nights, half board, transfers included",
	}
	created, err := f.service.SubmitOffer(context.Background(), actor, offer)
	require.NoError(t, err)
	return created
}

func TestCreatePackageRequestAgenciesOnly(t *testing.T) {
	f := newPackageFixture()

	req := f.seedRequest(t, testAgency)
	assert.Equal(t, domain.RequestOpen, req.Status)
	assert.Equal(t, testAgency.ID, req.CreatedByID)

	var vErr domain.ValidationError
	_, err := f.service.CreateRequest(context.Background(), testGuest, &domain.PackageRequest{})
	assert.ErrorAs(t, err, &vErr)
}

func TestPackageRequestLazyExpiry(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)

	req.CreatedAt = time.Now().Add(-3 * time.Hour)
	require.NoError(t, f.repo.InsertRequest(context.Background(), req))

	got, err := f.service.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestExpired, got.Status)
}

func TestSubmitPackageOffer(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)

	offer := f.seedOffer(t, testAgency2, req, 24000)
	assert.Equal(t, domain.OfferSent, offer.Status)
	assert.Equal(t, testAgency2.ID, offer.OffererID)
}

func TestSubmitPackageOfferNotAgainstOwnRequest(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)

	var vErr domain.ValidationError
	_, err := f.service.SubmitOffer(context.Background(), testAgency, &domain.PackageOffer{
		RequestID:      req.ID,
		TotalPrice:     20000,
		Currency:       "EUR",
		CommissionRate: 8,
	})
	assert.ErrorAs(t, err, &vErr)
}

func TestSubmitPackageOfferBlocksDuplicateLive(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)
	f.seedOffer(t, testAgency2, req, 24000)

	var it domain.InvalidTransition
	_, err := f.service.SubmitOffer(context.Background(), testAgency2, &domain.PackageOffer{
		RequestID:      req.ID,
		TotalPrice:     23000,
		Currency:       "EUR",
		CommissionRate: 8,
	})
	assert.ErrorAs(t, err, &it)
}

func TestRevisePackageOffer(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)
	offer := f.seedOffer(t, testAgency2, req, 24000)

	revised, err := f.service.ReviseOffer(context.Background(), testAgency2, offer.ID, 22500)
	require.NoError(t, err)
	assert.Equal(t, 22500.0, revised.TotalPrice)
	assert.Equal(t, domain.OfferUpdated, revised.Status)
}

func TestAcceptPackageOfferClosesNegotiation(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)
	winner := f.seedOffer(t, testAgency2, req, 24000)
	loser := f.seedOffer(t, testHotel, req, 26000)

	accepted, err := f.service.AcceptOffer(context.Background(), testAgency, req.ID, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferAccepted, accepted.Status)

	storedReq, err := f.repo.GetRequestByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestAccepted, storedReq.Status)

	storedLoser, err := f.repo.GetOfferByID(context.Background(), loser.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferRejected, storedLoser.Status)

	// negotiation is over for everyone
	_, err = f.service.SubmitOffer(context.Background(), testHotel2, &domain.PackageOffer{
		RequestID:      req.ID,
		TotalPrice:     20000,
		Currency:       "EUR",
		CommissionRate: 8,
	})
	assert.ErrorIs(t, err, domain.ErrRequestClosed)
}

func TestAcceptPackageOfferOnlyByRequester(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)
	offer := f.seedOffer(t, testAgency2, req, 24000)

	var it domain.InvalidTransition
	_, err := f.service.AcceptOffer(context.Background(), testAgency2, req.ID, offer.ID)
	assert.ErrorAs(t, err, &it)
}

func TestRejectAndWithdrawPackageOffer(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)
	offer := f.seedOffer(t, testAgency2, req, 24000)

	rejected, err := f.service.RejectOffer(context.Background(), testAgency, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferRejected, rejected.Status)

	second := f.seedOffer(t, testHotel, req, 25000)
	withdrawn, err := f.service.WithdrawOffer(context.Background(), testHotel, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferWithdrawn, withdrawn.Status)

	// terminal states stay terminal
	var it domain.InvalidTransition
	_, err = f.service.RejectOffer(context.Background(), testAgency, second.ID)
	assert.ErrorAs(t, err, &it)
	_, err = f.service.RejectOffer(context.Background(), testAgency, offer.ID)
	assert.ErrorAs(t, err, &it)
}

func TestCancelPackageRequest(t *testing.T) {
	f := newPackageFixture()
	req := f.seedRequest(t, testAgency)

	cancelled, err := f.service.CancelRequest(context.Background(), testAgency, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestCancelled, cancelled.Status)

	_, err = f.service.CancelRequest(context.Background(), testAgency, req.ID)
	assert.ErrorIs(t, err, domain.ErrRequestClosed)
}
