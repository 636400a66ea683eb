package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/domain"
	"marketplace-service/payments"
	"marketplace-service/repository"
)

var (
	testGuest  = domain.Actor{ID: "guest-1", Role: domain.RoleGuest}
	testAgency = domain.Actor{ID: "agency-1", Role: domain.RoleAgency}
	testHotel  = domain.Actor{ID: "hotel-1", Role: domain.RoleHotel}
	testHotel2 = domain.Actor{ID: "hotel-2", Role: domain.RoleHotel}
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

// fakeGateway satisfies payments.Gateway without a network hop. onCharge,
// when set, runs after a successful charge so tests can interleave a rival
// write while the gateway call is in flight.
type fakeGateway struct {
	mu       sync.Mutex
	decline  bool
	charges  []payments.ChargeRequest
	onCharge func()
}

func (g *fakeGateway) Charge(_ context.Context, req payments.ChargeRequest) error {
	g.mu.Lock()
	if g.decline {
		g.mu.Unlock()
		return domain.ErrPaymentDeclined
	}
	g.charges = append(g.charges, req)
	hook := g.onCharge
	g.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

type fixture struct {
	requests *repository.MemoryRequestRepo
	offers   *repository.MemoryOfferRepo
	bookings *repository.MemoryBookingRepo
	disputes *repository.MemoryDisputeRepo
	gateway  *fakeGateway
	logger   *logrus.Logger

	requestService RequestService
	offerService   OfferService
	bookingService BookingService
	disputeService DisputeService
}

func newFixture() *fixture {
	f := &fixture{
		requests: repository.NewMemoryRequestRepo(),
		offers:   repository.NewMemoryOfferRepo(),
		bookings: repository.NewMemoryBookingRepo(),
		disputes: repository.NewMemoryDisputeRepo(),
		gateway:  &fakeGateway{},
		logger:   testLogger(),
	}
	logger := f.logger
	tracer := testTracer()
	f.requestService = NewRequestServiceImpl(f.requests, logger, tracer)
	f.offerService = NewOfferServiceImpl(f.offers, f.requests, logger, tracer)
	f.bookingService = NewBookingServiceImpl(f.bookings, f.offers, f.requests, f.gateway, logger, tracer)
	f.disputeService = NewDisputeServiceImpl(f.disputes, f.bookings, logger, tracer)
	return f
}

func (f *fixture) seedOpenRequest(t *testing.T, actor domain.Actor, discountRate float64) *domain.Request {
	t.Helper()
	req := &domain.Request{
		City:                    "Belgrade",
		CheckIn:                 time.Now().Add(30 * 24 * time.Hour),
		CheckOut:                time.Now().Add(35 * 24 * time.Hour),
		Adults:                  2,
		RoomsCount:              1,
		AgencyDiscountRate:      discountRate,
		ResponseDeadlineMinutes: 60,
	}
	created, err := f.requestService.Create(context.Background(), actor, req)
	require.NoError(t, err)
	return created
}

func (f *fixture) seedSentOffer(t *testing.T, hotel domain.Actor, req *domain.Request, mode domain.OfferMode, price float64) *domain.Offer {
	t.Helper()
	offer := &domain.Offer{
		RequestID:      req.ID,
		TotalPrice:     price,
		Currency:       "EUR",
		CommissionRate: 10,
		Mode:           mode,
	}
	created, err := f.offerService.Submit(context.Background(), hotel, offer)
	require.NoError(t, err)
	return created
}
