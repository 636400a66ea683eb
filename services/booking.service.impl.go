package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/domain"
	"marketplace-service/payments"
	"marketplace-service/repository"
)

type BookingServiceImpl struct {
	bookings repository.BookingRepository
	offers   repository.OfferRepository
	requests repository.RequestRepository
	gateway  payments.Gateway
	logger   *logrus.Logger
	Tracer   trace.Tracer
}

func NewBookingServiceImpl(
	bookings repository.BookingRepository,
	offers repository.OfferRepository,
	requests repository.RequestRepository,
	gateway payments.Gateway,
	logger *logrus.Logger,
	tr trace.Tracer,
) BookingService {
	return &BookingServiceImpl{
		bookings: bookings,
		offers:   offers,
		requests: requests,
		gateway:  gateway,
		logger:   logger,
		Tracer:   tr,
	}
}

func (s *BookingServiceImpl) Accept(ctx context.Context, actor domain.Actor, input AcceptOfferInput) (*domain.Booking, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.Accept")
	defer span.End()

	req, err := loadRequestWithExpiry(ctx, s.requests, s.logger, input.RequestID)
	if err != nil {
		return nil, err
	}
	offer, err := s.offers.GetByID(ctx, input.OfferID)
	if err != nil {
		return nil, err
	}
	if offer.RequestID != req.ID {
		return nil, domain.NewValidationError("offer_id", "offer does not belong to this request")
	}
	if err := domain.CanAcceptOffer(actor, req, offer); err != nil {
		return nil, err
	}
	if input.PaymentMethod != domain.PaymentCard3D && input.PaymentMethod != domain.PaymentPayAtHotel {
		return nil, domain.NewValidationError("payment_method", "must be card3d or payAtHotel")
	}
	if err := input.CancellationPolicy.Validate(); err != nil {
		return nil, err
	}

	// Snapshot everything before any write. The price here is resolved by the
	// same function the offer-review display uses, so the number the
	// requester saw is the number persisted.
	totalPrice := domain.ResolveRequesterPrice(offer.TotalPrice, req.DiscountRate())

	booking := &domain.Booking{
		RequestID:          req.ID,
		OfferID:            offer.ID,
		GuestID:            req.CreatedByID,
		HotelID:            offer.OffererID,
		TotalPrice:         totalPrice,
		OriginalOfferPrice: offer.TotalPrice,
		AgencyDiscountRate: req.DiscountRate(),
		CommissionRate:     offer.CommissionRate,
		Currency:           offer.Currency,
		CheckIn:            req.CheckIn,
		CheckOut:           req.CheckOut,
		RoomsCount:         req.RoomsCount,
		PaymentMethod:      input.PaymentMethod,
		PaymentStatus:      domain.PaymentStatusPayAtHotel,

		CancellationPolicyType: input.CancellationPolicy.Type,
		CancellationPolicyDays: input.CancellationPolicy.Days,

		Status:    domain.BookingActive,
		CreatedAt: time.Now(),
	}

	var chargeRef string
	if input.PaymentMethod == domain.PaymentCard3D {
		charge := payments.ChargeRequest{
			BookingRef: uuid.NewString(),
			GuestID:    req.CreatedByID,
			Amount:     totalPrice,
			Currency:   offer.Currency,
		}
		if err := s.gateway.Charge(ctx, charge); err != nil {
			return nil, err
		}
		booking.PaymentStatus = domain.PaymentStatusPaid
		chargeRef = charge.BookingRef
	}

	// Closing the request is the serialization point: of two racing accepts,
	// exactly one flips open -> accepted, the other sees a conflict. Once the
	// card is charged, every failure from here on must leave a reconcilable
	// trail: the charge reference is the only handle support has to refund.
	err = s.requests.UpdateStatus(ctx, req.ID, []domain.RequestStatus{domain.RequestOpen}, domain.RequestAccepted)
	if err != nil {
		s.logOrphanedCharge(chargeRef, totalPrice, offer.Currency, req.ID, offer.ID, err)
		return nil, classifyRequestConflict(ctx, s.requests, req.ID, err)
	}

	err = s.offers.UpdateStatus(ctx, offer.ID, domain.LiveOfferStatuses, domain.OfferAccepted)
	if err != nil {
		s.logOrphanedCharge(chargeRef, totalPrice, offer.Currency, req.ID, offer.ID, err)
		return nil, s.inconsistent("accept offer", "request closed but offer not accepted",
			req.ID, offer.ID, err)
	}

	if err := s.bookings.Insert(ctx, booking); err != nil {
		s.logOrphanedCharge(chargeRef, totalPrice, offer.Currency, req.ID, offer.ID, err)
		return nil, s.inconsistent("write booking", "request and offer accepted but booking missing",
			req.ID, offer.ID, err)
	}

	// Sibling offers may also legitimately be left stale; a failure here does
	// not invalidate the booking, but it is worth a loud log line.
	if _, err := s.offers.RejectSiblings(ctx, req.ID, offer.ID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"path":       "services/booking",
			"request_id": req.ID.Hex(),
			"offer_id":   offer.ID.Hex(),
		}).Error("failed to close sibling offers: ", err)
	}

	return booking, nil
}

func (s *BookingServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*BookingView, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.Get")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(booking, time.Now()), nil
}

func (s *BookingServiceImpl) ListByGuest(ctx context.Context, actor domain.Actor) ([]*BookingView, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.ListByGuest")
	defer span.End()

	bookings, err := s.bookings.ListByGuest(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return viewsOf(bookings), nil
}

func (s *BookingServiceImpl) ListByHotel(ctx context.Context, hotelID string) ([]*BookingView, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.ListByHotel")
	defer span.End()

	bookings, err := s.bookings.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	return viewsOf(bookings), nil
}

func (s *BookingServiceImpl) Cancel(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*BookingView, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.Cancel")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != actor.ID {
		return nil, domain.InvalidTransition{
			Entity: "booking", From: string(booking.Status), Action: "cancel",
			Guard: "only the booking's requester may cancel",
		}
	}

	now := time.Now()
	if !domain.CanCancelNow(booking, now) {
		return nil, domain.InvalidTransition{
			Entity: "booking", From: string(booking.DerivedStatus(now)), Action: "cancel",
			Guard: "cancellation policy window has closed",
		}
	}

	err = s.bookings.UpdateStatus(ctx, id, []domain.BookingStatus{domain.BookingActive}, domain.BookingCancelled)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingCancelled
	return viewOf(booking, now), nil
}

// MonthlyCommissionReport recomputes, never replays, commission amounts: the
// price and rate are the booking's frozen snapshot, the status is whatever
// it is today, so a stay cancelled after materialization contributes zero.
func (s *BookingServiceImpl) MonthlyCommissionReport(ctx context.Context, actor domain.Actor, period domain.Period) (*CommissionReport, error) {
	ctx, span := s.Tracer.Start(ctx, "BookingService.MonthlyCommissionReport")
	defer span.End()

	if err := period.Validate(); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByHotel(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &CommissionReport{
		ReportID:    uuid.NewString(),
		HotelID:     actor.ID,
		Period:      period,
		GeneratedAt: now,
	}
	for _, b := range bookings {
		if domain.PeriodOf(b.CheckOut) != period {
			continue
		}
		status := b.DerivedStatus(now)
		line := CommissionReportLine{
			BookingID:  b.ID.Hex(),
			TotalPrice: b.TotalPrice,
			Rate:       b.CommissionRate,
			Status:     status,
			Commission: domain.ResolveCommission(b.TotalPrice, b.CommissionRate, status),
		}
		report.Lines = append(report.Lines, line)
		report.TotalCommission += line.Commission
	}
	return report, nil
}

// logOrphanedCharge records a charge that went through for an accept that did
// not. No-op when nothing was charged.
func (s *BookingServiceImpl) logOrphanedCharge(chargeRef string, amount float64, currency string, requestID, offerID primitive.ObjectID, cause error) {
	if chargeRef == "" {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"path":       "services/booking",
		"request_id": requestID.Hex(),
		"offer_id":   offerID.Hex(),
		"charge_ref": chargeRef,
		"amount":     amount,
		"currency":   currency,
	}).Error("MANUAL RECONCILIATION REQUIRED: card charged but accept failed, refund the charge: ", cause)
}

func (s *BookingServiceImpl) inconsistent(op, detail string, requestID, offerID primitive.ObjectID, cause error) error {
	err := domain.InconsistentError{Op: op, Detail: detail, Err: cause}
	s.logger.WithFields(logrus.Fields{
		"path":       "services/booking",
		"request_id": requestID.Hex(),
		"offer_id":   offerID.Hex(),
	}).Error("MANUAL RECONCILIATION REQUIRED: ", err)
	return err
}

func viewOf(b *domain.Booking, now time.Time) *BookingView {
	status := b.DerivedStatus(now)
	return &BookingView{
		Booking:       b,
		DerivedStatus: status,
		Commission:    domain.ResolveCommission(b.TotalPrice, b.CommissionRate, status),
	}
}

func viewsOf(bookings []*domain.Booking) []*BookingView {
	now := time.Now()
	views := make([]*BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, viewOf(b, now))
	}
	return views
}
