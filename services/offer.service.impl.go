package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/domain"
	"marketplace-service/repository"
)

type OfferServiceImpl struct {
	offers   repository.OfferRepository
	requests repository.RequestRepository
	logger   *logrus.Logger
	Tracer   trace.Tracer
}

func NewOfferServiceImpl(offers repository.OfferRepository, requests repository.RequestRepository, logger *logrus.Logger, tr trace.Tracer) OfferService {
	return &OfferServiceImpl{offers: offers, requests: requests, logger: logger, Tracer: tr}
}

func (s *OfferServiceImpl) Submit(ctx context.Context, actor domain.Actor, offer *domain.Offer) (*domain.Offer, error) {
	ctx, span := s.Tracer.Start(ctx, "OfferService.Submit")
	defer span.End()

	req, err := loadRequestWithExpiry(ctx, s.requests, s.logger, offer.RequestID)
	if err != nil {
		return nil, err
	}

	existing, err := s.offers.FindLiveByRequestAndOfferer(ctx, offer.RequestID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSubmitOffer(actor, req, existing); err != nil {
		return nil, err
	}

	offer.OffererID = actor.ID
	offer.Status = domain.OfferSent
	offer.GuestCounterPrice = nil
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = offer.CreatedAt

	if err := offer.Validate(); err != nil {
		return nil, err
	}
	if err := s.offers.Insert(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *OfferServiceImpl) Revise(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID, newPrice float64) (*domain.Offer, error) {
	ctx, span := s.Tracer.Start(ctx, "OfferService.Revise")
	defer span.End()

	if newPrice <= 0 {
		return nil, domain.NewValidationError("total_price", "must be positive")
	}

	offer, req, err := s.loadOfferAndRequest(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReviseOffer(actor, req, offer); err != nil {
		return nil, err
	}

	err = s.offers.UpdatePrice(ctx, offerID, domain.LiveOfferStatuses, newPrice, domain.OfferUpdated)
	if err != nil {
		return nil, s.classifyOfferConflict(ctx, offerID, err)
	}

	return s.offers.GetByID(ctx, offerID)
}

func (s *OfferServiceImpl) Counter(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID, counterPrice float64) (*domain.Offer, error) {
	ctx, span := s.Tracer.Start(ctx, "OfferService.Counter")
	defer span.End()

	if counterPrice <= 0 {
		return nil, domain.NewValidationError("counter_price", "must be positive")
	}

	offer, req, err := s.loadOfferAndRequest(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanCounterOffer(actor, req, offer); err != nil {
		return nil, err
	}

	// The store enforces the once-only rule again inside the write, so two
	// near-simultaneous counters cannot both land.
	err = s.offers.SetCounterPrice(ctx, offerID, counterPrice)
	if err != nil {
		if errors.Is(err, domain.ErrWriteConflict) {
			current, rerr := s.offers.GetByID(ctx, offerID)
			if rerr == nil && current.GuestCounterPrice != nil {
				return nil, domain.ErrCounterAlreadySet
			}
		}
		return nil, s.classifyOfferConflict(ctx, offerID, err)
	}

	return s.offers.GetByID(ctx, offerID)
}

func (s *OfferServiceImpl) Reject(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID) (*domain.Offer, error) {
	ctx, span := s.Tracer.Start(ctx, "OfferService.Reject")
	defer span.End()

	offer, req, err := s.loadOfferAndRequest(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanRejectOffer(actor, req, offer); err != nil {
		return nil, err
	}

	err = s.offers.UpdateStatus(ctx, offerID, domain.LiveOfferStatuses, domain.OfferRejected)
	if err != nil {
		return nil, s.classifyOfferConflict(ctx, offerID, err)
	}

	offer.Status = domain.OfferRejected
	return offer, nil
}

func (s *OfferServiceImpl) Withdraw(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID) (*domain.Offer, error) {
	ctx, span := s.Tracer.Start(ctx, "OfferService.Withdraw")
	defer span.End()

	offer, req, err := s.loadOfferAndRequest(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanWithdrawOffer(actor, req, offer); err != nil {
		return nil, err
	}

	err = s.offers.UpdateStatus(ctx, offerID, domain.LiveOfferStatuses, domain.OfferWithdrawn)
	if err != nil {
		return nil, s.classifyOfferConflict(ctx, offerID, err)
	}

	offer.Status = domain.OfferWithdrawn
	return offer, nil
}

func (s *OfferServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*domain.Offer, error) {
	ctx, span := s.Tracer.Start(ctx, "OfferService.Get")
	defer span.End()

	return s.offers.GetByID(ctx, id)
}

func (s *OfferServiceImpl) ListByRequest(ctx context.Context, requestID primitive.ObjectID) ([]*domain.Offer, error) {
	ctx, span := s.Tracer.Start(ctx, "OfferService.ListByRequest")
	defer span.End()

	return s.offers.ListByRequest(ctx, requestID)
}

func (s *OfferServiceImpl) ListByOfferer(ctx context.Context, actor domain.Actor) ([]*domain.Offer, error) {
	ctx, span := s.Tracer.Start(ctx, "OfferService.ListByOfferer")
	defer span.End()

	return s.offers.ListByOfferer(ctx, actor.ID)
}

func (s *OfferServiceImpl) loadOfferAndRequest(ctx context.Context, offerID primitive.ObjectID) (*domain.Offer, *domain.Request, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	req, err := loadRequestWithExpiry(ctx, s.requests, s.logger, offer.RequestID)
	if err != nil {
		return nil, nil, err
	}
	return offer, req, nil
}

// classifyOfferConflict re-reads after a failed conditional write: if the
// request meanwhile closed the caller gets ErrRequestClosed, otherwise the
// conflict stands and the caller should re-fetch and retry.
func (s *OfferServiceImpl) classifyOfferConflict(ctx context.Context, offerID primitive.ObjectID, cause error) error {
	if !errors.Is(cause, domain.ErrWriteConflict) {
		return cause
	}
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return cause
	}
	req, err := s.requests.GetByID(ctx, offer.RequestID)
	if err == nil && !req.IsOpen() {
		return domain.ErrRequestClosed
	}
	return domain.ErrWriteConflict
}
