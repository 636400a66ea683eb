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

var packageLiveStatuses = []domain.OfferStatus{domain.OfferSent, domain.OfferUpdated}

type PackageServiceImpl struct {
	repo   repository.PackageRepository
	logger *logrus.Logger
	Tracer trace.Tracer
}

func NewPackageServiceImpl(repo repository.PackageRepository, logger *logrus.Logger, tr trace.Tracer) PackageService {
	return &PackageServiceImpl{repo: repo, logger: logger, Tracer: tr}
}

func (s *PackageServiceImpl) CreateRequest(ctx context.Context, actor domain.Actor, req *domain.PackageRequest) (*domain.PackageRequest, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.CreateRequest")
	defer span.End()

	if actor.Role != domain.RoleAgency {
		return nil, domain.NewValidationError("actor", "only agencies create package requests")
	}

	req.CreatedByRole = actor.Role
	req.CreatedByID = actor.ID
	req.CreatedAt = time.Now()
	req.Status = domain.RequestOpen

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.InsertRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PackageServiceImpl) GetRequest(ctx context.Context, id primitive.ObjectID) (*domain.PackageRequest, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.GetRequest")
	defer span.End()

	return s.loadRequestWithExpiry(ctx, id)
}

func (s *PackageServiceImpl) ListRequests(ctx context.Context, actor domain.Actor) ([]*domain.PackageRequest, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.ListRequests")
	defer span.End()

	return s.repo.ListRequestsByRequester(ctx, actor.ID)
}

func (s *PackageServiceImpl) CancelRequest(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*domain.PackageRequest, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.CancelRequest")
	defer span.End()

	req, err := s.loadRequestWithExpiry(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CreatedByID != actor.ID {
		return nil, domain.InvalidTransition{Entity: "package_request", From: string(req.Status), Action: "cancel", Guard: "only the requester may cancel"}
	}
	if !req.IsOpen() {
		return nil, domain.ErrRequestClosed
	}

	err = s.repo.UpdateRequestStatus(ctx, id, []domain.RequestStatus{domain.RequestOpen}, domain.RequestCancelled)
	if err != nil {
		return nil, s.classifyRequestConflict(ctx, id, err)
	}
	req.Status = domain.RequestCancelled
	return req, nil
}

func (s *PackageServiceImpl) SubmitOffer(ctx context.Context, actor domain.Actor, offer *domain.PackageOffer) (*domain.PackageOffer, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.SubmitOffer")
	defer span.End()

	req, err := s.loadRequestWithExpiry(ctx, offer.RequestID)
	if err != nil {
		return nil, err
	}
	if !req.IsOpen() {
		return nil, domain.ErrRequestClosed
	}
	if req.CreatedByID == actor.ID {
		return nil, domain.NewValidationError("offerer_id", "cannot offer against your own request")
	}

	existing, err := s.repo.FindLiveOfferByRequestAndOfferer(ctx, offer.RequestID, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.InvalidTransition{
			Entity: "package_offer", From: string(existing.Status), Action: "submit",
			Guard: "a live offer from this offerer already exists, revise it instead",
		}
	}

	offer.OffererID = actor.ID
	offer.Status = domain.OfferSent
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = offer.CreatedAt

	if err := offer.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.InsertOffer(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *PackageServiceImpl) ReviseOffer(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID, newPrice float64) (*domain.PackageOffer, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.ReviseOffer")
	defer span.End()

	if newPrice <= 0 {
		return nil, domain.NewValidationError("total_price", "must be positive")
	}

	offer, req, err := s.loadOfferAndRequest(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.OffererID != actor.ID {
		return nil, domain.InvalidTransition{Entity: "package_offer", From: string(offer.Status), Action: "revise", Guard: "only the offerer may revise"}
	}
	if !req.IsOpen() {
		return nil, domain.ErrRequestClosed
	}
	if !offer.IsLive() {
		return nil, domain.InvalidTransition{Entity: "package_offer", From: string(offer.Status), Action: "revise", Guard: "offer must be sent or updated"}
	}

	if err := s.repo.UpdateOfferPrice(ctx, offerID, packageLiveStatuses, newPrice); err != nil {
		return nil, err
	}
	return s.repo.GetOfferByID(ctx, offerID)
}

func (s *PackageServiceImpl) AcceptOffer(ctx context.Context, actor domain.Actor, requestID, offerID primitive.ObjectID) (*domain.PackageOffer, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.AcceptOffer")
	defer span.End()

	req, err := s.loadRequestWithExpiry(ctx, requestID)
	if err != nil {
		return nil, err
	}
	offer, err := s.repo.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.RequestID != req.ID {
		return nil, domain.NewValidationError("offer_id", "offer does not belong to this request")
	}
	if req.CreatedByID != actor.ID {
		return nil, domain.InvalidTransition{Entity: "package_offer", From: string(offer.Status), Action: "accept", Guard: "only the requester may accept"}
	}
	if !req.IsOpen() {
		return nil, domain.ErrRequestClosed
	}
	if !offer.IsLive() {
		return nil, domain.InvalidTransition{Entity: "package_offer", From: string(offer.Status), Action: "accept", Guard: "offer must be sent or updated"}
	}

	err = s.repo.UpdateRequestStatus(ctx, requestID, []domain.RequestStatus{domain.RequestOpen}, domain.RequestAccepted)
	if err != nil {
		return nil, s.classifyRequestConflict(ctx, requestID, err)
	}

	err = s.repo.UpdateOfferStatus(ctx, offerID, packageLiveStatuses, domain.OfferAccepted)
	if err != nil {
		ierr := domain.InconsistentError{Op: "accept package offer", Detail: "request closed but offer not accepted", Err: err}
		s.logger.WithFields(logrus.Fields{
			"path":       "services/package",
			"request_id": requestID.Hex(),
			"offer_id":   offerID.Hex(),
		}).Error("MANUAL RECONCILIATION REQUIRED: ", ierr)
		return nil, ierr
	}

	if _, err := s.repo.RejectSiblingOffers(ctx, requestID, offerID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"path":       "services/package",
			"request_id": requestID.Hex(),
		}).Error("failed to close sibling package offers: ", err)
	}

	offer.Status = domain.OfferAccepted
	return offer, nil
}

func (s *PackageServiceImpl) RejectOffer(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID) (*domain.PackageOffer, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.RejectOffer")
	defer span.End()

	offer, req, err := s.loadOfferAndRequest(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if req.CreatedByID != actor.ID {
		return nil, domain.InvalidTransition{Entity: "package_offer", From: string(offer.Status), Action: "reject", Guard: "only the requester may reject"}
	}
	if !offer.IsLive() {
		return nil, domain.InvalidTransition{Entity: "package_offer", From: string(offer.Status), Action: "reject", Guard: "offer must be sent or updated"}
	}

	if err := s.repo.UpdateOfferStatus(ctx, offerID, packageLiveStatuses, domain.OfferRejected); err != nil {
		return nil, err
	}
	offer.Status = domain.OfferRejected
	return offer, nil
}

func (s *PackageServiceImpl) WithdrawOffer(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID) (*domain.PackageOffer, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.WithdrawOffer")
	defer span.End()

	offer, req, err := s.loadOfferAndRequest(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.OffererID != actor.ID {
		return nil, domain.InvalidTransition{Entity: "package_offer", From: string(offer.Status), Action: "withdraw", Guard: "only the offerer may withdraw"}
	}
	if offer.Status == domain.OfferAccepted {
		return nil, domain.InvalidTransition{Entity: "package_offer", From: string(offer.Status), Action: "withdraw", Guard: "accepted offers cannot be withdrawn"}
	}
	if !req.IsOpen() {
		return nil, domain.ErrRequestClosed
	}

	if err := s.repo.UpdateOfferStatus(ctx, offerID, packageLiveStatuses, domain.OfferWithdrawn); err != nil {
		return nil, err
	}
	offer.Status = domain.OfferWithdrawn
	return offer, nil
}

func (s *PackageServiceImpl) ListOffers(ctx context.Context, requestID primitive.ObjectID) ([]*domain.PackageOffer, error) {
	ctx, span := s.Tracer.Start(ctx, "PackageService.ListOffers")
	defer span.End()

	return s.repo.ListOffersByRequest(ctx, requestID)
}

func (s *PackageServiceImpl) loadRequestWithExpiry(ctx context.Context, id primitive.ObjectID) (*domain.PackageRequest, error) {
	req, err := s.repo.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsOpen() && domain.EvaluateDeadline(req.CreatedAt, req.ResponseDeadlineMinutes, time.Now()).Expired {
		err = s.repo.UpdateRequestStatus(ctx, id, []domain.RequestStatus{domain.RequestOpen}, domain.RequestExpired)
		if err == nil {
			req.Status = domain.RequestExpired
		} else if errors.Is(err, domain.ErrWriteConflict) {
			return s.repo.GetRequestByID(ctx, id)
		} else {
			return nil, err
		}
	}
	return req, nil
}

func (s *PackageServiceImpl) loadOfferAndRequest(ctx context.Context, offerID primitive.ObjectID) (*domain.PackageOffer, *domain.PackageRequest, error) {
	offer, err := s.repo.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	req, err := s.loadRequestWithExpiry(ctx, offer.RequestID)
	if err != nil {
		return nil, nil, err
	}
	return offer, req, nil
}

func (s *PackageServiceImpl) classifyRequestConflict(ctx context.Context, id primitive.ObjectID, cause error) error {
	if !errors.Is(cause, domain.ErrWriteConflict) {
		return cause
	}
	req, err := s.repo.GetRequestByID(ctx, id)
	if err != nil {
		return cause
	}
	if !req.IsOpen() {
		return domain.ErrRequestClosed
	}
	return domain.ErrWriteConflict
}
