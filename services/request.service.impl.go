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

type RequestServiceImpl struct {
	repo   repository.RequestRepository
	logger *logrus.Logger
	Tracer trace.Tracer
}

func NewRequestServiceImpl(repo repository.RequestRepository, logger *logrus.Logger, tr trace.Tracer) RequestService {
	return &RequestServiceImpl{repo: repo, logger: logger, Tracer: tr}
}

func (s *RequestServiceImpl) Create(ctx context.Context, actor domain.Actor, req *domain.Request) (*domain.Request, error) {
	ctx, span := s.Tracer.Start(ctx, "RequestService.Create")
	defer span.End()

	if !actor.IsRequester() {
		return nil, domain.NewValidationError("actor", "only guests and agencies create requests")
	}

	req.CreatedByRole = actor.Role
	req.CreatedByID = actor.ID
	req.CreatedAt = time.Now()
	req.Status = domain.RequestOpen

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Get applies lazy expiry: reading an open request whose response window has
// passed flips it to expired before it is returned. The write is conditional
// on the request still being open, so a concurrent accept or cancel wins and
// the flip is silently skipped.
func (s *RequestServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*domain.Request, error) {
	ctx, span := s.Tracer.Start(ctx, "RequestService.Get")
	defer span.End()

	return loadRequestWithExpiry(ctx, s.repo, s.logger, id)
}

func (s *RequestServiceImpl) Deadline(ctx context.Context, id primitive.ObjectID) (domain.Deadline, error) {
	ctx, span := s.Tracer.Start(ctx, "RequestService.Deadline")
	defer span.End()

	req, err := loadRequestWithExpiry(ctx, s.repo, s.logger, id)
	if err != nil {
		return domain.Deadline{}, err
	}
	return domain.EvaluateDeadline(req.CreatedAt, req.ResponseDeadlineMinutes, time.Now()), nil
}

func (s *RequestServiceImpl) ListByRequester(ctx context.Context, actor domain.Actor) ([]*domain.Request, error) {
	ctx, span := s.Tracer.Start(ctx, "RequestService.ListByRequester")
	defer span.End()

	return s.repo.ListByRequester(ctx, actor.ID)
}

func (s *RequestServiceImpl) Cancel(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*domain.Request, error) {
	ctx, span := s.Tracer.Start(ctx, "RequestService.Cancel")
	defer span.End()

	req, err := loadRequestWithExpiry(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanCancelRequest(actor, req); err != nil {
		return nil, err
	}

	err = s.repo.UpdateStatus(ctx, id, []domain.RequestStatus{domain.RequestOpen}, domain.RequestCancelled)
	if err != nil {
		return nil, classifyRequestConflict(ctx, s.repo, id, err)
	}

	req.Status = domain.RequestCancelled
	return req, nil
}

// loadRequestWithExpiry is the one read path for requests, shared by every
// service that needs one, so expiry is decided in exactly one place.
func loadRequestWithExpiry(ctx context.Context, repo repository.RequestRepository, logger *logrus.Logger, id primitive.ObjectID) (*domain.Request, error) {
	req, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.ShouldExpireRequest(req, time.Now()) {
		err = repo.UpdateStatus(ctx, id, []domain.RequestStatus{domain.RequestOpen}, domain.RequestExpired)
		if err == nil {
			req.Status = domain.RequestExpired
		} else if errors.Is(err, domain.ErrWriteConflict) {
			// Someone closed it first; re-read for the real terminal state.
			return repo.GetByID(ctx, id)
		} else {
			logger.WithFields(logrus.Fields{"path": "services/request", "request_id": id.Hex()}).
				Error("lazy expiry write failed: ", err)
			return nil, err
		}
	}
	return req, nil
}

// classifyRequestConflict turns a failed conditional write into the domain
// error the caller can act on: the request already left open, or a true
// concurrent race.
func classifyRequestConflict(ctx context.Context, repo repository.RequestRepository, id primitive.ObjectID, cause error) error {
	if !errors.Is(cause, domain.ErrWriteConflict) {
		return cause
	}
	req, err := repo.GetByID(ctx, id)
	if err != nil {
		return cause
	}
	if !req.IsOpen() {
		return domain.ErrRequestClosed
	}
	return domain.ErrWriteConflict
}
