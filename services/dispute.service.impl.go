package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/domain"
	"marketplace-service/repository"
)

type DisputeServiceImpl struct {
	disputes repository.DisputeRepository
	bookings repository.BookingRepository
	logger   *logrus.Logger
	Tracer   trace.Tracer
}

func NewDisputeServiceImpl(disputes repository.DisputeRepository, bookings repository.BookingRepository, logger *logrus.Logger, tr trace.Tracer) DisputeService {
	return &DisputeServiceImpl{disputes: disputes, bookings: bookings, logger: logger, Tracer: tr}
}

func (s *DisputeServiceImpl) Open(ctx context.Context, actor domain.Actor, bookingID primitive.ObjectID, period domain.Period, reason string) (*domain.CommissionDispute, error) {
	ctx, span := s.Tracer.Start(ctx, "DisputeService.Open")
	defer span.End()

	if err := period.Validate(); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, domain.NewValidationError("reason", "required")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.HotelID != actor.ID {
		return nil, domain.NewValidationError("booking_id", "booking does not belong to this hotel")
	}

	if !domain.IsDisputeWindowOpen(period, time.Now()) {
		return nil, domain.ErrDisputeWindowClosed
	}

	exists, err := s.disputes.ExistsForPeriod(ctx, bookingID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDisputeExists
	}

	dispute := &domain.CommissionDispute{
		BookingID: bookingID,
		HotelID:   actor.ID,
		Period:    period,
		Reason:    reason,
		Status:    domain.DisputeOpen,
		CreatedAt: time.Now(),
	}
	if err := s.disputes.Insert(ctx, dispute); err != nil {
		return nil, err
	}
	return dispute, nil
}

func (s *DisputeServiceImpl) Resolve(ctx context.Context, id primitive.ObjectID) (*domain.CommissionDispute, error) {
	ctx, span := s.Tracer.Start(ctx, "DisputeService.Resolve")
	defer span.End()

	err := s.disputes.UpdateStatus(ctx, id, []domain.DisputeStatus{domain.DisputeOpen}, domain.DisputeResolved)
	if err != nil {
		return nil, err
	}
	return s.disputes.GetByID(ctx, id)
}

func (s *DisputeServiceImpl) ListByHotel(ctx context.Context, actor domain.Actor) ([]*domain.CommissionDispute, error) {
	ctx, span := s.Tracer.Start(ctx, "DisputeService.ListByHotel")
	defer span.End()

	return s.disputes.ListByHotel(ctx, actor.ID)
}
