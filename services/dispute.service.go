package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-service/domain"
)

type DisputeService interface {
	// Open files a commission dispute for one booking and one accounting
	// period. Only the hotel charged for the booking may file, only while
	// that period's window is open, and only once per (booking, period).
	Open(ctx context.Context, actor domain.Actor, bookingID primitive.ObjectID, period domain.Period, reason string) (*domain.CommissionDispute, error)
	Resolve(ctx context.Context, id primitive.ObjectID) (*domain.CommissionDispute, error)
	ListByHotel(ctx context.Context, actor domain.Actor) ([]*domain.CommissionDispute, error)
}
