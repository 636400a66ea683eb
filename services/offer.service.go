package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-service/domain"
)

type OfferService interface {
	Submit(ctx context.Context, actor domain.Actor, offer *domain.Offer) (*domain.Offer, error)
	Revise(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID, newPrice float64) (*domain.Offer, error)
	Counter(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID, counterPrice float64) (*domain.Offer, error)
	Reject(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID) (*domain.Offer, error)
	Withdraw(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID) (*domain.Offer, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Offer, error)
	ListByRequest(ctx context.Context, requestID primitive.ObjectID) ([]*domain.Offer, error)
	ListByOfferer(ctx context.Context, actor domain.Actor) ([]*domain.Offer, error)
}
