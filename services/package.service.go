package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-service/domain"
)

// PackageService runs the simpler package negotiation: same request
// lifecycle, offers without modes or counter prices. Accepting a package
// offer closes the request and its sibling offers the same way hotel offers
// close, it just never produces a booking document.
type PackageService interface {
	CreateRequest(ctx context.Context, actor domain.Actor, req *domain.PackageRequest) (*domain.PackageRequest, error)
	GetRequest(ctx context.Context, id primitive.ObjectID) (*domain.PackageRequest, error)
	ListRequests(ctx context.Context, actor domain.Actor) ([]*domain.PackageRequest, error)
	CancelRequest(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*domain.PackageRequest, error)

	SubmitOffer(ctx context.Context, actor domain.Actor, offer *domain.PackageOffer) (*domain.PackageOffer, error)
	ReviseOffer(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID, newPrice float64) (*domain.PackageOffer, error)
	AcceptOffer(ctx context.Context, actor domain.Actor, requestID, offerID primitive.ObjectID) (*domain.PackageOffer, error)
	RejectOffer(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID) (*domain.PackageOffer, error)
	WithdrawOffer(ctx context.Context, actor domain.Actor, offerID primitive.ObjectID) (*domain.PackageOffer, error)
	ListOffers(ctx context.Context, requestID primitive.ObjectID) ([]*domain.PackageOffer, error)
}
