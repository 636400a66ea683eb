package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-service/domain"
)

// The negotiation engine talks to the document store through these
// interfaces. Status-changing writes take the set of states the document
// must currently be in; when the precondition no longer holds the write is
// rejected with domain.ErrWriteConflict so concurrent transitions are
// serialized by the store, not by application locks.

type RequestRepository interface {
	Insert(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*domain.Request, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.RequestStatus, to domain.RequestStatus) error
}

type OfferRepository interface {
	Insert(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Offer, error)
	// FindLiveByRequestAndOfferer returns nil, nil when the offerer has no
	// live offer on the request.
	FindLiveByRequestAndOfferer(ctx context.Context, requestID primitive.ObjectID, offererID string) (*domain.Offer, error)
	ListByRequest(ctx context.Context, requestID primitive.ObjectID) ([]*domain.Offer, error)
	ListByOfferer(ctx context.Context, offererID string) ([]*domain.Offer, error)
	// UpdatePrice revises the quoted price, guarded by the current status.
	UpdatePrice(ctx context.Context, id primitive.ObjectID, from []domain.OfferStatus, price float64, to domain.OfferStatus) error
	// SetCounterPrice writes the one-and-only guest counter price. The
	// precondition covers mode, status and the counter still being unset, so
	// two racing counters cannot both land.
	SetCounterPrice(ctx context.Context, id primitive.ObjectID, price float64) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.OfferStatus, to domain.OfferStatus) error
	// RejectSiblings closes every still-live offer on the request except the
	// accepted one. Returns how many were closed.
	RejectSiblings(ctx context.Context, requestID, acceptedOfferID primitive.ObjectID) (int64, error)
}

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]*domain.Booking, error)
	ListByHotel(ctx context.Context, hotelID string) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.BookingStatus, to domain.BookingStatus) error
}

type DisputeRepository interface {
	Insert(ctx context.Context, dispute *domain.CommissionDispute) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CommissionDispute, error)
	ExistsForPeriod(ctx context.Context, bookingID primitive.ObjectID, period domain.Period) (bool, error)
	ListByHotel(ctx context.Context, hotelID string) ([]*domain.CommissionDispute, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.DisputeStatus, to domain.DisputeStatus) error
}

type PackageRepository interface {
	InsertRequest(ctx context.Context, req *domain.PackageRequest) error
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*domain.PackageRequest, error)
	ListRequestsByRequester(ctx context.Context, requesterID string) ([]*domain.PackageRequest, error)
	UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, from []domain.RequestStatus, to domain.RequestStatus) error

	InsertOffer(ctx context.Context, offer *domain.PackageOffer) error
	GetOfferByID(ctx context.Context, id primitive.ObjectID) (*domain.PackageOffer, error)
	FindLiveOfferByRequestAndOfferer(ctx context.Context, requestID primitive.ObjectID, offererID string) (*domain.PackageOffer, error)
	ListOffersByRequest(ctx context.Context, requestID primitive.ObjectID) ([]*domain.PackageOffer, error)
	UpdateOfferPrice(ctx context.Context, id primitive.ObjectID, from []domain.OfferStatus, price float64) error
	UpdateOfferStatus(ctx context.Context, id primitive.ObjectID, from []domain.OfferStatus, to domain.OfferStatus) error
	RejectSiblingOffers(ctx context.Context, requestID, acceptedOfferID primitive.ObjectID) (int64, error)
}
