package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-service/domain"
)

// In-memory implementations backing the service tests. They honor the same
// check-and-set contract as the Mongo repos: status preconditions are
// evaluated under the store lock, so racing transitions lose with
// domain.ErrWriteConflict exactly as they would against the real store.

type MemoryRequestRepo struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*domain.Request
}

func NewMemoryRequestRepo() *MemoryRequestRepo {
	return &MemoryRequestRepo{requests: make(map[primitive.ObjectID]*domain.Request)}
}

func (r *MemoryRequestRepo) Insert(_ context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *MemoryRequestRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound()
	}
	clone := *req
	return &clone, nil
}

func (r *MemoryRequestRepo) ListByRequester(_ context.Context, requesterID string) ([]*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Request
	for _, req := range r.requests {
		if req.CreatedByID == requesterID {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryRequestRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from []domain.RequestStatus, to domain.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return domain.ErrWriteConflict
	}
	for _, s := range from {
		if req.Status == s {
			req.Status = to
			req.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrWriteConflict
}

type MemoryOfferRepo struct {
	mu     sync.Mutex
	offers map[primitive.ObjectID]*domain.Offer
}

func NewMemoryOfferRepo() *MemoryOfferRepo {
	return &MemoryOfferRepo{offers: make(map[primitive.ObjectID]*domain.Offer)}
}

func (r *MemoryOfferRepo) Insert(_ context.Context, offer *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offer.ID.IsZero() {
		offer.ID = primitive.NewObjectID()
	}
	clone := *offer
	r.offers[offer.ID] = &clone
	return nil
}

func (r *MemoryOfferRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, domain.ErrOfferNotFound()
	}
	clone := *offer
	return &clone, nil
}

func (r *MemoryOfferRepo) FindLiveByRequestAndOfferer(_ context.Context, requestID primitive.ObjectID, offererID string) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, offer := range r.offers {
		if offer.RequestID == requestID && offer.OffererID == offererID && offer.IsLive() {
			clone := *offer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *MemoryOfferRepo) ListByRequest(_ context.Context, requestID primitive.ObjectID) ([]*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Offer
	for _, offer := range r.offers {
		if offer.RequestID == requestID {
			clone := *offer
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryOfferRepo) ListByOfferer(_ context.Context, offererID string) ([]*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Offer
	for _, offer := range r.offers {
		if offer.OffererID == offererID {
			clone := *offer
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryOfferRepo) UpdatePrice(_ context.Context, id primitive.ObjectID, from []domain.OfferStatus, price float64, to domain.OfferStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok || !statusIn(offer.Status, from) {
		return domain.ErrWriteConflict
	}
	offer.TotalPrice = price
	offer.Status = to
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryOfferRepo) SetCounterPrice(_ context.Context, id primitive.ObjectID, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return domain.ErrWriteConflict
	}
	if offer.Mode != domain.OfferModeNegotiable || offer.GuestCounterPrice != nil {
		return domain.ErrWriteConflict
	}
	if offer.Status != domain.OfferSent && offer.Status != domain.OfferCountered {
		return domain.ErrWriteConflict
	}
	p := price
	offer.GuestCounterPrice = &p
	offer.Status = domain.OfferCountered
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryOfferRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from []domain.OfferStatus, to domain.OfferStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok || !statusIn(offer.Status, from) {
		return domain.ErrWriteConflict
	}
	offer.Status = to
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryOfferRepo) RejectSiblings(_ context.Context, requestID, acceptedOfferID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, offer := range r.offers {
		if offer.RequestID == requestID && offer.ID != acceptedOfferID && offer.IsLive() {
			offer.Status = domain.OfferRejected
			offer.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func statusIn(s domain.OfferStatus, set []domain.OfferStatus) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*domain.Booking
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[primitive.ObjectID]*domain.Booking)}
}

func (r *MemoryBookingRepo) Insert(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound()
	}
	clone := *booking
	return &clone, nil
}

func (r *MemoryBookingRepo) ListByGuest(_ context.Context, guestID string) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.GuestID == guestID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryBookingRepo) ListByHotel(_ context.Context, hotelID string) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.HotelID == hotelID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryBookingRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from []domain.BookingStatus, to domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return domain.ErrWriteConflict
	}
	for _, s := range from {
		if booking.Status == s {
			booking.Status = to
			booking.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrWriteConflict
}

type MemoryDisputeRepo struct {
	mu       sync.Mutex
	disputes map[primitive.ObjectID]*domain.CommissionDispute
}

func NewMemoryDisputeRepo() *MemoryDisputeRepo {
	return &MemoryDisputeRepo{disputes: make(map[primitive.ObjectID]*domain.CommissionDispute)}
}

func (r *MemoryDisputeRepo) Insert(_ context.Context, dispute *domain.CommissionDispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dispute.ID.IsZero() {
		dispute.ID = primitive.NewObjectID()
	}
	clone := *dispute
	r.disputes[dispute.ID] = &clone
	return nil
}

func (r *MemoryDisputeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CommissionDispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[id]
	if !ok {
		return nil, domain.ErrDisputeNotFound()
	}
	clone := *dispute
	return &clone, nil
}

func (r *MemoryDisputeRepo) ExistsForPeriod(_ context.Context, bookingID primitive.ObjectID, period domain.Period) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.disputes {
		if d.BookingID == bookingID && d.Period == period {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryDisputeRepo) ListByHotel(_ context.Context, hotelID string) ([]*domain.CommissionDispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.CommissionDispute
	for _, d := range r.disputes {
		if d.HotelID == hotelID {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryDisputeRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from []domain.DisputeStatus, to domain.DisputeStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[id]
	if !ok {
		return domain.ErrWriteConflict
	}
	for _, s := range from {
		if dispute.Status == s {
			dispute.Status = to
			return nil
		}
	}
	return domain.ErrWriteConflict
}

type MemoryPackageRepo struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*domain.PackageRequest
	offers   map[primitive.ObjectID]*domain.PackageOffer
}

func NewMemoryPackageRepo() *MemoryPackageRepo {
	return &MemoryPackageRepo{
		requests: make(map[primitive.ObjectID]*domain.PackageRequest),
		offers:   make(map[primitive.ObjectID]*domain.PackageOffer),
	}
}

func (r *MemoryPackageRepo) InsertRequest(_ context.Context, req *domain.PackageRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *MemoryPackageRepo) GetRequestByID(_ context.Context, id primitive.ObjectID) (*domain.PackageRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound()
	}
	clone := *req
	return &clone, nil
}

func (r *MemoryPackageRepo) ListRequestsByRequester(_ context.Context, requesterID string) ([]*domain.PackageRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PackageRequest
	for _, req := range r.requests {
		if req.CreatedByID == requesterID {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryPackageRepo) UpdateRequestStatus(_ context.Context, id primitive.ObjectID, from []domain.RequestStatus, to domain.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return domain.ErrWriteConflict
	}
	for _, s := range from {
		if req.Status == s {
			req.Status = to
			req.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrWriteConflict
}

func (r *MemoryPackageRepo) InsertOffer(_ context.Context, offer *domain.PackageOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offer.ID.IsZero() {
		offer.ID = primitive.NewObjectID()
	}
	clone := *offer
	r.offers[offer.ID] = &clone
	return nil
}

func (r *MemoryPackageRepo) GetOfferByID(_ context.Context, id primitive.ObjectID) (*domain.PackageOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, domain.ErrOfferNotFound()
	}
	clone := *offer
	return &clone, nil
}

func (r *MemoryPackageRepo) FindLiveOfferByRequestAndOfferer(_ context.Context, requestID primitive.ObjectID, offererID string) (*domain.PackageOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, offer := range r.offers {
		if offer.RequestID == requestID && offer.OffererID == offererID && offer.IsLive() {
			clone := *offer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *MemoryPackageRepo) ListOffersByRequest(_ context.Context, requestID primitive.ObjectID) ([]*domain.PackageOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PackageOffer
	for _, offer := range r.offers {
		if offer.RequestID == requestID {
			clone := *offer
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *MemoryPackageRepo) UpdateOfferPrice(_ context.Context, id primitive.ObjectID, from []domain.OfferStatus, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok || !statusIn(offer.Status, from) {
		return domain.ErrWriteConflict
	}
	offer.TotalPrice = price
	offer.Status = domain.OfferUpdated
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryPackageRepo) UpdateOfferStatus(_ context.Context, id primitive.ObjectID, from []domain.OfferStatus, to domain.OfferStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok || !statusIn(offer.Status, from) {
		return domain.ErrWriteConflict
	}
	offer.Status = to
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryPackageRepo) RejectSiblingOffers(_ context.Context, requestID, acceptedOfferID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, offer := range r.offers {
		if offer.RequestID == requestID && offer.ID != acceptedOfferID && offer.IsLive() {
			offer.Status = domain.OfferRejected
			offer.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}
