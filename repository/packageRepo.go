package repository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"marketplace-service/domain"
)

// PackageRepo spans the packageRequests and packageOffers collections; the
// package lifecycle always touches them together.
type PackageRepo struct {
	requests *mongo.Collection
	offers   *mongo.Collection
	logger   *logrus.Logger
}

func NewPackageRepo(requests, offers *mongo.Collection, logger *logrus.Logger) *PackageRepo {
	return &PackageRepo{requests: requests, offers: offers, logger: logger}
}

func (r *PackageRepo) InsertRequest(ctx context.Context, req *domain.PackageRequest) error {
	res, err := r.requests.InsertOne(ctx, req)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"path": "repository/package"}).Error("insert request failed: ", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

func (r *PackageRepo) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*domain.PackageRequest, error) {
	var req *domain.PackageRequest
	err := r.requests.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRequestNotFound()
		}
		return nil, err
	}
	return req, nil
}

func (r *PackageRepo) ListRequestsByRequester(ctx context.Context, requesterID string) ([]*domain.PackageRequest, error) {
	cursor, err := r.requests.Find(ctx, bson.M{"created_by_id": requesterID})
	if err != nil {
		return nil, err
	}
	var requests []*domain.PackageRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PackageRepo) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, from []domain.RequestStatus, to domain.RequestStatus) error {
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}

	res, err := r.requests.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}

func (r *PackageRepo) InsertOffer(ctx context.Context, offer *domain.PackageOffer) error {
	res, err := r.offers.InsertOne(ctx, offer)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"path": "repository/package"}).Error("insert offer failed: ", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		offer.ID = oid
	}
	return nil
}

func (r *PackageRepo) GetOfferByID(ctx context.Context, id primitive.ObjectID) (*domain.PackageOffer, error) {
	var offer *domain.PackageOffer
	err := r.offers.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOfferNotFound()
		}
		return nil, err
	}
	return offer, nil
}

func (r *PackageRepo) FindLiveOfferByRequestAndOfferer(ctx context.Context, requestID primitive.ObjectID, offererID string) (*domain.PackageOffer, error) {
	query := bson.M{
		"request_id": requestID,
		"offerer_id": offererID,
		"status":     bson.M{"$in": []domain.OfferStatus{domain.OfferSent, domain.OfferUpdated}},
	}
	var offer *domain.PackageOffer
	err := r.offers.FindOne(ctx, query).Decode(&offer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return offer, nil
}

func (r *PackageRepo) ListOffersByRequest(ctx context.Context, requestID primitive.ObjectID) ([]*domain.PackageOffer, error) {
	cursor, err := r.offers.Find(ctx, bson.M{"request_id": requestID})
	if err != nil {
		return nil, err
	}
	var offers []*domain.PackageOffer
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *PackageRepo) UpdateOfferPrice(ctx context.Context, id primitive.ObjectID, from []domain.OfferStatus, price float64) error {
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"total_price": price, "status": domain.OfferUpdated, "updated_at": time.Now()}}

	res, err := r.offers.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}

func (r *PackageRepo) UpdateOfferStatus(ctx context.Context, id primitive.ObjectID, from []domain.OfferStatus, to domain.OfferStatus) error {
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}

	res, err := r.offers.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}

func (r *PackageRepo) RejectSiblingOffers(ctx context.Context, requestID, acceptedOfferID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"request_id": requestID,
		"_id":        bson.M{"$ne": acceptedOfferID},
		"status":     bson.M{"$in": []domain.OfferStatus{domain.OfferSent, domain.OfferUpdated}},
	}
	update := bson.M{"$set": bson.M{"status": domain.OfferRejected, "updated_at": time.Now()}}

	res, err := r.offers.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
