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

type OfferRepo struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewOfferRepo(collection *mongo.Collection, logger *logrus.Logger) *OfferRepo {
	return &OfferRepo{collection: collection, logger: logger}
}

func (r *OfferRepo) Insert(ctx context.Context, offer *domain.Offer) error {
	res, err := r.collection.InsertOne(ctx, offer)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"path": "repository/offer"}).Error("insert failed: ", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		offer.ID = oid
	}
	return nil
}

func (r *OfferRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Offer, error) {
	var offer *domain.Offer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOfferNotFound()
		}
		return nil, err
	}
	return offer, nil
}

func (r *OfferRepo) FindLiveByRequestAndOfferer(ctx context.Context, requestID primitive.ObjectID, offererID string) (*domain.Offer, error) {
	query := bson.M{
		"request_id": requestID,
		"offerer_id": offererID,
		"status":     bson.M{"$in": domain.LiveOfferStatuses},
	}
	var offer *domain.Offer
	err := r.collection.FindOne(ctx, query).Decode(&offer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return offer, nil
}

func (r *OfferRepo) ListByRequest(ctx context.Context, requestID primitive.ObjectID) ([]*domain.Offer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"request_id": requestID})
	if err != nil {
		return nil, err
	}
	var offers []*domain.Offer
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *OfferRepo) ListByOfferer(ctx context.Context, offererID string) ([]*domain.Offer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"offerer_id": offererID})
	if err != nil {
		return nil, err
	}
	var offers []*domain.Offer
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *OfferRepo) UpdatePrice(ctx context.Context, id primitive.ObjectID, from []domain.OfferStatus, price float64, to domain.OfferStatus) error {
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"total_price": price, "status": to, "updated_at": time.Now()}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}

func (r *OfferRepo) SetCounterPrice(ctx context.Context, id primitive.ObjectID, price float64) error {
	filter := bson.M{
		"_id":                 id,
		"mode":                domain.OfferModeNegotiable,
		"status":              bson.M{"$in": []domain.OfferStatus{domain.OfferSent, domain.OfferCountered}},
		"guest_counter_price": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"guest_counter_price": price,
		"status":              domain.OfferCountered,
		"updated_at":          time.Now(),
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}

func (r *OfferRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.OfferStatus, to domain.OfferStatus) error {
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}

func (r *OfferRepo) RejectSiblings(ctx context.Context, requestID, acceptedOfferID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"request_id": requestID,
		"_id":        bson.M{"$ne": acceptedOfferID},
		"status":     bson.M{"$in": domain.LiveOfferStatuses},
	}
	update := bson.M{"$set": bson.M{"status": domain.OfferRejected, "updated_at": time.Now()}}

	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
