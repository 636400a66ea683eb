package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"marketplace-service/domain"
)

type DisputeRepo struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewDisputeRepo(collection *mongo.Collection, logger *logrus.Logger) *DisputeRepo {
	return &DisputeRepo{collection: collection, logger: logger}
}

func (r *DisputeRepo) Insert(ctx context.Context, dispute *domain.CommissionDispute) error {
	res, err := r.collection.InsertOne(ctx, dispute)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"path": "repository/dispute"}).Error("insert failed: ", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		dispute.ID = oid
	}
	return nil
}

func (r *DisputeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CommissionDispute, error) {
	var dispute *domain.CommissionDispute
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dispute)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrDisputeNotFound()
		}
		return nil, err
	}
	return dispute, nil
}

func (r *DisputeRepo) ExistsForPeriod(ctx context.Context, bookingID primitive.ObjectID, period domain.Period) (bool, error) {
	query := bson.M{
		"booking_id":   bookingID,
		"period.year":  period.Year,
		"period.month": period.Month,
	}
	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DisputeRepo) ListByHotel(ctx context.Context, hotelID string) ([]*domain.CommissionDispute, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"hotel_id": hotelID})
	if err != nil {
		return nil, err
	}
	var disputes []*domain.CommissionDispute
	if err = cursor.All(ctx, &disputes); err != nil {
		return nil, err
	}
	return disputes, nil
}

func (r *DisputeRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.DisputeStatus, to domain.DisputeStatus) error {
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}
