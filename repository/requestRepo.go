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

type RequestRepo struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewRequestRepo(collection *mongo.Collection, logger *logrus.Logger) *RequestRepo {
	return &RequestRepo{collection: collection, logger: logger}
}

func (r *RequestRepo) Insert(ctx context.Context, req *domain.Request) error {
	res, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"path": "repository/request"}).Error("insert failed: ", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Request, error) {
	var req *domain.Request
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRequestNotFound()
		}
		return nil, err
	}
	return req, nil
}

func (r *RequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]*domain.Request, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"created_by_id": requesterID})
	if err != nil {
		return nil, err
	}
	var requests []*domain.Request
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.RequestStatus, to domain.RequestStatus) error {
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
