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

type BookingRepo struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewBookingRepo(collection *mongo.Collection, logger *logrus.Logger) *BookingRepo {
	return &BookingRepo{collection: collection, logger: logger}
}

func (r *BookingRepo) Insert(ctx context.Context, booking *domain.Booking) error {
	res, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"path": "repository/booking"}).Error("insert failed: ", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	var booking *domain.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBookingNotFound()
		}
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepo) ListByGuest(ctx context.Context, guestID string) ([]*domain.Booking, error) {
	return r.list(ctx, bson.M{"guest_id": guestID})
}

func (r *BookingRepo) ListByHotel(ctx context.Context, hotelID string) ([]*domain.Booking, error) {
	return r.list(ctx, bson.M{"hotel_id": hotelID})
}

func (r *BookingRepo) list(ctx context.Context, query bson.M) ([]*domain.Booking, error) {
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	var bookings []*domain.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.BookingStatus, to domain.BookingStatus) error {
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
