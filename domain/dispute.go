package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "open"
	DisputeResolved DisputeStatus = "resolved"
)

// CommissionDispute is a hotel's challenge to the commission charged for one
// booking within one accounting period. At most one exists per (booking,
// period), and it may only be opened while that period's window is open.
type CommissionDispute struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID primitive.ObjectID `bson:"booking_id" json:"booking_id"`
	HotelID   string             `bson:"hotel_id" json:"hotel_id"`
	Period    Period             `bson:"period" json:"period"`
	Reason    string             `bson:"reason" json:"reason"`
	Status    DisputeStatus      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
