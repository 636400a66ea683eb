package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingDeleted   BookingStatus = "deleted"
)

type PaymentMethod string

const (
	PaymentCard3D     PaymentMethod = "card3d"
	PaymentPayAtHotel PaymentMethod = "payAtHotel"
)

type PaymentStatus string

const (
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusPayAtHotel PaymentStatus = "pay_at_hotel"
)

// Booking is the immutable record materialized from one accepted offer and
// its request. Commercial and policy fields are snapshots taken at
// acceptance time and are never recomputed from live documents.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID primitive.ObjectID `bson:"request_id" json:"request_id"`
	OfferID   primitive.ObjectID `bson:"offer_id" json:"offer_id"`
	GuestID   string             `bson:"guest_id" json:"guest_id"`
	HotelID   string             `bson:"hotel_id" json:"hotel_id"`

	TotalPrice         float64 `bson:"total_price" json:"total_price"`
	OriginalOfferPrice float64 `bson:"original_offer_price" json:"original_offer_price"`
	AgencyDiscountRate float64 `bson:"agency_discount_rate" json:"agency_discount_rate"`
	CommissionRate     float64 `bson:"commission_rate" json:"commission_rate"`
	Currency           string  `bson:"currency" json:"currency"`

	CheckIn    time.Time `bson:"check_in" json:"check_in"`
	CheckOut   time.Time `bson:"check_out" json:"check_out"`
	RoomsCount int       `bson:"rooms_count" json:"rooms_count"`

	PaymentMethod PaymentMethod `bson:"payment_method" json:"payment_method"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"payment_status"`

	CancellationPolicyType CancellationPolicyType `bson:"cancellation_policy_type" json:"cancellation_policy_type"`
	CancellationPolicyDays int                    `bson:"cancellation_policy_days,omitempty" json:"cancellation_policy_days,omitempty"`

	Status    BookingStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DerivedStatus is computed on read, never stored: an active booking whose
// stay already ended reads as completed.
func (b *Booking) DerivedStatus(now time.Time) BookingStatus {
	if b.Status == BookingActive && now.After(b.CheckOut) {
		return BookingCompleted
	}
	return b.Status
}
