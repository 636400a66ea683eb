package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OfferStatus string

const (
	OfferSent      OfferStatus = "sent"
	OfferUpdated   OfferStatus = "updated"
	OfferCountered OfferStatus = "countered"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferWithdrawn OfferStatus = "withdrawn"
)

type OfferMode string

const (
	OfferModeSimple      OfferMode = "simple"
	OfferModeRefreshable OfferMode = "refreshable"
	OfferModeNegotiable  OfferMode = "negotiable"
)

// AllowedCommissionRates is the closed set of platform commission rates a
// hotel may attach to an offer.
var AllowedCommissionRates = []float64{8, 10, 15}

func IsAllowedCommissionRate(rate float64) bool {
	for _, r := range AllowedCommissionRates {
		if r == rate {
			return true
		}
	}
	return false
}

// Offer is a hotel's quoted terms against one request. At most one offer per
// (request, offerer) pair is live; a resend updates the existing document.
type Offer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID primitive.ObjectID `bson:"request_id" json:"request_id"`
	OffererID string             `bson:"offerer_id" json:"offerer_id"`

	TotalPrice     float64   `bson:"total_price" json:"total_price"`
	Currency       string    `bson:"currency" json:"currency"`
	CommissionRate float64   `bson:"commission_rate" json:"commission_rate"`
	Mode           OfferMode `bson:"mode" json:"mode"`

	Status OfferStatus `bson:"status" json:"status"`

	// GuestCounterPrice is set at most once over the whole life of the offer,
	// and only for negotiable offers.
	GuestCounterPrice *float64 `bson:"guest_counter_price,omitempty" json:"guest_counter_price,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LiveOfferStatuses are the states in which an offer still participates in
// the negotiation and blocks a duplicate submit from the same offerer.
var LiveOfferStatuses = []OfferStatus{OfferSent, OfferUpdated, OfferCountered}

func (o *Offer) IsLive() bool {
	for _, s := range LiveOfferStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

func (o *Offer) Validate() error {
	if o.RequestID.IsZero() {
		return NewValidationError("request_id", "required")
	}
	if o.OffererID == "" {
		return NewValidationError("offerer_id", "required")
	}
	if o.TotalPrice <= 0 {
		return NewValidationError("total_price", "must be positive")
	}
	if o.Currency == "" {
		return NewValidationError("currency", "required")
	}
	if !IsAllowedCommissionRate(o.CommissionRate) {
		return NewValidationError("commission_rate", "must be one of 8, 10, 15")
	}
	switch o.Mode {
	case OfferModeSimple, OfferModeRefreshable, OfferModeNegotiable:
	default:
		return NewValidationError("mode", "must be simple, refreshable or negotiable")
	}
	return nil
}
