package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package requests run the same lifecycle as accommodation requests but the
// offers against them carry no negotiation mode and no counter price; an
// agency either accepts a package offer as quoted or rejects it.

type PackageRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedByRole Role               `bson:"created_by_role" json:"created_by_role"`
	CreatedByID   string             `bson:"created_by_id" json:"created_by_id"`

	Destination string    `bson:"destination" json:"destination"`
	DepartFrom  string    `bson:"depart_from,omitempty" json:"depart_from,omitempty"`
	StartDate   time.Time `bson:"start_date" json:"start_date"`
	EndDate     time.Time `bson:"end_date" json:"end_date"`
	Travellers  int       `bson:"travellers" json:"travellers"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt               time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt               time.Time     `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	ResponseDeadlineMinutes int           `bson:"response_deadline_minutes" json:"response_deadline_minutes"`
	Status                  RequestStatus `bson:"status" json:"status"`
}

func (p *PackageRequest) IsOpen() bool {
	return p.Status == RequestOpen
}

func (p *PackageRequest) Validate() error {
	if p.CreatedByID == "" {
		return NewValidationError("created_by_id", "required")
	}
	if p.Destination == "" {
		return NewValidationError("destination", "required")
	}
	if !p.EndDate.After(p.StartDate) {
		return NewValidationError("end_date", "must be after start_date")
	}
	if p.Travellers < 1 {
		return NewValidationError("travellers", "must be at least 1")
	}
	if p.ResponseDeadlineMinutes < 1 {
		return NewValidationError("response_deadline_minutes", "must be at least 1")
	}
	return nil
}

type PackageOffer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID primitive.ObjectID `bson:"request_id" json:"request_id"`
	OffererID string             `bson:"offerer_id" json:"offerer_id"`

	TotalPrice     float64 `bson:"total_price" json:"total_price"`
	Currency       string  `bson:"currency" json:"currency"`
	CommissionRate float64 `bson:"commission_rate" json:"commission_rate"`
	Description    string  `bson:"description,omitempty" json:"description,omitempty"`

	Status    OfferStatus `bson:"status" json:"status"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}

func (o *PackageOffer) IsLive() bool {
	return o.Status == OfferSent || o.Status == OfferUpdated
}

func (o *PackageOffer) Validate() error {
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
	return nil
}
