package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestExpired   RequestStatus = "expired"
	RequestAccepted  RequestStatus = "accepted"
	RequestCancelled RequestStatus = "cancelled"
)

// Request is a time-boxed accommodation need posted by a guest or agency.
type Request struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedByRole Role               `bson:"created_by_role" json:"created_by_role"`
	CreatedByID   string             `bson:"created_by_id" json:"created_by_id"`

	City          string    `bson:"city" json:"city"`
	District      string    `bson:"district,omitempty" json:"district,omitempty"`
	CheckIn       time.Time `bson:"check_in" json:"check_in"`
	CheckOut      time.Time `bson:"check_out" json:"check_out"`
	Adults        int       `bson:"adults" json:"adults"`
	Children      int       `bson:"children" json:"children"`
	RoomsCount    int       `bson:"rooms_count" json:"rooms_count"`

	// Preference fields are opaque to the negotiation engine.
	BoardType  string   `bson:"board_type,omitempty" json:"board_type,omitempty"`
	StarRating int      `bson:"star_rating,omitempty" json:"star_rating,omitempty"`
	Features   []string `bson:"features,omitempty" json:"features,omitempty"`

	// AgencyDiscountRate is only meaningful when CreatedByRole is agency.
	AgencyDiscountRate float64 `bson:"agency_discount_rate" json:"agency_discount_rate"`

	CreatedAt               time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt               time.Time     `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	ResponseDeadlineMinutes int           `bson:"response_deadline_minutes" json:"response_deadline_minutes"`
	Status                  RequestStatus `bson:"status" json:"status"`
}

func (r *Request) IsOpen() bool {
	return r.Status == RequestOpen
}

// DiscountRate returns the rate the pricing resolver should apply. Guest
// requests never discount, whatever the stored field says.
func (r *Request) DiscountRate() float64 {
	if r.CreatedByRole != RoleAgency {
		return 0
	}
	return r.AgencyDiscountRate
}

// Validate checks the stand-alone field invariants of a new request.
func (r *Request) Validate() error {
	if r.CreatedByRole != RoleGuest && r.CreatedByRole != RoleAgency {
		return NewValidationError("created_by_role", "must be guest or agency")
	}
	if r.CreatedByID == "" {
		return NewValidationError("created_by_id", "required")
	}
	if r.City == "" {
		return NewValidationError("city", "required")
	}
	if !r.CheckOut.After(r.CheckIn) {
		return NewValidationError("check_out", "must be after check_in")
	}
	if r.Adults < 1 {
		return NewValidationError("adults", "must be at least 1")
	}
	if r.Children < 0 {
		return NewValidationError("children", "must not be negative")
	}
	if r.RoomsCount < 1 {
		return NewValidationError("rooms_count", "must be at least 1")
	}
	if r.AgencyDiscountRate < 0 || r.AgencyDiscountRate > 100 {
		return NewValidationError("agency_discount_rate", "must be between 0 and 100")
	}
	if r.AgencyDiscountRate > 0 && r.CreatedByRole != RoleAgency {
		return NewValidationError("agency_discount_rate", "only agency requests may carry a discount")
	}
	if r.ResponseDeadlineMinutes < 1 {
		return NewValidationError("response_deadline_minutes", "must be at least 1")
	}
	return nil
}
