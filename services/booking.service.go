package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-service/domain"
)

// AcceptOfferInput carries the requester's choices at acceptance time.
type AcceptOfferInput struct {
	RequestID          primitive.ObjectID
	OfferID            primitive.ObjectID
	PaymentMethod      domain.PaymentMethod
	CancellationPolicy domain.CancellationPolicy
}

// BookingView is a booking plus the values recomputed on every read.
type BookingView struct {
	Booking       *domain.Booking      `json:"booking"`
	DerivedStatus domain.BookingStatus `json:"derived_status"`
	Commission    float64              `json:"commission"`
}

// CommissionReportLine is one booking's contribution to a monthly report.
type CommissionReportLine struct {
	BookingID  string               `json:"booking_id"`
	TotalPrice float64              `json:"total_price"`
	Rate       float64              `json:"rate"`
	Status     domain.BookingStatus `json:"status"`
	Commission float64              `json:"commission"`
}

type CommissionReport struct {
	ReportID        string                 `json:"report_id"`
	HotelID         string                 `json:"hotel_id"`
	Period          domain.Period          `json:"period"`
	Lines           []CommissionReportLine `json:"lines"`
	TotalCommission float64                `json:"total_commission"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

type BookingService interface {
	// Accept runs the booking materializer: it validates the winning offer
	// and its request, snapshots price, commission and policy terms, charges
	// the card when the requester pays online, and atomically closes the
	// request, accepts the offer and writes the booking.
	Accept(ctx context.Context, actor domain.Actor, input AcceptOfferInput) (*domain.Booking, error)
	Get(ctx context.Context, id primitive.ObjectID) (*BookingView, error)
	ListByGuest(ctx context.Context, actor domain.Actor) ([]*BookingView, error)
	ListByHotel(ctx context.Context, hotelID string) ([]*BookingView, error)
	Cancel(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*BookingView, error)
	MonthlyCommissionReport(ctx context.Context, actor domain.Actor, period domain.Period) (*CommissionReport, error)
}
