package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/domain"
	"marketplace-service/services"
)

var validateFieldsBooking = validator.New()

type BookingHandler struct {
	bookingService services.BookingService
	Tracer         trace.Tracer
	logger         *logrus.Logger
}

func NewBookingHandler(bookingService services.BookingService, tr trace.Tracer, logger *logrus.Logger) BookingHandler {
	return BookingHandler{bookingService, tr, logger}
}

type acceptOfferInput struct {
	PaymentMethod          string `json:"payment_method" validate:"required"`
	CancellationPolicyType string `json:"cancellation_policy_type" validate:"required"`
	CancellationPolicyDays int    `json:"cancellation_policy_days"`
}

func (h *BookingHandler) AcceptOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "BookingHandler.AcceptOffer")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	requestID, err := primitive.ObjectIDFromHex(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid request id"})
		return
	}
	offerID, err := primitive.ObjectIDFromHex(ctx.Param("offerId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid offer id"})
		return
	}

	var input acceptOfferInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}
	if err := validateFieldsBooking.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	booking, err := h.bookingService.Accept(spanCtx, actor, services.AcceptOfferInput{
		RequestID:     requestID,
		OfferID:       offerID,
		PaymentMethod: domain.PaymentMethod(input.PaymentMethod),
		CancellationPolicy: domain.CancellationPolicy{
			Type: domain.CancellationPolicyType(input.CancellationPolicyType),
			Days: input.CancellationPolicyDays,
		},
	})
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "booking": booking})
}

func (h *BookingHandler) GetBooking(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "BookingHandler.GetBooking")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(ctx.Param("bookingId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid booking id"})
		return
	}

	view, err := h.bookingService.Get(spanCtx, id)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "booking": view})
}

func (h *BookingHandler) ListMyBookings(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "BookingHandler.ListMyBookings")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var views []*services.BookingView
	var err error
	if actor.Role == domain.RoleHotel {
		views, err = h.bookingService.ListByHotel(spanCtx, actor.ID)
	} else {
		views, err = h.bookingService.ListByGuest(spanCtx, actor)
	}
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "bookings": views})
}

func (h *BookingHandler) CancelBooking(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "BookingHandler.CancelBooking")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(ctx.Param("bookingId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid booking id"})
		return
	}

	view, err := h.bookingService.Cancel(spanCtx, actor, id)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "booking": view})
}

func (h *BookingHandler) CommissionReport(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "BookingHandler.CommissionReport")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	if actor.Role != domain.RoleHotel {
		ctx.JSON(http.StatusForbidden, gin.H{"status": "fail", "message": "Only hotels read commission reports"})
		return
	}

	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(ctx.Query("month"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid month"})
		return
	}

	report, err := h.bookingService.MonthlyCommissionReport(spanCtx, actor, domain.Period{Year: year, Month: month})
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "report": report})
}
