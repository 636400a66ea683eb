package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/domain"
	"marketplace-service/services"
)

var validateFieldsDispute = validator.New()

type DisputeHandler struct {
	disputeService services.DisputeService
	Tracer         trace.Tracer
	logger         *logrus.Logger
}

func NewDisputeHandler(disputeService services.DisputeService, tr trace.Tracer, logger *logrus.Logger) DisputeHandler {
	return DisputeHandler{disputeService, tr, logger}
}

type openDisputeInput struct {
	BookingID string `json:"booking_id" validate:"required"`
	Year      int    `json:"year" validate:"required"`
	Month     int    `json:"month" validate:"min=1,max=12"`
	Reason    string `json:"reason" validate:"required"`
}

func (h *DisputeHandler) OpenDispute(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "DisputeHandler.OpenDispute")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	if actor.Role != domain.RoleHotel {
		ctx.JSON(http.StatusForbidden, gin.H{"status": "fail", "message": "Only hotels dispute commission"})
		return
	}

	var input openDisputeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}
	if err := validateFieldsDispute.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(input.BookingID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid booking id"})
		return
	}

	dispute, err := h.disputeService.Open(spanCtx, actor, bookingID,
		domain.Period{Year: input.Year, Month: input.Month}, input.Reason)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "dispute": dispute})
}

func (h *DisputeHandler) ResolveDispute(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "DisputeHandler.ResolveDispute")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(ctx.Param("disputeId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid dispute id"})
		return
	}

	dispute, err := h.disputeService.Resolve(spanCtx, id)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "dispute": dispute})
}

func (h *DisputeHandler) ListMyDisputes(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "DisputeHandler.ListMyDisputes")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	disputes, err := h.disputeService.ListByHotel(spanCtx, actor)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "disputes": disputes})
}
