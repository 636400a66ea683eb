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
	"marketplace-service/utils"
)

var validateFieldsPackage = validator.New()

type PackageHandler struct {
	packageService services.PackageService
	Tracer         trace.Tracer
	logger         *logrus.Logger
}

func NewPackageHandler(packageService services.PackageService, tr trace.Tracer, logger *logrus.Logger) PackageHandler {
	return PackageHandler{packageService, tr, logger}
}

type createPackageRequestInput struct {
	Destination             string `json:"destination" validate:"required"`
	DepartFrom              string `json:"depart_from"`
	StartDate               string `json:"start_date" validate:"required"`
	EndDate                 string `json:"end_date" validate:"required"`
	Travellers              int    `json:"travellers" validate:"min=1"`
	Notes                   string `json:"notes"`
	ResponseDeadlineMinutes int    `json:"response_deadline_minutes" validate:"min=1"`
}

func (h *PackageHandler) CreateRequest(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.CreateRequest")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var input createPackageRequestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}
	if err := validateFieldsPackage.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	startDate, err := utils.ParseDate(input.StartDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "start_date must be YYYY-MM-DD"})
		return
	}
	endDate, err := utils.ParseDate(input.EndDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "end_date must be YYYY-MM-DD"})
		return
	}

	req := &domain.PackageRequest{
		Destination:             input.Destination,
		DepartFrom:              input.DepartFrom,
		StartDate:               startDate,
		EndDate:                 endDate,
		Travellers:              input.Travellers,
		Notes:                   input.Notes,
		ResponseDeadlineMinutes: input.ResponseDeadlineMinutes,
	}

	created, err := h.packageService.CreateRequest(spanCtx, actor, req)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "package_request": created})
}

func (h *PackageHandler) GetRequest(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.GetRequest")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid request id"})
		return
	}

	req, err := h.packageService.GetRequest(spanCtx, id)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "package_request": req})
}

func (h *PackageHandler) ListMyRequests(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.ListMyRequests")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	requests, err := h.packageService.ListRequests(spanCtx, actor)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "package_requests": requests})
}

func (h *PackageHandler) CancelRequest(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.CancelRequest")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid request id"})
		return
	}

	req, err := h.packageService.CancelRequest(spanCtx, actor, id)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "package_request": req})
}

type submitPackageOfferInput struct {
	TotalPrice     float64 `json:"total_price" validate:"gt=0"`
	Currency       string  `json:"currency" validate:"required"`
	CommissionRate float64 `json:"commission_rate" validate:"required"`
	Description    string  `json:"description"`
}

func (h *PackageHandler) SubmitOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.SubmitOffer")
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

	var input submitPackageOfferInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}
	if err := validateFieldsPackage.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	offer := &domain.PackageOffer{
		RequestID:      requestID,
		TotalPrice:     input.TotalPrice,
		Currency:       input.Currency,
		CommissionRate: input.CommissionRate,
		Description:    input.Description,
	}

	created, err := h.packageService.SubmitOffer(spanCtx, actor, offer)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "package_offer": created})
}

func (h *PackageHandler) ReviseOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.ReviseOffer")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	offerID, err := primitive.ObjectIDFromHex(ctx.Param("offerId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid offer id"})
		return
	}

	var input priceInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}
	if err := validateFieldsPackage.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	offer, err := h.packageService.ReviseOffer(spanCtx, actor, offerID, input.Price)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "package_offer": offer})
}

func (h *PackageHandler) AcceptOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.AcceptOffer")
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

	offer, err := h.packageService.AcceptOffer(spanCtx, actor, requestID, offerID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "package_offer": offer})
}

func (h *PackageHandler) RejectOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.RejectOffer")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	offerID, err := primitive.ObjectIDFromHex(ctx.Param("offerId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid offer id"})
		return
	}

	offer, err := h.packageService.RejectOffer(spanCtx, actor, offerID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "package_offer": offer})
}

func (h *PackageHandler) WithdrawOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.WithdrawOffer")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}
	offerID, err := primitive.ObjectIDFromHex(ctx.Param("offerId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid offer id"})
		return
	}

	offer, err := h.packageService.WithdrawOffer(spanCtx, actor, offerID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "package_offer": offer})
}

func (h *PackageHandler) ListOffersForRequest(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "PackageHandler.ListOffersForRequest")
	defer span.End()

	requestID, err := primitive.ObjectIDFromHex(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid request id"})
		return
	}

	offers, err := h.packageService.ListOffers(spanCtx, requestID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "package_offers": offers})
}
