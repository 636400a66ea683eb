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

var validateFieldsOffer = validator.New()

type OfferHandler struct {
	offerService   services.OfferService
	requestService services.RequestService
	Tracer         trace.Tracer
	logger         *logrus.Logger
}

func NewOfferHandler(offerService services.OfferService, requestService services.RequestService, tr trace.Tracer, logger *logrus.Logger) OfferHandler {
	return OfferHandler{offerService, requestService, tr, logger}
}

type submitOfferInput struct {
	TotalPrice     float64 `json:"total_price" validate:"gt=0"`
	Currency       string  `json:"currency" validate:"required"`
	CommissionRate float64 `json:"commission_rate" validate:"required"`
	Mode           string  `json:"mode" validate:"required"`
}

func (h *OfferHandler) SubmitOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "OfferHandler.SubmitOffer")
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

	var input submitOfferInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}
	if err := validateFieldsOffer.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	offer := &domain.Offer{
		RequestID:      requestID,
		TotalPrice:     input.TotalPrice,
		Currency:       input.Currency,
		CommissionRate: input.CommissionRate,
		Mode:           domain.OfferMode(input.Mode),
	}

	created, err := h.offerService.Submit(spanCtx, actor, offer)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "offer": created})
}

type priceInput struct {
	Price float64 `json:"price" validate:"gt=0"`
}

func (h *OfferHandler) ReviseOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "OfferHandler.ReviseOffer")
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
	if err := validateFieldsOffer.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	offer, err := h.offerService.Revise(spanCtx, actor, offerID, input.Price)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "offer": offer})
}

func (h *OfferHandler) CounterOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "OfferHandler.CounterOffer")
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
	if err := validateFieldsOffer.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	offer, err := h.offerService.Counter(spanCtx, actor, offerID, input.Price)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "offer": offer})
}

func (h *OfferHandler) RejectOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "OfferHandler.RejectOffer")
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

	offer, err := h.offerService.Reject(spanCtx, actor, offerID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "offer": offer})
}

func (h *OfferHandler) WithdrawOffer(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "OfferHandler.WithdrawOffer")
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

	offer, err := h.offerService.Withdraw(spanCtx, actor, offerID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "offer": offer})
}

// ListOffersForRequest returns each offer together with the price the
// requester would actually pay, resolved by the same function the booking
// materializer uses.
func (h *OfferHandler) ListOffersForRequest(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "OfferHandler.ListOffersForRequest")
	defer span.End()

	requestID, err := primitive.ObjectIDFromHex(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid request id"})
		return
	}

	req, err := h.requestService.Get(spanCtx, requestID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	offers, err := h.offerService.ListByRequest(spanCtx, requestID)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}

	type offerWithPrice struct {
		*domain.Offer
		RequesterPrice float64 `json:"requester_price"`
	}
	out := make([]offerWithPrice, 0, len(offers))
	for _, o := range offers {
		out = append(out, offerWithPrice{
			Offer:          o,
			RequesterPrice: domain.ResolveRequesterPrice(o.TotalPrice, req.DiscountRate()),
		})
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "offers": out})
}

func (h *OfferHandler) ListMyOffers(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "OfferHandler.ListMyOffers")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	offers, err := h.offerService.ListByOfferer(spanCtx, actor)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "offers": offers})
}
