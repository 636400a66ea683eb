package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/domain"
	"marketplace-service/services"
	"marketplace-service/utils"
)

var validateFieldsRequest = validator.New()

type RequestHandler struct {
	requestService services.RequestService
	Tracer         trace.Tracer
	logger         *logrus.Logger
}

func NewRequestHandler(requestService services.RequestService, tr trace.Tracer, logger *logrus.Logger) RequestHandler {
	return RequestHandler{requestService, tr, logger}
}

type createRequestInput struct {
	City                    string   `json:"city" validate:"required"`
	District                string   `json:"district"`
	CheckIn                 string   `json:"check_in" validate:"required"`
	CheckOut                string   `json:"check_out" validate:"required"`
	Adults                  int      `json:"adults" validate:"min=1"`
	Children                int      `json:"children" validate:"min=0"`
	RoomsCount              int      `json:"rooms_count" validate:"min=1"`
	BoardType               string   `json:"board_type"`
	StarRating              int      `json:"star_rating"`
	Features                []string `json:"features"`
	AgencyDiscountRate      float64  `json:"agency_discount_rate" validate:"min=0,max=100"`
	ResponseDeadlineMinutes int      `json:"response_deadline_minutes" validate:"min=1"`
}

func (h *RequestHandler) CreateRequest(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "RequestHandler.CreateRequest")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var input createRequestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}
	if err := validateFieldsRequest.Struct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
		return
	}

	checkIn, err := utils.ParseDate(input.CheckIn)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, err := utils.ParseDate(input.CheckOut)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "check_out must be YYYY-MM-DD"})
		return
	}

	req := &domain.Request{
		City:                    input.City,
		District:                input.District,
		CheckIn:                 checkIn,
		CheckOut:                checkOut,
		Adults:                  input.Adults,
		Children:                input.Children,
		RoomsCount:              input.RoomsCount,
		BoardType:               input.BoardType,
		StarRating:              input.StarRating,
		Features:                input.Features,
		AgencyDiscountRate:      input.AgencyDiscountRate,
		ResponseDeadlineMinutes: input.ResponseDeadlineMinutes,
	}

	created, err := h.requestService.Create(spanCtx, actor, req)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"status": "success", "request": created})
}

func (h *RequestHandler) GetRequest(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "RequestHandler.GetRequest")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid request id"})
		return
	}

	req, err := h.requestService.Get(spanCtx, id)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}

	deadline := domain.EvaluateDeadline(req.CreatedAt, req.ResponseDeadlineMinutes, time.Now())
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "request": req, "deadline": gin.H{
		"remaining_ms": deadline.Remaining.Milliseconds(),
		"ratio":        deadline.Ratio,
		"expired":      deadline.Expired,
	}})
}

// GetDeadline serves the countdown for urgency display. It runs the same
// evaluator the lifecycle uses, so the countdown and the expiry decision can
// never disagree.
func (h *RequestHandler) GetDeadline(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "RequestHandler.GetDeadline")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "Invalid request id"})
		return
	}

	deadline, err := h.requestService.Deadline(spanCtx, id)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "deadline": gin.H{
		"remaining_ms": deadline.Remaining.Milliseconds(),
		"ratio":        deadline.Ratio,
		"expired":      deadline.Expired,
	}})
}

func (h *RequestHandler) ListMyRequests(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "RequestHandler.ListMyRequests")
	defer span.End()

	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	requests, err := h.requestService.ListByRequester(spanCtx, actor)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "requests": requests})
}

func (h *RequestHandler) CancelRequest(ctx *gin.Context) {
	spanCtx, span := h.Tracer.Start(ctx.Request.Context(), "RequestHandler.CancelRequest")
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

	req, err := h.requestService.Cancel(spanCtx, actor, id)
	if err != nil {
		abortWithDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "request": req})
}
