package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/domain"
)

// Role resolution is an external collaborator: the gateway authenticates the
// caller and forwards identity in these headers. The engine only ever sees
// an explicit actor, never ambient auth state.
const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

func actorFrom(ctx *gin.Context) (domain.Actor, bool) {
	actor := domain.Actor{
		ID:   ctx.GetHeader(headerActorID),
		Role: domain.Role(ctx.GetHeader(headerActorRole)),
	}
	if actor.ID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "Missing actor identity"})
		return domain.Actor{}, false
	}
	switch actor.Role {
	case domain.RoleGuest, domain.RoleAgency, domain.RoleHotel:
	default:
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "Unknown actor role"})
		return domain.Actor{}, false
	}
	return actor, true
}

// abortWithDomainError maps the engine's typed errors onto HTTP statuses.
// Handlers consume the discriminated error, never its message text.
func abortWithDomainError(ctx *gin.Context, err error) {
	var validationErr domain.ValidationError
	var transitionErr domain.InvalidTransition
	var inconsistentErr domain.InconsistentError

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": err.Error()})
	case errors.As(err, &transitionErr):
		ctx.JSON(http.StatusConflict, gin.H{"status": "fail", "message": err.Error()})
	case errors.Is(err, domain.ErrRequestClosed):
		ctx.JSON(http.StatusConflict, gin.H{"status": "fail", "message": err.Error()})
	case errors.Is(err, domain.ErrWriteConflict):
		ctx.JSON(http.StatusConflict, gin.H{"status": "fail", "message": err.Error()})
	case errors.Is(err, domain.ErrCounterAlreadySet):
		ctx.JSON(http.StatusConflict, gin.H{"status": "fail", "message": err.Error()})
	case errors.Is(err, domain.ErrDisputeWindowClosed), errors.Is(err, domain.ErrDisputeExists):
		ctx.JSON(http.StatusConflict, gin.H{"status": "fail", "message": err.Error()})
	case errors.Is(err, domain.ErrPaymentDeclined):
		ctx.JSON(http.StatusPaymentRequired, gin.H{"status": "fail", "message": err.Error()})
	case errors.Is(err, domain.ErrRequestNotFound()),
		errors.Is(err, domain.ErrOfferNotFound()),
		errors.Is(err, domain.ErrBookingNotFound()),
		errors.Is(err, domain.ErrDisputeNotFound()):
		ctx.JSON(http.StatusNotFound, gin.H{"status": "fail", "message": err.Error()})
	case errors.As(err, &inconsistentErr):
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal inconsistency, support has been notified"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
	}
}
