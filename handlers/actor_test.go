package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"marketplace-service/domain"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return ctx, w
}

func TestActorFrom(t *testing.T) {
	ctx, _ := testContext()
	ctx.Request.Header.Set("X-Actor-Id", "guest-1")
	ctx.Request.Header.Set("X-Actor-Role", "guest")

	actor, ok := actorFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, domain.Actor{ID: "guest-1", Role: domain.RoleGuest}, actor)
}

func TestActorFromMissingIdentity(t *testing.T) {
	ctx, w := testContext()

	_, ok := actorFrom(ctx)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActorFromUnknownRole(t *testing.T) {
	ctx, w := testContext()
	ctx.Request.Header.Set("X-Actor-Id", "someone")
	ctx.Request.Header.Set("X-Actor-Role", "admin")

	_, ok := actorFrom(ctx)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAbortWithDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("city", "required"), http.StatusBadRequest},
		{"transition", domain.InvalidTransition{Entity: "offer", Action: "accept"}, http.StatusConflict},
		{"request closed", domain.ErrRequestClosed, http.StatusConflict},
		{"write conflict", domain.ErrWriteConflict, http.StatusConflict},
		{"counter already set", domain.ErrCounterAlreadySet, http.StatusConflict},
		{"dispute window", domain.ErrDisputeWindowClosed, http.StatusConflict},
		{"payment declined", domain.ErrPaymentDeclined, http.StatusPaymentRequired},
		{"not found", domain.ErrRequestNotFound(), http.StatusNotFound},
		{"inconsistent", domain.InconsistentError{Op: "accept offer", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, w := testContext()
			abortWithDomainError(ctx, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
