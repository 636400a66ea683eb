package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"marketplace-service/domain"
	"marketplace-service/repository"
	"marketplace-service/services"
)

func TestGetDeadlineServesMilliseconds(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tracer := trace.NewNoopTracerProvider().Tracer("test")

	repo := repository.NewMemoryRequestRepo()
	service := services.NewRequestServiceImpl(repo, logger, tracer)
	handler := NewRequestHandler(service, tracer, logger)

	created, err := service.Create(context.Background(),
		domain.Actor{ID: "guest-1", Role: domain.RoleGuest},
		&domain.Request{
			City:                    "Belgrade",
			CheckIn:                 time.Now().Add(30 * 24 * time.Hour),
			CheckOut:                time.Now().Add(35 * 24 * time.Hour),
			Adults:                  2,
			RoomsCount:              1,
			ResponseDeadlineMinutes: 60,
		})
	require.NoError(t, err)

	ctx, w := testContext()
	ctx.Params = gin.Params{{Key: "requestId", Value: created.ID.Hex()}}
	handler.GetDeadline(ctx)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Deadline struct {
			RemainingMs int64   `json:"remaining_ms"`
			Ratio       float64 `json:"ratio"`
			Expired     bool    `json:"expired"`
		} `json:"deadline"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// milliseconds on the wire: a 60 minute window is 3.6e6, not 3.6e12
	assert.Greater(t, body.Deadline.RemainingMs, int64(59*60*1000))
	assert.LessOrEqual(t, body.Deadline.RemainingMs, int64(60*60*1000))
	assert.False(t, body.Deadline.Expired)
}
