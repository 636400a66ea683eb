package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateDeadlineCountsDown(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	d := EvaluateDeadline(createdAt, 60, createdAt)
	assert.Equal(t, 60*time.Minute, d.Remaining)
	assert.Equal(t, 0.0, d.Ratio)
	assert.False(t, d.Expired)

	d = EvaluateDeadline(createdAt, 60, createdAt.Add(30*time.Minute))
	assert.Equal(t, 30*time.Minute, d.Remaining)
	assert.InDelta(t, 0.5, d.Ratio, 1e-9)
	assert.False(t, d.Expired)
}

func TestEvaluateDeadlineExpiresAtBoundary(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	d := EvaluateDeadline(createdAt, 60, createdAt.Add(60*time.Minute))
	assert.True(t, d.Expired)
	assert.Equal(t, time.Duration(0), d.Remaining)
	assert.Equal(t, 1.0, d.Ratio)

	d = EvaluateDeadline(createdAt, 60, createdAt.Add(61*time.Minute))
	assert.True(t, d.Expired)
	assert.Equal(t, time.Duration(0), d.Remaining)
	assert.Equal(t, 1.0, d.Ratio)
}

func TestEvaluateDeadlineClockBeforeCreation(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	d := EvaluateDeadline(createdAt, 60, createdAt.Add(-5*time.Minute))
	assert.Equal(t, 0.0, d.Ratio)
	assert.False(t, d.Expired)
	assert.Equal(t, 65*time.Minute, d.Remaining)
}

func TestShouldExpireRequestIsIdempotent(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := &Request{Status: RequestOpen, CreatedAt: createdAt, ResponseDeadlineMinutes: 60}

	assert.False(t, ShouldExpireRequest(req, createdAt.Add(59*time.Minute)))
	assert.True(t, ShouldExpireRequest(req, createdAt.Add(61*time.Minute)))

	req.Status = RequestAccepted
	assert.False(t, ShouldExpireRequest(req, createdAt.Add(61*time.Minute)))

	req.Status = RequestExpired
	assert.False(t, ShouldExpireRequest(req, createdAt.Add(61*time.Minute)))
}
