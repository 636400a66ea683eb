package domain

import "time"

// Deadline is the evaluated expiry state of a request's response window.
// It never crosses the wire as-is; handlers serialize Remaining in
// milliseconds explicitly.
type Deadline struct {
	Remaining time.Duration
	Ratio     float64
	Expired   bool
}

// EvaluateDeadline is the single source of truth for request expiry. Both
// the lifecycle controller and any countdown display must call it with the
// same inputs so the two can never drift apart. Ratio is elapsed over total,
// clamped to [0,1]; it exists for urgency display only and never drives a
// transition.
func EvaluateDeadline(createdAt time.Time, responseDeadlineMinutes int, now time.Time) Deadline {
	total := time.Duration(responseDeadlineMinutes) * time.Minute
	expiresAt := createdAt.Add(total)

	remaining := expiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(now.Sub(createdAt)) / float64(total)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	return Deadline{
		Remaining: remaining,
		Ratio:     ratio,
		Expired:   !now.Before(expiresAt),
	}
}
