package domain

import "time"

type CancellationPolicyType string

const (
	PolicyNonRefundable   CancellationPolicyType = "non_refundable"
	PolicyFlexible        CancellationPolicyType = "flexible"
	PolicyUntilDaysBefore CancellationPolicyType = "until_days_before"
)

// CancellationPolicy is the policy as chosen at acceptance time. It is
// copied into the booking, so later edits by the hotel never change an
// existing booking's terms.
type CancellationPolicy struct {
	Type CancellationPolicyType `bson:"type" json:"type"`
	Days int                    `bson:"days,omitempty" json:"days,omitempty"`
}

func (p CancellationPolicy) Validate() error {
	switch p.Type {
	case PolicyNonRefundable, PolicyFlexible:
		return nil
	case PolicyUntilDaysBefore:
		if p.Days < 1 {
			return NewValidationError("cancellation_policy_days", "must be at least 1")
		}
		return nil
	default:
		return NewValidationError("cancellation_policy_type", "unknown policy type")
	}
}

// CanCancelNow evaluates, as of now, whether the booking may still be
// cancelled under its stored policy.
func CanCancelNow(b *Booking, now time.Time) bool {
	if b.DerivedStatus(now) != BookingActive {
		return false
	}
	if !now.Before(b.CheckIn) {
		return false
	}
	switch b.CancellationPolicyType {
	case PolicyNonRefundable:
		return false
	case PolicyFlexible:
		return true
	case PolicyUntilDaysBefore:
		return daysBetween(now, b.CheckIn) >= b.CancellationPolicyDays
	}
	return false
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// Period is one accounting month.
type Period struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Validate() error {
	if p.Year < 2000 {
		return NewValidationError("period.year", "implausible year")
	}
	if p.Month < 1 || p.Month > 12 {
		return NewValidationError("period.month", "must be 1-12")
	}
	return nil
}

// IsDisputeWindowOpen reports whether a hotel may still dispute commission
// for the given accounting period. Only the period currently in progress is
// disputable; closed periods are final.
func IsDisputeWindowOpen(p Period, now time.Time) bool {
	return PeriodOf(now) == p
}
