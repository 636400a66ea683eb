package domain

import "math"

// ResolveRequesterPrice derives the price the requester ultimately owes from
// the hotel's quoted price and the agency discount rate. The result is
// rounded to the nearest whole currency unit; the same function runs at
// offer review and at booking materialization so the displayed and persisted
// numbers are identical.
func ResolveRequesterPrice(offerPrice, discountRate float64) float64 {
	if offerPrice <= 0 {
		return 0
	}
	return math.Round(offerPrice * (1 - discountRate/100))
}

// ResolveCommission derives the platform commission owed by the hotel.
// Cancelled and deleted stays never generate commission. The amount is
// recomputed on every accounting read from the booking's frozen price and
// rate plus its current status; no rounding beyond display precision.
func ResolveCommission(totalPrice, commissionRate float64, status BookingStatus) float64 {
	if status == BookingCancelled || status == BookingDeleted {
		return 0
	}
	return totalPrice * commissionRate / 100
}
