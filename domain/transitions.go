package domain

import "time"

// Guards for the offer negotiation and request lifecycle state machines.
// They are pure: callers fetch current state, evaluate the guard, then
// perform a conditional write keyed on the same state, so a concurrent
// change between check and write surfaces as ErrWriteConflict instead of a
// silent overwrite.

func CanSubmitOffer(actor Actor, req *Request, existingLive *Offer) error {
	if !actor.IsOfferer() {
		return InvalidTransition{Entity: "offer", From: "-", Action: "submit", Guard: "actor must be an offerer"}
	}
	if !req.IsOpen() {
		return ErrRequestClosed
	}
	if existingLive != nil {
		return InvalidTransition{
			Entity: "offer",
			From:   string(existingLive.Status),
			Action: "submit",
			Guard:  "a live offer from this offerer already exists, revise it instead",
		}
	}
	return nil
}

func CanReviseOffer(actor Actor, req *Request, offer *Offer) error {
	if offer.OffererID != actor.ID {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "revise", Guard: "only the offerer may revise"}
	}
	if !req.IsOpen() {
		return ErrRequestClosed
	}
	if !offer.IsLive() {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "revise", Guard: "offer must be sent, updated or countered"}
	}
	return nil
}

func CanCounterOffer(actor Actor, req *Request, offer *Offer) error {
	if req.CreatedByID != actor.ID {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "counter", Guard: "only the requester may counter"}
	}
	if !req.IsOpen() {
		return ErrRequestClosed
	}
	if offer.GuestCounterPrice != nil {
		return ErrCounterAlreadySet
	}
	if offer.Mode != OfferModeNegotiable {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "counter", Guard: "offer is not negotiable"}
	}
	if offer.Status != OfferSent && offer.Status != OfferCountered {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "counter", Guard: "offer must be sent or countered"}
	}
	return nil
}

func CanRejectOffer(actor Actor, req *Request, offer *Offer) error {
	if req.CreatedByID != actor.ID {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "reject", Guard: "only the requester may reject"}
	}
	if !offer.IsLive() {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "reject", Guard: "offer must be sent, updated or countered"}
	}
	return nil
}

func CanWithdrawOffer(actor Actor, req *Request, offer *Offer) error {
	if offer.OffererID != actor.ID {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "withdraw", Guard: "only the offerer may withdraw"}
	}
	if offer.Status == OfferAccepted {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "withdraw", Guard: "accepted offers cannot be withdrawn"}
	}
	if !req.IsOpen() {
		return ErrRequestClosed
	}
	return nil
}

func CanAcceptOffer(actor Actor, req *Request, offer *Offer) error {
	if req.CreatedByID != actor.ID {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "accept", Guard: "only the requester may accept"}
	}
	if !req.IsOpen() {
		return ErrRequestClosed
	}
	if !offer.IsLive() {
		return InvalidTransition{Entity: "offer", From: string(offer.Status), Action: "accept", Guard: "offer must be sent, updated or countered"}
	}
	return nil
}

func CanCancelRequest(actor Actor, req *Request) error {
	if req.CreatedByID != actor.ID {
		return InvalidTransition{Entity: "request", From: string(req.Status), Action: "cancel", Guard: "only the requester may cancel"}
	}
	if !req.IsOpen() {
		return ErrRequestClosed
	}
	return nil
}

// ShouldExpireRequest reports whether a lazy read should flip the request to
// expired. Idempotent: a request already out of open never expires again.
func ShouldExpireRequest(req *Request, now time.Time) bool {
	if !req.IsOpen() {
		return false
	}
	return EvaluateDeadline(req.CreatedAt, req.ResponseDeadlineMinutes, now).Expired
}
