package booking

import (
	"time"

	"glowbook/models"
)

// transitions is the explicit lifecycle table. PENDING and CONFIRMED can
// be cancelled; CONFIRMED can complete; terminal states go nowhere.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCancelled, models.BookingCompleted},
	models.BookingCancelled: {},
	models.BookingCompleted: {},
}

// CanTransition checks the table; it knows nothing about preconditions.
func CanTransition(from, to models.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionRequest carries a requested status change and its context.
type TransitionRequest struct {
	To     models.BookingStatus
	Reason string // required for CANCELLED
	Force  bool   // admin override for completing before the interval ends
	Now    time.Time
}

// ValidateTransition checks both table legality and per-transition
// preconditions for the given booking. A nil return means the
// transition may be persisted.
func ValidateTransition(b *models.Booking, req TransitionRequest) error {
	if !CanTransition(b.Status, req.To) {
		return &InvalidTransitionError{From: b.Status, To: req.To}
	}

	switch req.To {
	case models.BookingCancelled:
		if req.Reason == "" {
			return NewValidationError("cancellation requires a reason")
		}
	case models.BookingCompleted:
		if !req.Force && !intervalEnded(b, req.Now) {
			return NewValidationError("booking %s has not ended yet", b.ID)
		}
	}
	return nil
}

// CanReschedule reports whether the booking may be moved: reschedule is
// status-preserving and only legal while the booking is still active.
func CanReschedule(b *models.Booking) error {
	if !b.Status.Active() {
		return &InvalidTransitionError{From: b.Status, To: b.Status}
	}
	return nil
}

// intervalEnded reports whether the booked interval lies fully in the past.
func intervalEnded(b *models.Booking, now time.Time) bool {
	day, err := time.ParseInLocation("2006-01-02", b.Date, now.Location())
	if err != nil {
		return false
	}
	end := day.Add(time.Duration(b.End) * time.Minute)
	return !end.After(now)
}
