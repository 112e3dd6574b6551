package bookingRepo

import (
	"context"
	"errors"

	"glowbook/models"
)

// Sentinel errors surfaced by the repository; the booking service maps
// them onto its user-facing error taxonomy.
var (
	// ErrSlotTaken means the conflict-checked write lost the race: an
	// active booking already occupies an overlapping interval.
	ErrSlotTaken = errors.New("time slot already taken")
	// ErrNotFound means no booking matches the given id.
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicateNumber means the bookingNumber uniqueness constraint fired.
	ErrDuplicateNumber = errors.New("booking number already exists")
	// ErrStatusConflict means the booking's status changed between the
	// caller's snapshot and the conditional write.
	ErrStatusConflict = errors.New("booking status changed concurrently")
	// ErrRescheduleLimit means the conditional write found the reschedule
	// counter already at its cap.
	ErrRescheduleLimit = errors.New("reschedule limit reached")
)

// BookingRepository is the durable store of bookings. Implementations
// must make the overlap check and the write indivisible per provider:
// of two racing writes for overlapping intervals on the same provider,
// exactly one succeeds and the other observes ErrSlotTaken.
type BookingRepository interface {
	// InsertIfNoOverlap persists the booking unless an active
	// (PENDING/CONFIRMED) booking for the same provider overlaps it.
	InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error

	// RescheduleIfNoOverlap moves the booking to the new interval unless
	// another active booking for the provider overlaps it. The booking's
	// own row is excluded from the conflict check. The write only lands
	// while the booking is still active and its reschedule counter is
	// below maxCount; counter and reminder updates are part of the same
	// atomic step. Returns ErrRescheduleLimit when the counter is at the
	// cap and ErrStatusConflict when the booking is no longer active.
	RescheduleIfNoOverlap(ctx context.Context, bookingID, newDate string, newStart, newEnd, maxCount int) (*models.Booking, error)

	// UpdateStatus sets the status (and cancellation reason, if any) and
	// returns the updated booking. The write is conditional on the status
	// still being `from`; if another writer moved the booking first, the
	// update does not land and ErrStatusConflict is returned.
	UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, reason string) (*models.Booking, error)

	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error)

	// ListActiveForProviderDate returns PENDING/CONFIRMED bookings for a
	// provider on a date, ordered by start time.
	ListActiveForProviderDate(ctx context.Context, providerID, date string) ([]models.Booking, error)

	ListForUser(ctx context.Context, userID string) ([]models.Booking, error)

	// ListConfirmedEndedBefore returns CONFIRMED bookings whose interval
	// ended before the given moment (a date plus minutes from midnight);
	// feed for the auto-complete sweep.
	ListConfirmedEndedBefore(ctx context.Context, date string, minutes int) ([]models.Booking, error)
}
