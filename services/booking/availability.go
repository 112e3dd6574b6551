package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	catalogRepo "glowbook/database/repository/catalog"
	"glowbook/models"
)

const defaultGranularity = 15 // minutes

// AvailabilityEngine computes free, bookable slots for a provider by
// sweeping the provider's working window and subtracting active
// bookings. Reads are not linearizable with concurrent writes; the
// repository's conflict-checked write is the final authority.
type AvailabilityEngine struct {
	Bookings    bookingRepo.BookingRepository
	Catalog     catalogRepo.CatalogRepository
	Granularity int              // slot alignment in minutes; defaults to 15
	Now         func() time.Time // injectable clock
}

func (e *AvailabilityEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *AvailabilityEngine) granularity() int {
	if e.Granularity > 0 {
		return e.Granularity
	}
	return defaultGranularity
}

// FreeSlots returns the chronologically ordered candidate slots of
// durationMinutes on the given date for the provider.
func (e *AvailabilityEngine) FreeSlots(ctx context.Context, providerID string, durationMinutes int, date string) ([]models.AvailableSlot, error) {
	return e.freeSlots(ctx, providerID, durationMinutes, date, "")
}

// freeSlots is FreeSlots with an optional booking id excluded from the
// subtraction, used when validating a reschedule against everything but
// the booking's own current row.
func (e *AvailabilityEngine) freeSlots(ctx context.Context, providerID string, durationMinutes int, date, excludeBookingID string) ([]models.AvailableSlot, error) {
	if durationMinutes <= 0 {
		return nil, NewValidationError("service duration must be positive, got %d", durationMinutes)
	}

	now := e.now()
	day, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return nil, NewValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}

	// No retroactive booking: a date entirely in the past has no slots.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return nil, nil
	}

	provider, err := e.Catalog.GetProvider(ctx, providerID)
	if err != nil {
		if err == catalogRepo.ErrProviderNotFound {
			return nil, &NotFoundError{Resource: "provider", ID: providerID}
		}
		return nil, &StorageError{Err: fmt.Errorf("fetch provider: %w", err)}
	}

	window, ok := provider.WindowFor(int(day.Weekday()))
	if !ok {
		return nil, &ServiceUnavailableError{Message: fmt.Sprintf("provider %s is not bookable on %s", providerID, day.Weekday())}
	}

	booked, err := e.Bookings.ListActiveForProviderDate(ctx, providerID, date)
	if err != nil {
		return nil, &StorageError{Err: fmt.Errorf("list bookings: %w", err)}
	}

	free := subtractBookings(window, booked, excludeBookingID)

	// For today, slots that already started are gone.
	minStart := 0
	if day.Equal(today) {
		minStart = now.Hour()*60 + now.Minute()
	}

	return sliceIntervals(free, date, durationMinutes, e.granularity(), minStart), nil
}

// subtractBookings sweeps the working window and carves out every
// active booked interval, returning the remaining free intervals in
// chronological order. Abutting bookings (end == start) do not
// fragment availability.
func subtractBookings(window models.WorkingWindow, booked []models.Booking, excludeBookingID string) []models.FreeInterval {
	cursor := window.Start
	var free []models.FreeInterval

	for _, b := range booked {
		if b.ID == excludeBookingID {
			continue
		}
		if !models.Overlaps(b.Start, b.End, window.Start, window.End) {
			continue
		}
		if b.Start > cursor {
			free = append(free, models.FreeInterval{Start: cursor, End: minInt(b.Start, window.End)})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}

	if cursor < window.End {
		free = append(free, models.FreeInterval{Start: cursor, End: window.End})
	}
	return free
}

// sliceIntervals cuts free intervals into granularity-aligned candidate
// slots of at least durationMinutes. Slots starting before minStart are
// dropped.
func sliceIntervals(free []models.FreeInterval, date string, durationMinutes, granularity, minStart int) []models.AvailableSlot {
	var slots []models.AvailableSlot
	for _, iv := range free {
		start := alignUp(maxInt(iv.Start, minStart), granularity)
		for start+durationMinutes <= iv.End {
			slots = append(slots, models.AvailableSlot{
				Date:  date,
				Start: start,
				End:   start + durationMinutes,
				Label: fmt.Sprintf("%s - %s", models.ClockLabel(start), models.ClockLabel(start+durationMinutes)),
			})
			start += granularity
		}
	}
	return slots
}

// alignUp rounds n up to the next multiple of granularity.
func alignUp(n, granularity int) int {
	if rem := n % granularity; rem != 0 {
		return n + granularity - rem
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
