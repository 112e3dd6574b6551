package booking

import (
	"context"

	"glowbook/models"
)

// CreateBookingRequest is the input for reserving a slot. Either UserID
// or Guest must be set. End time is never accepted from the caller; it
// is derived from the service duration.
type CreateBookingRequest struct {
	ServiceID string               `json:"serviceId"`
	UserID    string               `json:"-"` // from authenticated identity, not the payload
	Guest     *models.GuestContact `json:"guest,omitempty"`
	Date      string               `json:"date"`  // "YYYY-MM-DD"
	Start     string               `json:"start"` // "HH:MM"
	Notes     string               `json:"notes,omitempty"`
}

// UpdateStatusRequest is the input for a lifecycle transition.
type UpdateStatusRequest struct {
	BookingID string
	ActorID   string
	NewStatus models.BookingStatus
	Reason    string // required for CANCELLED
	Force     bool   // admin override for early completion
}

// RescheduleRequest moves a booking to a new interval; the duration is
// preserved from the original booking.
type RescheduleRequest struct {
	BookingID string
	NewDate   string `json:"newDate"`  // "YYYY-MM-DD"
	NewStart  string `json:"newStart"` // "HH:MM"
}

// BookingService orchestrates slot reservation: input validation, the
// maintenance gate, availability re-validation, atomic persistence, the
// state machine, and event emission.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*models.Booking, error)
	Reschedule(ctx context.Context, req RescheduleRequest) (*models.Booking, error)
	GetAvailability(ctx context.Context, serviceID, date string) ([]models.AvailableSlot, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	GetBookingByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error)
	ListProviderDay(ctx context.Context, providerID, date string) ([]models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
}
