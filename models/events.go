package models

import "time"

// Booking event types emitted for notification fan-out.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingRescheduled   = "booking.rescheduled"
)

// BookingEvent is the payload handed to the event sink after every
// successful state-changing operation. Delivery is fire-and-forget.
type BookingEvent struct {
	Type       string            `json:"type"`
	BookingID  string            `json:"bookingId"`
	OccurredAt time.Time         `json:"occurredAt"`
	Payload    map[string]string `json:"payload,omitempty"`
}
