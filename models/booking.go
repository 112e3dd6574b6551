package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// IsTerminal reports whether the status admits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// Active reports whether the booking still occupies its time slot.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// GuestContact identifies a client without an account.
type GuestContact struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// ClientIdentity is either a registered user or a guest with contact
// details; exactly one side is set.
type ClientIdentity struct {
	UserID string        `bson:"userId,omitempty" json:"userId,omitempty"`
	Guest  *GuestContact `bson:"guest,omitempty" json:"guest,omitempty"`
}

// Registered reports whether the identity is an authenticated user.
func (c ClientIdentity) Registered() bool {
	return c.UserID != ""
}

// Valid checks that exactly one identity variant is populated.
func (c ClientIdentity) Valid() bool {
	if c.UserID != "" {
		return c.Guest == nil
	}
	return c.Guest != nil && c.Guest.Name != "" && c.Guest.Phone != ""
}

// Booking represents a reserved time interval with a provider.
type Booking struct {
	ID                 string         `bson:"id" json:"id"`                       // unique booking identifier (UUID)
	BookingNumber      string         `bson:"bookingNumber" json:"bookingNumber"` // human-readable reference, unique
	ServiceID          string         `bson:"serviceId" json:"serviceId"`         // service being booked
	ProviderID         string         `bson:"providerId" json:"providerId"`       // resource being scheduled (derived from service)
	Client             ClientIdentity `bson:"client" json:"client"`               // registered user or guest contact
	Date               string         `bson:"date" json:"date"`                   // "YYYY-MM-DD"
	Start              int            `bson:"start" json:"start"`                 // minutes from midnight
	End                int            `bson:"end" json:"end"`                     // derived: start + service duration
	Status             BookingStatus  `bson:"status" json:"status"`
	CancellationReason string         `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	RescheduleCount    int            `bson:"rescheduleCount" json:"rescheduleCount"`
	ReminderSent       bool           `bson:"reminderSent" json:"reminderSent"` // owned by the external reminder job; reset on reschedule
	Notes              string         `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// Overlaps tests two half-open intervals [aStart, aEnd) and [bStart, bEnd).
// Abutting intervals (end == start) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
