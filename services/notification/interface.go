package notification

import (
	"context"

	"glowbook/models"
)

// EventSink receives booking domain events for notification fan-out.
// Delivery is fire-and-forget with at-least-once semantics: duplicate
// notifications are tolerable, lost state transitions are not — which
// is why the booking core persists first and emits after.
type EventSink interface {
	Emit(ctx context.Context, event models.BookingEvent) error
}

// Notifier turns a booking event into user/provider-facing messages.
// Push delivery itself (FCM, SMS) is an external collaborator; this
// boundary is what the worker fans out to.
type Notifier interface {
	NotifyBookingEvent(ctx context.Context, event models.BookingEvent) error
}
