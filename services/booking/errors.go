package booking

import (
	"fmt"

	"glowbook/models"
)

// ValidationError reports malformed input: missing required fields,
// cancellation without a reason, unparseable dates. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validationError: %s", e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MaintenanceError means booking creation is globally disabled. Message
// is the operator-configured text, surfaced verbatim to the caller.
type MaintenanceError struct {
	Message string
}

func (e *MaintenanceError) Error() string {
	return fmt.Sprintf("maintenanceError: %s", e.Message)
}

// ServiceUnavailableError means the target service or provider is not
// bookable (catalog flag off, or no working hours defined).
type ServiceUnavailableError struct {
	Message string
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("serviceUnavailableError: %s", e.Message)
}

// SlotUnavailableError means the requested interval is taken or was just
// taken by a concurrent writer. Carries a human-readable message; the
// caller is expected to retry against fresh availability.
type SlotUnavailableError struct {
	Message string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slotUnavailableError: %s", e.Message)
}

// InvalidTransitionError reports an illegal state-machine transition.
// Always a caller bug, never retried.
type InvalidTransitionError struct {
	From models.BookingStatus
	To   models.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalidTransitionError: cannot transition from %s to %s", e.From, e.To)
}

// RescheduleLimitExceededError means the reschedule cap was reached.
type RescheduleLimitExceededError struct {
	Limit int
}

func (e *RescheduleLimitExceededError) Error() string {
	return fmt.Sprintf("rescheduleLimitExceededError: booking was already rescheduled %d times", e.Limit)
}

// NotFoundError means a booking, service, or provider id did not resolve.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("notFoundError: %s %s not found", e.Resource, e.ID)
}

// StorageError wraps a non-transient persistence failure. Fatal to the
// request, not to the process.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storageError: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
