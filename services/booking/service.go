package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	catalogRepo "glowbook/database/repository/catalog"
	"glowbook/models"
	"glowbook/services/maintenance"
	"glowbook/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRescheduleLimit = 3

// DefaultBookingService is the production implementation of
// BookingService.
type DefaultBookingService struct {
	Repo            bookingRepo.BookingRepository
	Catalog         catalogRepo.CatalogRepository
	Gate            maintenance.Gate
	Events          notification.EventSink
	Numbers         NumberSource
	Engine          *AvailabilityEngine
	RescheduleLimit int
	Logger          *zap.Logger
	Now             func() time.Time // injectable clock
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) rescheduleLimit() int {
	if s.RescheduleLimit > 0 {
		return s.RescheduleLimit
	}
	return defaultRescheduleLimit
}

// CreateBooking reserves a slot: gate check, catalog lookup, fresh
// availability re-validation, then the repository's atomic
// conflict-checked insert. The end time is always derived from the
// service duration; anything the caller sends for it is ignored.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if req.ServiceID == "" {
		return nil, NewValidationError("serviceId is required")
	}
	identity := models.ClientIdentity{UserID: req.UserID, Guest: req.Guest}
	if !identity.Valid() {
		return nil, NewValidationError("either an authenticated user or guest name and phone are required")
	}
	start, err := parseClock(req.Start)
	if err != nil {
		return nil, err
	}

	if disabled, msg := s.Gate.IsBookingDisabled(ctx); disabled {
		return nil, &MaintenanceError{Message: msg}
	}

	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// Re-validate at write time rather than trusting whatever
	// availability the client rendered earlier.
	slots, err := s.Engine.FreeSlots(ctx, svc.ProviderID, svc.DurationMinutes, req.Date)
	if err != nil {
		return nil, err
	}
	if !slotExists(slots, start) {
		return nil, &SlotUnavailableError{Message: "The requested time is not available. Please pick another slot."}
	}

	number, err := s.Numbers.Next(ctx, req.Date)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	now := s.now()
	booking := &models.Booking{
		ID:            uuid.New().String(),
		BookingNumber: number,
		ServiceID:     svc.ID,
		ProviderID:    svc.ProviderID,
		Client:        identity,
		Date:          req.Date,
		Start:         start,
		End:           start + svc.DurationMinutes,
		Status:        models.BookingPending,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.InsertIfNoOverlap(ctx, booking); err != nil {
		if err == bookingRepo.ErrDuplicateNumber {
			// Counter collision after a Redis reset; one fresh number is
			// enough, the unique index keeps us honest.
			if booking.BookingNumber, err = s.Numbers.Next(ctx, req.Date); err != nil {
				return nil, &StorageError{Err: err}
			}
			err = s.Repo.InsertIfNoOverlap(ctx, booking)
		}
		if err != nil {
			return nil, translateRepoErr(err, booking.ID)
		}
	}

	s.emit(ctx, models.EventBookingCreated, booking, map[string]string{
		"providerId": booking.ProviderID,
		"serviceId":  booking.ServiceID,
		"date":       booking.Date,
		"start":      models.ClockLabel(booking.Start),
		"end":        models.ClockLabel(booking.End),
	})
	return booking, nil
}

// UpdateStatus applies a lifecycle transition through the state machine
// and persists it.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*models.Booking, error) {
	current, err := s.Repo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, translateRepoErr(err, req.BookingID)
	}

	if err := ValidateTransition(current, TransitionRequest{
		To:     req.NewStatus,
		Reason: req.Reason,
		Force:  req.Force,
		Now:    s.now(),
	}); err != nil {
		return nil, err
	}

	reason := ""
	if req.NewStatus == models.BookingCancelled {
		reason = req.Reason
	}
	// The write is pinned to the status we validated against; if another
	// transition committed in between, re-validate against the fresh row.
	updated, err := s.Repo.UpdateStatus(ctx, req.BookingID, current.Status, req.NewStatus, reason)
	if err != nil {
		if err == bookingRepo.ErrStatusConflict {
			fresh, getErr := s.Repo.GetByID(ctx, req.BookingID)
			if getErr != nil {
				return nil, translateRepoErr(getErr, req.BookingID)
			}
			return nil, &InvalidTransitionError{From: fresh.Status, To: req.NewStatus}
		}
		return nil, translateRepoErr(err, req.BookingID)
	}

	s.emit(ctx, models.EventBookingStatusChanged, updated, map[string]string{
		"from":    string(current.Status),
		"to":      string(updated.Status),
		"actorId": req.ActorID,
		"reason":  reason,
	})
	return updated, nil
}

// Reschedule moves an active booking to a new interval, preserving its
// duration and status. The overlap check excludes the booking's own
// current row.
func (s *DefaultBookingService) Reschedule(ctx context.Context, req RescheduleRequest) (*models.Booking, error) {
	current, err := s.Repo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, translateRepoErr(err, req.BookingID)
	}
	if err := CanReschedule(current); err != nil {
		return nil, err
	}
	if current.RescheduleCount >= s.rescheduleLimit() {
		return nil, &RescheduleLimitExceededError{Limit: s.rescheduleLimit()}
	}

	newStart, err := parseClock(req.NewStart)
	if err != nil {
		return nil, err
	}
	duration := current.End - current.Start

	slots, err := s.Engine.freeSlots(ctx, current.ProviderID, duration, req.NewDate, current.ID)
	if err != nil {
		return nil, err
	}
	if !slotExists(slots, newStart) {
		return nil, &SlotUnavailableError{Message: "The requested time is not available. Please pick another slot."}
	}

	updated, err := s.Repo.RescheduleIfNoOverlap(ctx, current.ID, req.NewDate, newStart, newStart+duration, s.rescheduleLimit())
	if err != nil {
		switch err {
		case bookingRepo.ErrRescheduleLimit:
			return nil, &RescheduleLimitExceededError{Limit: s.rescheduleLimit()}
		case bookingRepo.ErrStatusConflict:
			fresh, getErr := s.Repo.GetByID(ctx, current.ID)
			if getErr != nil {
				return nil, translateRepoErr(getErr, current.ID)
			}
			return nil, &InvalidTransitionError{From: fresh.Status, To: fresh.Status}
		}
		return nil, translateRepoErr(err, current.ID)
	}

	s.emit(ctx, models.EventBookingRescheduled, updated, map[string]string{
		"fromDate":        current.Date,
		"fromStart":       models.ClockLabel(current.Start),
		"toDate":          updated.Date,
		"toStart":         models.ClockLabel(updated.Start),
		"rescheduleCount": strconv.Itoa(updated.RescheduleCount),
	})
	return updated, nil
}

// GetAvailability is a read-only pass-through to the availability engine.
func (s *DefaultBookingService) GetAvailability(ctx context.Context, serviceID, date string) ([]models.AvailableSlot, error) {
	svc, err := s.lookupService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return s.Engine.FreeSlots(ctx, svc.ProviderID, svc.DurationMinutes, date)
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translateRepoErr(err, bookingID)
	}
	return booking, nil
}

// GetBookingByNumber resolves a booking by its human-readable reference,
// the one printed on confirmations.
func (s *DefaultBookingService) GetBookingByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error) {
	if bookingNumber == "" {
		return nil, NewValidationError("bookingNumber is required")
	}
	booking, err := s.Repo.GetByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, translateRepoErr(err, bookingNumber)
	}
	return booking, nil
}

func (s *DefaultBookingService) ListProviderDay(ctx context.Context, providerID, date string) ([]models.Booking, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, NewValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}
	bookings, err := s.Repo.ListActiveForProviderDate(ctx, providerID, date)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, NewValidationError("userId is required")
	}
	bookings, err := s.Repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return bookings, nil
}

// lookupService resolves a catalog service and checks it is bookable.
func (s *DefaultBookingService) lookupService(ctx context.Context, serviceID string) (*models.ServiceOffering, error) {
	svc, err := s.Catalog.GetService(ctx, serviceID)
	if err != nil {
		if err == catalogRepo.ErrServiceNotFound {
			return nil, &NotFoundError{Resource: "service", ID: serviceID}
		}
		return nil, &StorageError{Err: fmt.Errorf("fetch service: %w", err)}
	}
	if !svc.Available {
		return nil, &ServiceUnavailableError{Message: fmt.Sprintf("%s is currently not accepting bookings", svc.Name)}
	}
	if svc.DurationMinutes <= 0 {
		return nil, NewValidationError("service %s has no valid duration", serviceID)
	}
	return svc, nil
}

// emit publishes exactly one event per successful mutation. Emission is
// fire-and-forget: a sink failure is logged, never surfaced, because the
// state transition has already been durably persisted.
func (s *DefaultBookingService) emit(ctx context.Context, eventType string, booking *models.Booking, payload map[string]string) {
	event := models.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		OccurredAt: s.now(),
		Payload:    payload,
	}
	if err := s.Events.Emit(ctx, event); err != nil {
		s.Logger.Error("failed to emit booking event",
			zap.String("type", eventType),
			zap.String("bookingId", booking.ID),
			zap.Error(err))
	}
}

func translateRepoErr(err error, bookingID string) error {
	switch err {
	case bookingRepo.ErrSlotTaken:
		return &SlotUnavailableError{Message: "This slot was just taken. Please pick another time."}
	case bookingRepo.ErrNotFound:
		return &NotFoundError{Resource: "booking", ID: bookingID}
	default:
		return &StorageError{Err: err}
	}
}

func slotExists(slots []models.AvailableSlot, start int) bool {
	for _, slot := range slots {
		if slot.Start == start {
			return true
		}
	}
	return false
}

// parseClock converts "HH:MM" to minutes from midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, NewValidationError("invalid time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, NewValidationError("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, NewValidationError("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}
