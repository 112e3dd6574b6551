package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	catalogRepo "glowbook/database/repository/catalog"
	"glowbook/models"

	"go.uber.org/zap"
)

// memBookingRepo is an in-memory BookingRepository honoring the same
// contract as the Mongo implementation: conflict check and write are
// indivisible under one lock, so racing writers are serialized.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) InsertIfNoOverlap(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.ProviderID == booking.ProviderID && b.Date == booking.Date &&
			b.Status.Active() && models.Overlaps(b.Start, b.End, booking.Start, booking.End) {
			return bookingRepo.ErrSlotTaken
		}
		if b.BookingNumber == booking.BookingNumber {
			return bookingRepo.ErrDuplicateNumber
		}
	}
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *memBookingRepo) RescheduleIfNoOverlap(_ context.Context, bookingID, newDate string, newStart, newEnd, maxCount int) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if !target.Status.Active() {
		return nil, bookingRepo.ErrStatusConflict
	}
	if target.RescheduleCount >= maxCount {
		return nil, bookingRepo.ErrRescheduleLimit
	}
	for _, b := range r.bookings {
		if b.ID == bookingID {
			continue
		}
		if b.ProviderID == target.ProviderID && b.Date == newDate &&
			b.Status.Active() && models.Overlaps(b.Start, b.End, newStart, newEnd) {
			return nil, bookingRepo.ErrSlotTaken
		}
	}
	target.Date = newDate
	target.Start = newStart
	target.End = newEnd
	target.RescheduleCount++
	target.ReminderSent = false
	target.UpdatedAt = time.Now()
	clone := *target
	return &clone, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, bookingID string, from, to models.BookingStatus, reason string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if target.Status != from {
		return nil, bookingRepo.ErrStatusConflict
	}
	target.Status = to
	if reason != "" {
		target.CancellationReason = reason
	}
	target.UpdatedAt = time.Now()
	clone := *target
	return &clone, nil
}

func (r *memBookingRepo) GetByID(_ context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memBookingRepo) GetByNumber(_ context.Context, bookingNumber string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.BookingNumber == bookingNumber {
			clone := *b
			return &clone, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *memBookingRepo) ListActiveForProviderDate(_ context.Context, providerID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Date == date && b.Status.Active() {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *memBookingRepo) ListForUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.Client.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListConfirmedEndedBefore(_ context.Context, date string, minutes int) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status != models.BookingConfirmed {
			continue
		}
		if b.Date < date || (b.Date == date && b.End <= minutes) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// snapshotRaceRepo commits a competing write right after the service
// reads its snapshot of the booking, so a test can interleave a stale
// snapshot with a concurrent committed transition.
type snapshotRaceRepo struct {
	*memBookingRepo
	once      sync.Once
	afterRead func()
}

func (r *snapshotRaceRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := r.memBookingRepo.GetByID(ctx, bookingID)
	r.once.Do(r.afterRead)
	return b, err
}

// memCatalog is a fixed catalog read model.
type memCatalog struct {
	services  map[string]*models.ServiceOffering
	providers map[string]*models.Provider
}

func (c *memCatalog) GetService(_ context.Context, serviceID string) (*models.ServiceOffering, error) {
	svc, ok := c.services[serviceID]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return svc, nil
}

func (c *memCatalog) GetProvider(_ context.Context, providerID string) (*models.Provider, error) {
	p, ok := c.providers[providerID]
	if !ok {
		return nil, catalogRepo.ErrProviderNotFound
	}
	return p, nil
}

// stubGate is a fixed maintenance gate.
type stubGate struct {
	disabled bool
	message  string
}

func (g *stubGate) IsBookingDisabled(context.Context) (bool, string) {
	return g.disabled, g.message
}

// captureSink records emitted events.
type captureSink struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func (s *captureSink) Emit(_ context.Context, event models.BookingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) all() []models.BookingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BookingEvent(nil), s.events...)
}

// seqNumbers issues deterministic booking numbers.
type seqNumbers struct {
	mu sync.Mutex
	n  int
}

func (s *seqNumbers) Next(context.Context, string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("GB-TEST-%04d", s.n), nil
}

// Test fixture around a fully wired DefaultBookingService.
//
// testDay is a Monday; all providers work Mondays 09:00-18:00 unless a
// test says otherwise.
const (
	testDay      = "2025-06-16"
	testProvider = "prov-1"
	testService  = "svc-1"
)

var testNow = time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *memBookingRepo
	catalog *memCatalog
	gate    *stubGate
	sink    *captureSink
	svc     *DefaultBookingService
}

func newFixture() *fixture {
	repo := newMemBookingRepo()
	catalog := &memCatalog{
		services: map[string]*models.ServiceOffering{
			testService: {ID: testService, ProviderID: testProvider, Name: "Classic Facial", DurationMinutes: 60, Available: true},
		},
		providers: map[string]*models.Provider{
			testProvider: {ID: testProvider, Name: "Ava", Hours: []models.WorkingWindow{
				{Weekday: int(time.Monday), Start: 9 * 60, End: 18 * 60},
			}},
		},
	}
	gate := &stubGate{}
	sink := &captureSink{}

	engine := &AvailabilityEngine{
		Bookings:    repo,
		Catalog:     catalog,
		Granularity: 15,
		Now:         func() time.Time { return testNow },
	}
	svc := &DefaultBookingService{
		Repo:            repo,
		Catalog:         catalog,
		Gate:            gate,
		Events:          sink,
		Numbers:         &seqNumbers{},
		Engine:          engine,
		RescheduleLimit: 3,
		Logger:          zap.NewNop(),
		Now:             func() time.Time { return testNow },
	}
	return &fixture{repo: repo, catalog: catalog, gate: gate, sink: sink, svc: svc}
}
