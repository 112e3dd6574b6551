package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubService returns canned results so the handler layer can be tested
// in isolation from the scheduling core.
type stubService struct {
	booking *models.Booking
	slots   []models.AvailableSlot
	list    []models.Booking
	err     error
}

func (s *stubService) CreateBooking(context.Context, booking.CreateBookingRequest) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubService) UpdateStatus(context.Context, booking.UpdateStatusRequest) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubService) Reschedule(context.Context, booking.RescheduleRequest) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubService) GetAvailability(context.Context, string, string) ([]models.AvailableSlot, error) {
	return s.slots, s.err
}

func (s *stubService) GetBooking(context.Context, string) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubService) GetBookingByNumber(context.Context, string) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubService) ListProviderDay(context.Context, string, string) ([]models.Booking, error) {
	return s.list, s.err
}

func (s *stubService) ListUserBookings(context.Context, string) ([]models.Booking, error) {
	return s.list, s.err
}

func newTestRouter(svc booking.BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.IdentityMiddleware())

	// Same paths the route registry wires in production.
	h := NewBookingHandler(svc, zap.NewNop())
	r.GET("/api/availability", h.GetAvailabilityHandler)
	r.POST("/api/bookings", h.CreateBookingHandler)
	r.GET("/api/bookings/me", h.ListMyBookingsHandler)
	r.GET("/api/bookings/number/:number", h.GetBookingByNumberHandler)
	r.GET("/api/bookings/:id", h.GetBookingHandler)
	r.PATCH("/api/bookings/:id/status", h.UpdateStatusHandler)
	r.POST("/api/bookings/:id/reschedule", h.RescheduleHandler)
	r.GET("/api/providers/:id/bookings", h.ListProviderDayHandler)
	return r
}

func doRequest(r *gin.Engine, method, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingHandlerSuccess(t *testing.T) {
	svc := &stubService{booking: &models.Booking{ID: "b1", BookingNumber: "GB-20250616-0001", Status: models.BookingPending}}
	r := newTestRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/bookings",
		`{"serviceId":"svc-1","date":"2025-06-16","start":"10:00"}`, "user-1")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "GB-20250616-0001")
}

func TestCreateBookingHandlerRejectsMalformedJSON(t *testing.T) {
	r := newTestRouter(&stubService{})

	w := doRequest(r, http.MethodPost, "/api/bookings", `{"serviceId":`, "user-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorTaxonomyStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &booking.ValidationError{Message: "bad date"}, http.StatusBadRequest},
		{"maintenance", &booking.MaintenanceError{Message: "down for maintenance"}, http.StatusServiceUnavailable},
		{"service unavailable", &booking.ServiceUnavailableError{Message: "no hours"}, http.StatusUnprocessableEntity},
		{"slot taken", &booking.SlotUnavailableError{Message: "slot taken"}, http.StatusConflict},
		{"bad transition", &booking.InvalidTransitionError{From: models.BookingCompleted, To: models.BookingPending}, http.StatusConflict},
		{"reschedule cap", &booking.RescheduleLimitExceededError{Limit: 3}, http.StatusUnprocessableEntity},
		{"not found", &booking.NotFoundError{Resource: "booking", ID: "ghost"}, http.StatusNotFound},
		{"storage", &booking.StorageError{Err: context.DeadlineExceeded}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubService{err: tc.err})
			w := doRequest(r, http.MethodPost, "/api/bookings",
				`{"serviceId":"svc-1","date":"2025-06-16","start":"10:00"}`, "user-1")
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestGetAvailabilityHandlerRequiresParams(t *testing.T) {
	r := newTestRouter(&stubService{})

	w := doRequest(r, http.MethodGet, "/api/availability?serviceId=svc-1", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/availability?date=2025-06-16", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAvailabilityHandlerSuccess(t *testing.T) {
	svc := &stubService{slots: []models.AvailableSlot{
		{Date: "2025-06-16", Start: 540, End: 600, Label: "09:00 - 10:00"},
	}}
	r := newTestRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/availability?serviceId=svc-1&date=2025-06-16", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "09:00 - 10:00")
}

func TestGetBookingByNumberHandler(t *testing.T) {
	svc := &stubService{booking: &models.Booking{ID: "b1", BookingNumber: "GB-20250616-0042"}}
	r := newTestRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/bookings/number/GB-20250616-0042", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GB-20250616-0042")

	r = newTestRouter(&stubService{err: &booking.NotFoundError{Resource: "booking", ID: "GB-x"}})
	w = doRequest(r, http.MethodGet, "/api/bookings/number/GB-x", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMyBookingsRequiresIdentity(t *testing.T) {
	r := newTestRouter(&stubService{})

	w := doRequest(r, http.MethodGet, "/api/bookings/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/api/bookings/me", "", "user-1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateStatusHandlerRequiresStatus(t *testing.T) {
	r := newTestRouter(&stubService{booking: &models.Booking{ID: "b1"}})

	w := doRequest(r, http.MethodPatch, "/api/bookings/b1/status", `{"reason":"x"}`, "user-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPatch, "/api/bookings/b1/status", `{"status":"CONFIRMED"}`, "user-1")
	assert.Equal(t, http.StatusOK, w.Code)
}
