package handlers

import (
	"errors"
	"net/http"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/booking"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking core over HTTP.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// CreateBookingHandler reserves a slot. Registered users are identified
// by the identity middleware; guests supply contact details in the body.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.UserID = middleware.UserIDFromContext(c)

	created, err := h.Svc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": created})
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	found, err := h.Svc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": found})
}

// GetBookingByNumberHandler looks a booking up by its human-readable
// reference, e.g. "GB-20250616-0042".
func (h *BookingHandler) GetBookingByNumberHandler(c *gin.Context) {
	found, err := h.Svc.GetBookingByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": found})
}

// UpdateStatusHandler applies a lifecycle transition.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
		Force  bool   `json:"force"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	updated, err := h.Svc.UpdateStatus(c.Request.Context(), booking.UpdateStatusRequest{
		BookingID: c.Param("id"),
		ActorID:   middleware.UserIDFromContext(c),
		NewStatus: models.BookingStatus(body.Status),
		Reason:    body.Reason,
		Force:     body.Force,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": updated})
}

func (h *BookingHandler) RescheduleHandler(c *gin.Context) {
	var req booking.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.BookingID = c.Param("id")

	updated, err := h.Svc.Reschedule(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": updated})
}

// GetAvailabilityHandler returns free slots for a service on a date.
func (h *BookingHandler) GetAvailabilityHandler(c *gin.Context) {
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if serviceID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "serviceId and date query parameters are required")
		return
	}

	slots, err := h.Svc.GetAvailability(c.Request.Context(), serviceID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

func (h *BookingHandler) ListProviderDayHandler(c *gin.Context) {
	bookings, err := h.Svc.ListProviderDay(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "no user identity on request")
		return
	}

	bookings, err := h.Svc.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var (
		validationErr  *booking.ValidationError
		maintenanceErr *booking.MaintenanceError
		unavailableErr *booking.ServiceUnavailableError
		slotErr        *booking.SlotUnavailableError
		transitionErr  *booking.InvalidTransitionError
		limitErr       *booking.RescheduleLimitExceededError
		notFoundErr    *booking.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", validationErr.Message)
	case errors.As(err, &maintenanceErr):
		utils.JSONError(c, http.StatusServiceUnavailable, maintenanceErr.Message, "")
	case errors.As(err, &unavailableErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, "service unavailable", unavailableErr.Message)
	case errors.As(err, &slotErr):
		utils.JSONError(c, http.StatusConflict, slotErr.Message, "")
	case errors.As(err, &transitionErr):
		utils.JSONError(c, http.StatusConflict, "illegal status transition", transitionErr.Error())
	case errors.As(err, &limitErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, "reschedule limit reached", limitErr.Error())
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "not found", notFoundErr.Error())
	default:
		h.Logger.Error("booking request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "the request could not be processed")
	}
}
