package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the route handlers wired in main.
type HandlerBundle struct {
	// Booking endpoints.
	CreateBooking      gin.HandlerFunc
	GetBooking         gin.HandlerFunc
	GetBookingByNumber gin.HandlerFunc
	UpdateStatus       gin.HandlerFunc
	Reschedule         gin.HandlerFunc
	GetAvailability    gin.HandlerFunc
	ListProviderDay    gin.HandlerFunc
	ListMyBookings     gin.HandlerFunc
}
