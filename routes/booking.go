package routes

import (
	"glowbook/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking core.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/availability", hb.GetAvailability)

		bookings := api.Group("/bookings")
		{
			bookings.POST("", hb.CreateBooking)
			bookings.GET("/me", hb.ListMyBookings)
			bookings.GET("/number/:number", hb.GetBookingByNumber)
			bookings.GET("/:id", hb.GetBooking)
			bookings.PATCH("/:id/status", hb.UpdateStatus)
			bookings.POST("/:id/reschedule", hb.Reschedule)
		}

		api.GET("/providers/:id/bookings", hb.ListProviderDay)
	}
}
