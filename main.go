package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowbook/config"
	"glowbook/cron"
	"glowbook/database"
	bookingRepo "glowbook/database/repository/booking"
	catalogRepo "glowbook/database/repository/catalog"
	"glowbook/handlers"
	"glowbook/middleware"
	"glowbook/routes"
	"glowbook/services/booking"
	"glowbook/services/maintenance"
	"glowbook/services/notification"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.IdentityMiddleware())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	catalog := catalogRepo.NewMongoCatalogRepo()

	// external boundaries.
	gate := &maintenance.RedisGate{
		Client:          utils.GetCacheClient(),
		Logger:          logger,
		FallbackEnabled: config.AppConfig.BookingDisabled,
		FallbackMessage: config.AppConfig.BookingDisabledMessage,
	}
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	events := notification.NewAsynqEventSink(redisOpt, logger)
	defer events.Close()

	// services.
	engine := &booking.AvailabilityEngine{
		Bookings:    bookings,
		Catalog:     catalog,
		Granularity: config.AppConfig.SlotGranularityMin,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:            bookings,
		Catalog:         catalog,
		Gate:            gate,
		Events:          events,
		Numbers:         &booking.RedisNumberSource{Client: utils.GetCacheClient()},
		Engine:          engine,
		RescheduleLimit: config.AppConfig.RescheduleLimit,
		Logger:          logger,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateBooking:      bookingHandler.CreateBookingHandler,
		GetBooking:         bookingHandler.GetBookingHandler,
		GetBookingByNumber: bookingHandler.GetBookingByNumberHandler,
		UpdateStatus:       bookingHandler.UpdateStatusHandler,
		Reschedule:         bookingHandler.RescheduleHandler,
		GetAvailability:    bookingHandler.GetAvailabilityHandler,
		ListProviderDay:    bookingHandler.ListProviderDayHandler,
		ListMyBookings:     bookingHandler.ListMyBookingsHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background worker: notification fan-out + auto-complete sweep.
	notifier := &notification.LogNotifier{Logger: logger}
	cron.InitBookingWorker(redisOpt, notifier, bookingService, bookings, logger)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
