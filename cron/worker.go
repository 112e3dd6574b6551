package cron

import (
	"context"
	"encoding/json"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	"glowbook/models"
	"glowbook/services/booking"
	"glowbook/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskTypeAutoComplete triggers the sweep that completes confirmed
// bookings whose interval has elapsed.
const TaskTypeAutoComplete = "booking:autocomplete"

// InitBookingWorker runs the async worker and the periodic scheduler in
// the background: booking events fan out to the notifier, and the
// auto-complete sweep drives CONFIRMED bookings to COMPLETED through
// the same UpdateStatus entry point the API uses.
func InitBookingWorker(
	redisOpt asynq.RedisClientOpt,
	notifier notification.Notifier,
	svc booking.BookingService,
	repo bookingRepo.BookingRepository,
	logger *zap.Logger,
) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TaskTypeBookingEvent, handleBookingEvent(notifier, logger))
	mux.HandleFunc(TaskTypeAutoComplete, handleAutoComplete(svc, repo, logger))

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 10m", asynq.NewTask(TaskTypeAutoComplete, nil)); err != nil {
		logger.Error("failed to register auto-complete schedule", zap.Error(err))
	}

	go func() {
		logger.Info("starting booking worker")
		if err := srv.Run(mux); err != nil {
			logger.Fatal("booking worker failed", zap.Error(err))
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("booking scheduler failed", zap.Error(err))
		}
	}()
}

func handleBookingEvent(notifier notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var event models.BookingEvent
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			logger.Error("invalid booking event payload", zap.Error(err))
			return err
		}
		return notifier.NotifyBookingEvent(ctx, event)
	}
}

func handleAutoComplete(svc booking.BookingService, repo bookingRepo.BookingRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		now := time.Now()
		date := now.Format("2006-01-02")
		minutes := now.Hour()*60 + now.Minute()

		ended, err := repo.ListConfirmedEndedBefore(ctx, date, minutes)
		if err != nil {
			logger.Error("auto-complete sweep: listing failed", zap.Error(err))
			return err
		}

		for _, b := range ended {
			_, err := svc.UpdateStatus(ctx, booking.UpdateStatusRequest{
				BookingID: b.ID,
				ActorID:   "system",
				NewStatus: models.BookingCompleted,
			})
			if err != nil {
				// One stuck booking must not starve the rest of the sweep.
				logger.Error("auto-complete sweep: transition failed",
					zap.String("bookingId", b.ID), zap.Error(err))
			}
		}

		if len(ended) > 0 {
			logger.Info("auto-complete sweep finished", zap.Int("candidates", len(ended)))
		}
		return nil
	}
}
