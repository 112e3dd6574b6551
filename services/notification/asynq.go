package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"glowbook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskTypeBookingEvent is the asynq task carrying one booking event.
const TaskTypeBookingEvent = "booking:event"

// AsynqEventSink enqueues booking events onto the task queue consumed
// by the notification worker.
type AsynqEventSink struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqEventSink(redisOpt asynq.RedisClientOpt, logger *zap.Logger) *AsynqEventSink {
	return &AsynqEventSink{
		Client: asynq.NewClient(redisOpt),
		Logger: logger,
	}
}

func (s *AsynqEventSink) Emit(ctx context.Context, event models.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	task := asynq.NewTask(TaskTypeBookingEvent, payload)
	info, err := s.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Queue("default"))
	if err != nil {
		return fmt.Errorf("enqueue booking event: %w", err)
	}

	s.Logger.Debug("booking event enqueued",
		zap.String("type", event.Type),
		zap.String("bookingId", event.BookingID),
		zap.String("taskId", info.ID))
	return nil
}

// Close releases the underlying asynq client.
func (s *AsynqEventSink) Close() error {
	return s.Client.Close()
}

// LogNotifier is the in-repo Notifier: it records the fan-out decision
// and hands off to external push delivery, which lives outside this
// server.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) NotifyBookingEvent(_ context.Context, event models.BookingEvent) error {
	n.Logger.Info("booking notification",
		zap.String("type", event.Type),
		zap.String("bookingId", event.BookingID),
		zap.Time("occurredAt", event.OccurredAt),
		zap.Any("payload", event.Payload))
	return nil
}
