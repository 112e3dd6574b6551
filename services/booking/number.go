package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// NumberSource hands out unique human-readable booking references.
type NumberSource interface {
	Next(ctx context.Context, date string) (string, error)
}

// RedisNumberSource issues sequential references per booking date via a
// Redis counter, e.g. "GB-20250110-0042". The unique index on
// bookingNumber is the backstop if the counter is ever reset.
type RedisNumberSource struct {
	Client *redis.Client
}

func (s *RedisNumberSource) Next(ctx context.Context, date string) (string, error) {
	compact := strings.ReplaceAll(date, "-", "")
	key := fmt.Sprintf("bookingnumber:%s", compact)

	n, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("booking number counter: %w", err)
	}
	if n == 1 {
		// Counters are per day; keep them around long enough for audits.
		s.Client.Expire(ctx, key, 72*time.Hour)
	}
	return fmt.Sprintf("GB-%s-%04d", compact, n), nil
}
