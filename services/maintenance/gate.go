package maintenance

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DisableKey is the operator-settable Redis key. When present, booking
// creation is disabled platform-wide; the key's value is the message
// shown to users.
const DisableKey = "maintenance:booking_disabled"

// Gate is the global feature flag consulted before every booking
// creation.
type Gate interface {
	IsBookingDisabled(ctx context.Context) (bool, string)
}

// RedisGate reads the operator key from Redis and falls back to static
// configuration when Redis has no opinion (or is unreachable).
type RedisGate struct {
	Client          *redis.Client
	Logger          *zap.Logger
	FallbackEnabled bool   // config BOOKING_DISABLED
	FallbackMessage string // config BOOKING_DISABLED_MESSAGE
}

func (g *RedisGate) IsBookingDisabled(ctx context.Context) (bool, string) {
	msg, err := g.Client.Get(ctx, DisableKey).Result()
	switch {
	case err == redis.Nil:
		// No operator override; static config decides.
	case err != nil:
		g.Logger.Warn("maintenance gate: redis unavailable, using config fallback", zap.Error(err))
	default:
		if msg == "" {
			msg = g.FallbackMessage
		}
		return true, msg
	}

	if g.FallbackEnabled {
		return true, g.FallbackMessage
	}
	return false, ""
}
