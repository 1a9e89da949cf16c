package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

var RateLimited = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "habitus_auth_rate_limited_total",
		Help: "Requests rejected by the auth rate limiter",
	},
	[]string{"route"},
)

func init() {
	prometheus.MustRegister(RateLimited)
}

// windowCounter is the subset of the redis client the limiter needs.
type windowCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimit is a fixed-window limiter keyed by client IP using INCR/EXPIRE.
// A nil client or a redis error lets the request through.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration) fiber.Handler {
	if rdb == nil {
		// keep the interface nil rather than holding a nil *redis.Client
		return rateLimit(nil, maxRequests, window)
	}
	return rateLimit(rdb, maxRequests, window)
}

func rateLimit(counter windowCounter, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if counter == nil || maxRequests <= 0 {
			return c.Next()
		}

		route := c.Route().Path
		key := fmt.Sprintf("habitus:rl:%d:%s:%s", int64(window.Seconds()), route, c.IP())
		ctx := c.UserContext()

		n, err := counter.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			c.Set("X-RateLimit-Error", "redis-error")
			return c.Next()
		}
		if n == 1 {
			// A window without a TTL would never reset, so drop the key.
			if err := counter.Expire(ctx, key, window).Err(); err != nil {
				slog.Warn("rate limiter expire failed, resetting window", "key", key, "error", err)
				counter.Del(ctx, key)
				c.Set("X-RateLimit-Error", "redis-error")
				return c.Next()
			}
		}

		if n > int64(maxRequests) {
			RateLimited.WithLabelValues(route).Inc()
			slog.Warn("rate limit exceeded", "ip", c.IP(), "path", c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		}

		return c.Next()
	}
}
