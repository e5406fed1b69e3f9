package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimit enforces a per-client request budget over a one-minute
// fixed window, keyed by client IP. The counter lives in Redis so the
// budget holds across replicas. When Redis is unavailable or the limit
// is zero the middleware passes every request through; browsing should
// not break because the limiter's backend is down.
func RateLimit(client *redis.Client, perMinute int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil || perMinute <= 0 {
				return next(c)
			}
			ctx := c.Request().Context()
			window := time.Now().UTC().Unix() / 60
			key := fmt.Sprintf("rl:%s:%d", c.RealIP(), window)

			n, err := client.Incr(ctx, key).Result()
			if err != nil {
				logrus.WithError(err).Debug("rate limit counter unavailable")
				return next(c)
			}
			if n == 1 {
				// First hit of the window; bound the key's lifetime.
				client.Expire(ctx, key, 2*time.Minute)
			}
			if n > int64(perMinute) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
