// Package middleware provides the Redis-backed HTTP middleware applied
// to the browse surface: a short-TTL response cache and a fixed-window
// rate limiter. Both degrade to pass-through when no Redis client is
// available.
package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// cachedResponse is the envelope stored in Redis: status, content type
// and body of a previously rendered response.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// bodyCapture tees the response body so a successful render can be
// stored after the handler returns.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (bc *bodyCapture) WriteHeader(code int) {
	bc.status = code
	bc.ResponseWriter.WriteHeader(code)
}

func (bc *bodyCapture) Write(b []byte) (int, error) {
	bc.buf.Write(b)
	return bc.ResponseWriter.Write(b)
}

// cacheKey hashes route and query into a stable namespaced key.
func cacheKey(c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("browse-cache:%x", sum)
}

// ResponseCache caches successful GET responses of the browse endpoints
// for the given TTL. The catalog changes rarely and the occupancy view
// each session uses is a read-once snapshot anyway, so a short cache
// window is harmless here.
func ResponseCache(client *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil || ttl <= 0 || c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(c)
			ctx := c.Request().Context()

			if raw, err := client.Get(ctx, key).Bytes(); err == nil {
				var cr cachedResponse
				if json.Unmarshal(raw, &cr) == nil {
					return c.Blob(cr.Status, cr.ContentType, cr.Body)
				}
			}

			capture := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = capture
			if err := next(c); err != nil {
				return err
			}
			if capture.status == http.StatusOK {
				cr := cachedResponse{
					Status:      capture.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        capture.buf.Bytes(),
				}
				if raw, err := json.Marshal(cr); err == nil {
					if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
						logrus.WithError(err).Debug("browse cache store failed")
					}
				}
			}
			return nil
		}
	}
}
