package middleware

// cache.go implements a Redis response cache for the floor-plan and
// availability GET endpoints. Cache keys embed a layout version counter
// that mutating endpoints bump, so a floor-plan edit or a new reservation
// immediately invalidates every cached listing; the TTL is only a backstop.
// When Redis is unavailable the cache degrades to a pass-through.

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
)

// captureWriter captures the response body and status while forwarding to
// the client, up to a configured size limit.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cachedResponse is the stored representation of a cacheable response.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// versionKey names the counter bumped on every mutation.
func versionKey(prefix string) string { return prefix + ":ver" }

// cacheKey builds the entry key from the layout version, route and query.
func cacheKey(prefix string, version int64, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:v%d:%x", prefix, version, sum[:])
}

// NewResponseCache caches successful GET responses keyed by route, query
// and the current layout version.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			version, err := rdb.Get(ctx, versionKey(cfg.Prefix)).Int64()
			if err != nil && err != redis.Nil {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, version, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					c.Response().Header().Set(echo.HeaderContentType, cached.ContentType)
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(cached.Status)
					_, _ = c.Response().Write(cached.Body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && (cw.limit <= 0 || cw.size <= cw.limit) {
				payload, err := json.Marshal(cachedResponse{
					Status:      cw.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        cw.buf.Bytes(),
				})
				if err == nil {
					_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}

// NewCacheInvalidator bumps the layout version after any successful
// mutation, retiring all cached listings at once. Applied to the create,
// update, delete, layout-save, reserve and cancel routes.
func NewCacheInvalidator(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status < http.StatusBadRequest {
				_ = rdb.Incr(context.Background(), versionKey(cfg.Prefix)).Err()
			}
			return nil
		}
	}
}
