package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// SlidingWindow is a redis-backed per-user rate limit, used to stop access
// request floods. A sorted set per (name, identifier) holds one member per
// hit; everything older than the window is pruned before counting.
type SlidingWindow struct {
	redis  *redis.Client
	name   string
	window time.Duration
	max    int
}

func NewSlidingWindow(rdb *redis.Client, name string, window time.Duration, max int) *SlidingWindow {
	return &SlidingWindow{redis: rdb, name: name, window: window, max: max}
}

func (sw *SlidingWindow) Allow(ctx context.Context, identifier string) (bool, error) {
	key := fmt.Sprintf("rate_limit:%s:%s", sw.name, identifier)

	pipe := sw.redis.Pipeline()
	now := time.Now().UnixNano()
	windowStart := now - sw.window.Nanoseconds()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, sw.window*2)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("redis pipeline error: %w", err)
	}

	count := results[1].(*redis.IntCmd).Val()
	return count < int64(sw.max), nil
}

// Middleware applies the limit keyed on the authenticated user. Fails open
// if redis is down: submissions are still protected by the ledger's
// duplicate-pending rule.
func (sw *SlidingWindow) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := GetUserID(c)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			ok, err := sw.Allow(c.Request().Context(), userID)
			if err != nil {
				log.Warn("rate limiter unavailable: %v", err)
				return next(c)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, slow down")
			}
			return next(c)
		}
	}
}
