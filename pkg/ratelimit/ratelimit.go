package ratelimit

import (
	"time"

	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
	"github.com/nimasrn/collection-ledger/pkg/logger"
	"github.com/nimasrn/collection-ledger/pkg/redis"
)

// Limiter is a fixed-window counter over redis: one INCR per request with
// the window TTL set on the first hit. Shared across instances, unlike an
// in-process map.
type Limiter struct {
	adapter redis.RedisAdapter
	max     int64
	window  time.Duration
}

func New(adapter redis.RedisAdapter, max int64, window time.Duration) *Limiter {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Limiter{adapter: adapter, max: max, window: window}
}

// Allow reports whether the caller identified by key may proceed.
func (l *Limiter) Allow(key string) (bool, error) {
	count, err := l.adapter.Incr("ratelimit:" + key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.adapter.Expire("ratelimit:"+key, l.window); err != nil {
			return false, err
		}
	}
	return count <= l.max, nil
}

// Middleware rejects requests over the per-IP budget with 429. Redis
// failures fail open, a throttle outage must not take writes down with it.
func Middleware(l *Limiter) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			ok, err := l.Allow(ctx.RemoteIP().String())
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				next(ctx)
				return
			}
			if !ok {
				ctx.Error("too many requests, please try again later", xhttp.StatusTooManyRequests)
				return
			}
			next(ctx)
		}
	}
}
