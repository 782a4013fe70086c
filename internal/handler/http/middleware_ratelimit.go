package http

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-web-server/internal/logger"
	"github.com/MKhiriev/go-web-server/internal/session"
)

const rateKeyPrefix = "rate:"

// rateLimiter decides whether the client identified by key may issue one
// more request. retryAfter is only meaningful when allowed is false.
type rateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// newRateLimiter shares the redis connection of a redis session store, so
// several server processes count against one window. Any other store gets
// an in-process token bucket.
func newRateLimiter(store session.Store, max int, window time.Duration, log *logger.Logger) rateLimiter {
	if max <= 0 {
		max = DefaultRateMax
	}
	if window <= 0 {
		window = DefaultRateWindow
	}

	if rs, ok := store.(*session.RedisStore); ok {
		log.Info().Int("max", max).Dur("window", window).Msg("redis rate limiter enabled")
		return &redisLimiter{client: rs.Client(), max: int64(max), window: window}
	}

	log.Info().Int("max", max).Dur("window", window).Msg("in-process rate limiter enabled")
	return newLocalLimiter(max, window)
}

// localLimiter is a per-key token bucket refilled with max tokens per window.
type localLimiter struct {
	allow      func(ctx context.Context, key string) bool
	retryAfter time.Duration
}

func newLocalLimiter(max int, window time.Duration) *localLimiter {
	limiter := ratelimit.New(&ratelimit.Config{
		Rate:     max,
		Burst:    max,
		Interval: window,
	})

	return &localLimiter{
		allow:      limiter.Allow,
		retryAfter: window / time.Duration(max),
	}
}

func (l *localLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.allow(ctx, key) {
		return true, 0, nil
	}
	return false, l.retryAfter, nil
}

// redisLimiter is a fixed window counter: INCR, with the window expiry set
// by the first hit.
type redisLimiter struct {
	client redis.UniversalClient
	max    int64
	window time.Duration
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	key = rateKeyPrefix + key

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("error incrementing rate counter: %w", err)
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, key, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("error setting rate window: %w", err)
		}
	}
	if count <= l.max {
		return true, 0, nil
	}

	ttl, err := l.client.PTTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// withRateLimit rejects clients over the configured rate with 429. Limiter
// failures let the request through.
func (p *Pipeline) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		allowed, retryAfter, err := p.limiter.Allow(r.Context(), key)
		if err != nil {
			logger.FromRequest(r).Err(err).Str("client", key).Msg("rate limiter failed")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			p.metrics.ObserveRateLimited()
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			Fail(w, r, ErrRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP is the remote address without the port. The entry stage has
// already replaced it with the forwarded client address, when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
