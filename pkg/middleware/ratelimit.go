package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// tokenBucketScript refills KEYS[1] by one token per interval up to capacity
// and takes one token if available. Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// bucket takes one token for key, reporting whether the request may pass,
// the tokens left and how long until the next refill.
type bucket interface {
	take(ctx context.Context, key string) (allowed bool, remaining int64, retryAfter time.Duration, err error)
}

type redisBucket struct {
	rdb      *redis.Client
	capacity int
	interval time.Duration
	ttl      int64
}

func (b *redisBucket) take(ctx context.Context, key string) (bool, int64, time.Duration, error) {
	res, err := tokenBucketScript.Run(ctx, b.rdb, []string{key},
		time.Now().UnixMilli(), b.capacity, b.interval.Milliseconds(), b.ttl,
	).Int64Slice()
	if err != nil {
		return false, 0, 0, err
	}
	if len(res) != 3 {
		return false, 0, 0, fmt.Errorf("token bucket returned %d values", len(res))
	}
	return res[0] == 1, res[1], time.Duration(res[2]) * time.Millisecond, nil
}

// RateLimit is a Redis token bucket keyed by client IP, caller and route.
// Without Redis, or when disabled, it passes every request through; a Redis
// error also lets the request through.
func RateLimit(config utils.RateLimitConfig, rdb *redis.Client, logger *zap.Logger) func(http.Handler) http.Handler {
	return RateLimitWith(config, rdb, logger, envelopeFail)
}

// RateLimitWith is RateLimit with a custom failure writer.
func RateLimitWith(config utils.RateLimitConfig, rdb *redis.Client, logger *zap.Logger, fail FailFunc) func(http.Handler) http.Handler {
	if !config.Enabled || rdb == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	capacity := max(config.Capacity, 1)
	interval := config.RefillInterval
	if interval <= 0 {
		interval = time.Second
	}
	ttl := int64(math.Ceil((time.Duration(capacity) * interval * 2).Seconds()))

	b := &redisBucket{rdb: rdb, capacity: capacity, interval: interval, ttl: ttl}
	return limitWith(b, config.Prefix, capacity, logger, fail)
}

func limitWith(b bucket, prefix string, capacity int, logger *zap.Logger, fail FailFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateKey(prefix, r)

			allowed, remaining, retryAfter, err := b.take(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(capacity))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				logger.Info("Rate limit exceeded", zap.String("key", key))
				fail(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateKey(prefix string, r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	user := "anon"
	if identity, ok := utils.GetIdentityFromContext(r.Context()); ok {
		user = identity.UserID.String()
	}

	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			route = pattern
		}
	}

	return strings.Join([]string{prefix, "ip", ip, "user", user, "route", fmt.Sprintf("%s %s", r.Method, route)}, ":")
}
