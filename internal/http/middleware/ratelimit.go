package middlewarex

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Counter counts hits in fixed one-minute windows.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter keeps window counters in Redis with INCR and EXPIRE.
type RedisCounter struct {
	rdb *redis.Client
}

// NewRedisCounter creates a counter backed by rdb.
func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

// Hit increments key and returns its count in the current window.
func (c *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit allows perMinute requests per client IP per minute. A nil counter
// or a non-positive limit disables it; counter errors let the request through.
func RateLimit(counter Counter, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if counter == nil || perMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now().UTC()
			key := fmt.Sprintf("ratelimit:%s:%d", clientIP(r), now.Unix()/60)

			n, err := counter.Hit(r.Context(), key, time.Minute)
			if err != nil {
				log.Error().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if n > int64(perMinute) {
				w.Header().Set("Retry-After", strconv.Itoa(60-now.Second()))
				writeDetail(w, http.StatusTooManyRequests, "Request was throttled.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
