package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window per-IP limiter backed by Redis.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// NewAuthRateLimiter limits credential endpoints to blunt brute-forcing.
func NewAuthRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, 10, time.Minute, "ratelimit:auth")
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("%s:%s", rl.prefix, clientIP(r))
		ctx := r.Context()

		pipe := rl.redis.Pipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.window)
		if _, err := pipe.Exec(ctx); err != nil {
			// Fail open on Redis trouble; limiting is advisory.
			next.ServeHTTP(w, r)
			return
		}

		if int(incr.Val()) > rl.limit {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests. Please try again later."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip, _, _ := net.SplitHostPort(xff)
		if ip == "" {
			ip = xff
		}
		return ip
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
