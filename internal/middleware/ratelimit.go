package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/onewordstory/internal/storage"
)

// LimitHandler writes the response for a request over the limit
type LimitHandler func(w http.ResponseWriter, r *http.Request, retryAfter time.Duration)

// RateLimitConfig configures the fixed-window limiter
type RateLimitConfig struct {
	Counter     storage.Counter
	MaxRequests int
	Window      time.Duration
	OnLimited   LimitHandler
	Logger      *slog.Logger
}

// RateLimit creates middleware allowing MaxRequests per client IP per Window.
// Every response carries X-RateLimit-Limit and X-RateLimit-Remaining.
// If the counter store fails the request is let through.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	onLimited := cfg.OnLimited
	if onLimited == nil {
		onLimited = DefaultLimitHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count, resetIn, err := cfg.Counter.Increment(r.Context(), ClientIP(r), cfg.Window)
			if err != nil {
				cfg.Logger.Warn("rate limit store unavailable", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(int64(cfg.MaxRequests)-count, 0)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(ceilSeconds(resetIn), 10))

			if count > int64(cfg.MaxRequests) {
				w.Header().Set("Retry-After", strconv.FormatInt(ceilSeconds(resetIn), 10))
				onLimited(w, r, resetIn)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultLimitHandler returns a plain 429
func DefaultLimitHandler(w http.ResponseWriter, _ *http.Request, _ time.Duration) {
	http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
}

// ClientIP returns the remote address without its port
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func ceilSeconds(d time.Duration) int64 {
	return int64(math.Ceil(d.Seconds()))
}
