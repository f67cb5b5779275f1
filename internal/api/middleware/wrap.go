package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/onewordstory/internal/api/apierr"
	"github.com/mcoot/onewordstory/internal/middleware"
	"github.com/mcoot/onewordstory/internal/storage"
)

// The generic middleware in internal/middleware writes plain text. These
// wrappers give it the API's JSON error envelope.

// Recovery creates panic recovery middleware that answers with a JSON 500
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}

// RateLimit limits requests per client IP and answers with a JSON 429
func RateLimit(counter storage.Counter, maxRequests int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.RateLimit(middleware.RateLimitConfig{
		Counter:     counter,
		MaxRequests: maxRequests,
		Window:      window,
		OnLimited: func(w http.ResponseWriter, _ *http.Request, _ time.Duration) {
			apierr.WriteError(w, apierr.NewRateLimitedError())
		},
		Logger: logger,
	})
}
