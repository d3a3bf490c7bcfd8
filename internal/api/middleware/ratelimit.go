package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/photoscout/photoscout/internal/api/models"
)

// RateLimitConfig bounds requests per client IP within a window.
type RateLimitConfig struct {
	RequestLimit int
	WindowLength time.Duration
}

var (
	// CompareRateLimit applies to batch comparison, which fans out to
	// the forecast provider once per location.
	CompareRateLimit = RateLimitConfig{
		RequestLimit: 30,
		WindowLength: time.Minute,
	}

	// StandardRateLimit applies to everything else.
	StandardRateLimit = RateLimitConfig{
		RequestLimit: 100,
		WindowLength: time.Minute,
	}
)

// RateLimitByIP limits requests per client IP. The real client address
// comes from chi's RealIP middleware, which must run earlier in the
// chain.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(cfg.WindowLength.Seconds()))

	limitHandler := func(w http.ResponseWriter, r *http.Request) {
		problem := models.NewTooManyRequests(
			GetRequestID(r.Context()),
			"Rate limit exceeded. Please try again later.",
		)
		problem.Instance = r.URL.Path

		// httprate does not expose the exact reset time, so the window
		// length serves as the estimate.
		w.Header().Set("Retry-After", retryAfter)
		problem.Write(w)
	}

	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(limitHandler),
	)
}
