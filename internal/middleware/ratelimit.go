package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/creditbook/creditbook-api/internal/pkg/response"
)

// RateLimit limits requests per client IP. A non-positive limit disables it.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w)
		}),
	)
}
