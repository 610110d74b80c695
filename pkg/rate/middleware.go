package rate

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// KeyFunc extracts the rate limiting key of an HTTP request
type KeyFunc func(r *http.Request) string

// NewHTTPMiddleware returns middleware that hands requests over the limit to
// onLimited instead of the wrapped handler. A limiter failure lets the
// request through.
func NewHTTPMiddleware(limiter Limiter, keyFunc KeyFunc, onLimited http.HandlerFunc) func(http.Handler) http.Handler {
	log := logrus.StandardLogger().WithField("type", "rate/middleware")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)

			allowed, err := limiter.Allow(key)
			if err != nil {
				log.WithError(err).WithField("key", key).Warn("failure checking rate limit")
			} else if !allowed {
				onLimited(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
