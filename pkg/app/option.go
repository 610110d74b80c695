package app

import (
	"net/http"
)

// Option configures the environment run by Run().
type Option func(o *opts)

type opts struct {
	configPath string
	middleware []func(http.Handler) http.Handler
}

// WithConfigPath sets the config file read by Run(). A missing file is not
// an error, in which case defaults and environment variables are used.
func WithConfigPath(path string) Option {
	return func(o *opts) {
		o.configPath = path
	}
}

// WithMiddleware wraps the app's HTTP handler with the provided middleware.
//
// Middleware is evaluated in addition order, and executes before the app's
// own handler chain.
func WithMiddleware(middleware func(http.Handler) http.Handler) Option {
	return func(o *opts) {
		o.middleware = append(o.middleware, middleware)
	}
}
