package router

import (
	"log/slog"
	"time"
)

// Option configures the router.
type Option func(*Router, *int)

// WithCapacity caps the number of cached handles. The least recently used
// handle is evicted (and its resource released) beyond this bound.
func WithCapacity(capacity int) Option {
	if capacity <= 0 {
		panic("router: WithCapacity requires a positive capacity")
	}
	return func(_ *Router, c *int) { *c = capacity }
}

// WithMaxRetries bounds acquisition attempts on a cache miss.
func WithMaxRetries(n int) Option {
	if n <= 0 {
		panic("router: WithMaxRetries requires a positive count")
	}
	return func(r *Router, _ *int) { r.maxRetries = n }
}

// WithRetryInterval sets the base backoff between acquisition attempts.
// The delay doubles after each failed attempt.
func WithRetryInterval(d time.Duration) Option {
	if d <= 0 {
		panic("router: WithRetryInterval requires a positive duration")
	}
	return func(r *Router, _ *int) { r.retryInterval = d }
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Router, _ *int) {
		if log != nil {
			r.log = log
		}
	}
}
