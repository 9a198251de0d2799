package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces out expensive operations such as workspace rebuilds.
type Limiter struct {
	inner *rate.Limiter
}

// NewIntervalLimiter allows one event per interval with no burst beyond
// the first. A non-positive interval disables limiting.
func NewIntervalLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{inner: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{inner: rate.NewLimiter(rate.Every(interval), 1)}
}

// Allow reports whether an event may happen now, consuming a token if so.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
