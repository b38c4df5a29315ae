// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// NewThrottle returns a limiter that admits one request immediately and
// then one per delay. A non-positive delay disables throttling (nil).
func NewThrottle(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Wait blocks until lim admits another request. A nil limiter never blocks.
func Wait(ctx context.Context, lim *rate.Limiter) error {
	if lim == nil {
		return ctx.Err()
	}
	return lim.Wait(ctx)
}
