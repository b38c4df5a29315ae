// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retry and backoff machinery shared by the
// Semantic Scholar lookup and search clients.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sleep waits for d or until ctx is done. Tests override it to record
// requested waits without sleeping.
var Sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Policy computes exponential backoff delays: Base * 2^attempt, capped at
// Cap when Cap is positive.
type Policy struct {
	Base time.Duration
	Cap  time.Duration
}

// Delay returns the wait after failed attempt number attempt (1-based).
// The sequence is non-decreasing and never exceeds Cap.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := p.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if p.Cap > 0 && d >= p.Cap {
			return p.Cap
		}
		// Overflow guard for very large attempt counts.
		if d <= 0 {
			if p.Cap > 0 {
				return p.Cap
			}
			return time.Duration(1<<63 - 1)
		}
	}
	if p.Cap > 0 && d > p.Cap {
		return p.Cap
	}
	return d
}

// State is a position in the retry state machine.
type State int

const (
	StatePending State = iota
	StateRetrying
	StateSucceeded
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateRetrying:
		return "RETRYING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateExhausted:
		return "EXHAUSTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Retry tracks one logical call through PENDING, RETRYING, SUCCEEDED and
// EXHAUSTED. Failures counts failed attempts; it never increments on success.
type Retry struct {
	MaxAttempts int
	State       State
	Failures    int
	LastErr     error
}

// NewRetry returns a pending Retry allowing maxAttempts total attempts.
func NewRetry(maxAttempts int) *Retry {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retry{MaxAttempts: maxAttempts, State: StatePending}
}

// Done reports whether the retry reached a terminal state.
func (r *Retry) Done() bool {
	return r.State == StateSucceeded || r.State == StateExhausted
}

// Succeed moves the retry to SUCCEEDED.
func (r *Retry) Succeed() {
	r.State = StateSucceeded
	r.LastErr = nil
}

// Fail records a failed attempt and moves to RETRYING, or to EXHAUSTED once
// MaxAttempts failures have been recorded.
func (r *Retry) Fail(err error) {
	r.Failures++
	r.LastErr = err
	if r.Failures >= r.MaxAttempts {
		r.State = StateExhausted
		return
	}
	r.State = StateRetrying
}

// ErrExhausted is returned by Do after every attempt failed.
var ErrExhausted = errors.New("retries exhausted")

// Observer receives a callback after each failed attempt. wait is zero when
// no further attempt will be made.
type Observer func(attempt int, err error, wait time.Duration)

// Do calls fn until it succeeds or maxAttempts attempts have failed,
// sleeping policy.Delay(k) after the k-th failure. A cancelled context
// during a wait aborts with ctx.Err(). After exhaustion the returned error
// wraps both ErrExhausted and the last failure.
func Do(ctx context.Context, policy Policy, maxAttempts int, observe Observer, fn func(ctx context.Context) error) error {
	r := NewRetry(maxAttempts)
	for !r.Done() {
		err := fn(ctx)
		if err == nil {
			r.Succeed()
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.Fail(err)

		var wait time.Duration
		if r.State == StateRetrying {
			wait = policy.Delay(r.Failures)
		}
		if observe != nil {
			observe(r.Failures, err, wait)
		}
		if r.State == StateRetrying {
			if err := Sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	if r.State == StateExhausted {
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, r.Failures, r.LastErr)
	}
	return nil
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// CheckStatus returns a *StatusError for any non-2xx response.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u := ""
		if resp.Request != nil && resp.Request.URL != nil {
			u = resp.Request.URL.Redacted()
		}
		return &StatusError{StatusCode: resp.StatusCode, URL: u}
	}
	return nil
}
