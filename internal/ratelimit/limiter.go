// Package ratelimit throttles outgoing API calls on the client side.
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces requests evenly over a period with a burst equal to the
// number of requests allowed per period. It never drops or retries calls;
// callers block in Wait until a token is free or their context ends.
type Limiter struct {
	limiter *rate.Limiter
	stats   stats
}

type stats struct {
	waited    atomic.Int64
	cancelled atomic.Int64
	delayed   atomic.Int64
}

// New creates a Limiter allowing requests per period.
func New(requests int, period time.Duration) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(perSecond(requests, period), requests),
	}
}

func perSecond(requests int, period time.Duration) rate.Limit {
	return rate.Limit(float64(requests) / period.Seconds())
}

// Wait blocks until a request may be sent or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	l.stats.waited.Add(1)
	if l.limiter.Tokens() < 1 {
		l.stats.delayed.Add(1)
	}
	if err := l.limiter.Wait(ctx); err != nil {
		l.stats.cancelled.Add(1)
		return err
	}
	return nil
}

// Allow reports whether a request may be sent right now and consumes a token if so.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// SetLimit changes the allowed rate.
func (l *Limiter) SetLimit(requests int, period time.Duration) {
	l.limiter.SetLimit(perSecond(requests, period))
	l.limiter.SetBurst(requests)
}

// Stats returns a snapshot of the limiter counters.
func (l *Limiter) Stats() Stats {
	return Stats{
		Waited:    l.stats.waited.Load(),
		Delayed:   l.stats.delayed.Load(),
		Cancelled: l.stats.cancelled.Load(),
	}
}

// Stats is a point-in-time capture of limiter counters.
type Stats struct {
	// Waited is the number of Wait calls.
	Waited int64
	// Delayed is the number of Wait calls that found no free token.
	Delayed int64
	// Cancelled is the number of Wait calls that ended with ctx.
	Cancelled int64
}
