// file: internal/ratelimit/ratelimit.go
// version: 1.0.0
// guid: ee9ff4ea-3410-46bc-b810-6ce6d061dcf2

// Package ratelimit provides the per-service limiter every upstream
// client sits behind: a counting semaphore bounding in-flight requests,
// with an optional serialized minimum-interval gate for services that
// require polite pacing.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/svetakrava/chorrosion/internal/clienterr"
)

// Limiter bounds concurrent requests to one upstream service.
type Limiter struct {
	permits chan struct{}
	pacer   *rate.Limiter // nil when no minimum interval configured

	closeOnce sync.Once
	closed    chan struct{}
}

// New returns a limiter allowing maxConcurrent simultaneous requests.
// Values below 1 are raised to 1.
func New(maxConcurrent int) *Limiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Limiter{
		permits: make(chan struct{}, maxConcurrent),
		closed:  make(chan struct{}),
	}
}

// NewWithMinInterval returns a limiter that additionally enforces
// minInterval between consecutive request starts. Burst is 1 so
// requests serialize through the gate.
func NewWithMinInterval(maxConcurrent int, minInterval time.Duration) *Limiter {
	l := New(maxConcurrent)
	if minInterval > 0 {
		l.pacer = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return l
}

// Acquire blocks until a permit is available, then waits out the pacing
// gate if one is configured. The returned release function must be
// called exactly once when the request completes.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	select {
	case <-l.closed:
		return nil, clienterr.LimiterClosed()
	default:
	}

	select {
	case l.permits <- struct{}{}:
	case <-l.closed:
		return nil, clienterr.LimiterClosed()
	case <-ctx.Done():
		return nil, clienterr.Transport(ctx.Err())
	}

	release := l.releaseFunc()

	if l.pacer != nil {
		if err := l.pacer.Wait(ctx); err != nil {
			release()
			return nil, clienterr.Transport(err)
		}
	}
	return release, nil
}

// TryAcquire acquires a permit without blocking. It bypasses the pacing
// gate and reports false when the semaphore is saturated or closed.
func (l *Limiter) TryAcquire() (func(), bool) {
	select {
	case <-l.closed:
		return nil, false
	default:
	}
	select {
	case l.permits <- struct{}{}:
		return l.releaseFunc(), true
	default:
		return nil, false
	}
}

func (l *Limiter) releaseFunc() func() {
	var once sync.Once
	return func() {
		once.Do(func() { <-l.permits })
	}
}

// InFlight reports the number of currently held permits.
func (l *Limiter) InFlight() int {
	return len(l.permits)
}

// Close marks the limiter closed. Subsequent Acquire calls fail with a
// limiter-closed error; held permits release normally.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.closed) })
}
