// file: internal/ratelimit/ratelimit_test.go
// version: 1.0.0
// guid: b5457f33-063f-4dba-b447-6e0d1ece6609

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/svetakrava/chorrosion/internal/clienterr"
)

func TestAcquireBoundsConcurrency(t *testing.T) {
	const max = 3
	l := New(max)
	defer l.Close()

	var inFlight, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			n := atomic.AddInt64(&inFlight, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			release()
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&peak); got > max {
		t.Errorf("peak concurrency %d exceeds permit count %d", got, max)
	}
}

func TestTryAcquireSaturated(t *testing.T) {
	l := New(1)
	defer l.Close()

	release, ok := l.TryAcquire()
	if !ok {
		t.Fatal("first TryAcquire should succeed")
	}
	if _, ok := l.TryAcquire(); ok {
		t.Error("TryAcquire on saturated limiter should fail")
	}
	release()
	release2, ok := l.TryAcquire()
	if !ok {
		t.Error("TryAcquire after release should succeed")
	}
	release2()
}

func TestMinIntervalPacing(t *testing.T) {
	const interval = 50 * time.Millisecond
	l := NewWithMinInterval(2, interval)
	defer l.Close()

	start := time.Now()
	for i := 0; i < 3; i++ {
		release, err := l.Acquire(context.Background())
		if err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
		release()
	}
	// Three paced starts need at least two full intervals.
	if elapsed := time.Since(start); elapsed < 2*interval {
		t.Errorf("three requests finished in %v, want at least %v", elapsed, 2*interval)
	}
}

func TestAcquireAfterClose(t *testing.T) {
	l := New(1)
	l.Close()

	_, err := l.Acquire(context.Background())
	if err == nil {
		t.Fatal("Acquire on closed limiter should fail")
	}
	kind, ok := clienterr.KindOf(err)
	if !ok || kind != clienterr.KindLimiterClosed {
		t.Errorf("error kind = %v, want KindLimiterClosed", kind)
	}
	if _, ok := l.TryAcquire(); ok {
		t.Error("TryAcquire on closed limiter should fail")
	}
}

func TestAcquireContextCancelled(t *testing.T) {
	l := New(1)
	defer l.Close()

	release, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("setup Acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx); err == nil {
		t.Error("Acquire with exhausted permits and cancelled context should fail")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	l := New(1)
	defer l.Close()

	release, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	release()
	release() // second call must not double-free the permit

	if got := l.InFlight(); got != 0 {
		t.Errorf("InFlight = %d after release, want 0", got)
	}
}
