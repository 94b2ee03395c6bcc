package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSequentialExecutor_SleepsBeforeEachCall(t *testing.T) {
	executor := NewSequentialExecutor(150 * time.Millisecond)

	var slept []time.Duration
	executor.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	calls := 0
	for i := 0; i < 3; i++ {
		if err := executor.Execute(context.Background(), func() error {
			calls++
			return nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	if len(slept) != 3 {
		t.Fatalf("Expected 3 sleeps, got %d", len(slept))
	}
	for _, d := range slept {
		if d != 150*time.Millisecond {
			t.Errorf("Expected 150ms delay, got %v", d)
		}
	}
}

func TestSequentialExecutor_RealDelay(t *testing.T) {
	executor := NewSequentialExecutor(30 * time.Millisecond)

	start := time.Now()
	err := executor.Execute(context.Background(), func() error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Expected at least 30ms, got %v", elapsed)
	}
}

func TestSequentialExecutor_OneAtATime(t *testing.T) {
	executor := NewSequentialExecutor(0)

	var inFlight, maxInFlight int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = executor.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					m := atomic.LoadInt32(&maxInFlight)
					if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Errorf("Expected at most 1 call in flight, got %d", maxInFlight)
	}
}

func TestSequentialExecutor_ContextCanceled(t *testing.T) {
	executor := NewSequentialExecutor(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := executor.Execute(ctx, func() error {
		called = true
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("Expected fn not to run")
	}
}

func TestSequentialExecutor_CanceledDuringDelay(t *testing.T) {
	executor := NewSequentialExecutor(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := executor.Execute(ctx, func() error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Expected delay to be interrupted by the context")
	}
}

func TestNewSequentialExecutor_NegativeDelay(t *testing.T) {
	if d := NewSequentialExecutor(-time.Second).Delay(); d != 0 {
		t.Errorf("Expected negative delay clamped to 0, got %v", d)
	}
}
