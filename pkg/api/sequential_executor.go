package api

import (
	"context"
	"sync"
	"time"
)

// DefaultRequestDelay keeps a single caller under the provider's
// per-second call ceiling
const DefaultRequestDelay = 150 * time.Millisecond

// SequentialExecutor runs API calls one at a time, each preceded by a
// fixed delay
type SequentialExecutor struct {
	mu    sync.Mutex
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSequentialExecutor creates an executor with the given courtesy delay
func NewSequentialExecutor(delay time.Duration) *SequentialExecutor {
	if delay < 0 {
		delay = 0
	}
	return &SequentialExecutor{
		delay: delay,
		sleep: sleepContext,
	}
}

// Delay returns the configured courtesy delay
func (se *SequentialExecutor) Delay() time.Duration {
	return se.delay
}

// Execute waits for the previous call, sleeps the delay, then runs fn
func (se *SequentialExecutor) Execute(ctx context.Context, fn func() error) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := se.sleep(ctx, se.delay); err != nil {
		return err
	}

	return fn()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
