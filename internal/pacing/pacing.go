package pacing

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces out calls to an external service.
type Pacer interface {
	Wait(ctx context.Context) error
}

type none struct{}

// None never waits.
func None() Pacer {
	return none{}
}

func (none) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Interval keeps at least a fixed interval between the starts of
// successive calls. The first call is never delayed.
type Interval struct {
	interval time.Duration
	lastCall time.Time
	mu       sync.Mutex
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time
}

func FixedInterval(interval time.Duration) *Interval {
	return &Interval{
		interval: max(interval, 0),
		now:      time.Now,
		after:    time.After,
	}
}

func (p *Interval) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastCall.IsZero() {
		if delay := getDelay(p.interval, p.now().Sub(p.lastCall)); delay > 0 {
			select {
			case <-p.after(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	p.lastCall = p.now()

	return nil
}

func getDelay(interval, elapsed time.Duration) time.Duration {
	return max(interval-elapsed, 0)
}
