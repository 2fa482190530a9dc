package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Interval calls fn once per period while running. Each Start opens a fresh
// period, matching a setInterval that is re-created on resume, and passes fn
// the number of that run so callers can drop ticks from a stopped one.
type Interval struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	period time.Duration
	fn     func(run uint64)
	run    uint64
	stopCh chan struct{}
	done   chan struct{}
}

// NewInterval builds a stopped Interval.
func NewInterval(clock clockwork.Clock, period time.Duration, fn func(run uint64)) *Interval {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Interval{clock: clock, period: period, fn: fn}
}

// Running reports whether the loop is active.
func (iv *Interval) Running() bool {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.stopCh != nil
}

// Current reports whether run is the loop that is running now.
func (iv *Interval) Current(run uint64) bool {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.stopCh != nil && iv.run == run
}

// Start launches the loop; starting a running Interval does nothing.
func (iv *Interval) Start() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stopCh != nil {
		return
	}

	iv.run++
	run := iv.run
	stopCh := make(chan struct{})
	done := make(chan struct{})
	iv.stopCh = stopCh
	iv.done = done

	ticker := iv.clock.NewTicker(iv.period)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.Chan():
				select {
				case <-stopCh:
					return
				default:
				}
				iv.fn(run)
			}
		}
	}()
}

// Stop ends the loop without waiting for it; a call to fn already in flight
// may still finish. Use Wait to block until the goroutine has exited.
func (iv *Interval) Stop() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stopCh == nil {
		return
	}
	close(iv.stopCh)
	iv.stopCh = nil
}

// Wait blocks until the most recent loop has exited.
func (iv *Interval) Wait() {
	iv.mu.Lock()
	done := iv.done
	iv.mu.Unlock()
	if done != nil {
		<-done
	}
}
