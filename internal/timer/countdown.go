// Package timer holds the countdown used by every challenge and the periodic
// runner behind the run's elapsed-time counter.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPollInterval keeps the low-time display responsive.
const DefaultPollInterval = 250 * time.Millisecond

// Countdown derives the remaining seconds of a time limit from the clock rather
// than from counted ticks, so a throttled poll loop never drifts.
// The zero value is not usable; construct with NewCountdown.
type Countdown struct {
	mu sync.Mutex

	clock    clockwork.Clock
	interval time.Duration
	onExpire func()
	onTick   func(remaining int)

	timeLimit int
	base      int       // remaining seconds frozen at the last activation
	start     time.Time // zero while inactive
	remaining int       // last computed value
	active    bool
	fired     bool
	stopped   bool

	stopOnce sync.Once
	stopCh   chan struct{}
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithClock swaps the wall clock, tests pass a fake one.
func WithClock(c clockwork.Clock) Option {
	return func(cd *Countdown) { cd.clock = c }
}

// WithPollInterval sets how often Start polls the clock.
func WithPollInterval(d time.Duration) Option {
	return func(cd *Countdown) {
		if d > 0 {
			cd.interval = d
		}
	}
}

// WithTick registers a hook called whenever the displayed value changes.
func WithTick(fn func(remaining int)) Option {
	return func(cd *Countdown) { cd.onTick = fn }
}

// NewCountdown creates an inactive countdown over timeLimit seconds.
// onExpire may be nil.
func NewCountdown(timeLimit int, onExpire func(), opts ...Option) *Countdown {
	cd := &Countdown{
		clock:    clockwork.NewRealClock(),
		interval: DefaultPollInterval,
		onExpire: onExpire,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(cd)
	}
	cd.arm(timeLimit)
	return cd
}

// arm resets the countdown to a full limit. Caller holds mu (or is the constructor).
func (cd *Countdown) arm(timeLimit int) {
	cd.timeLimit = timeLimit
	cd.base = max(timeLimit, 0)
	cd.remaining = cd.base
	cd.fired = false
	cd.start = time.Time{}
	if cd.active {
		cd.start = cd.clock.Now()
	}
}

// TimeLimit returns the configured limit in seconds.
func (cd *Countdown) TimeLimit() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.timeLimit
}

// SetTimeLimit restarts the countdown from the new limit, even while running.
// Setting the same limit again is a no-op.
func (cd *Countdown) SetTimeLimit(timeLimit int) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if timeLimit == cd.timeLimit {
		return
	}
	cd.arm(timeLimit)
}

// SetActive suspends or resumes the countdown. Suspending freezes the remaining
// value and resuming continues from it.
func (cd *Countdown) SetActive(active bool) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if active == cd.active {
		return
	}
	now := cd.clock.Now()
	if active {
		cd.base = cd.remaining
		cd.start = now
	} else {
		cd.remaining = cd.compute(now)
		cd.base = cd.remaining
		cd.start = time.Time{}
	}
	cd.active = active
}

// Active reports whether time is currently elapsing.
func (cd *Countdown) Active() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.active
}

// Remaining returns the seconds left without firing the expiry callback.
func (cd *Countdown) Remaining() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if !cd.active {
		return cd.remaining
	}
	return cd.compute(cd.clock.Now())
}

// Expired reports whether the expiry callback has been delivered for this arming.
func (cd *Countdown) Expired() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.fired
}

func (cd *Countdown) compute(now time.Time) int {
	if cd.start.IsZero() {
		return cd.base
	}
	passed := int(now.Sub(cd.start) / time.Second)
	return max(cd.base-passed, 0)
}

// Poll recomputes the remaining value and fires onExpire the first time it
// reaches zero. It returns the remaining seconds.
func (cd *Countdown) Poll() int {
	cd.mu.Lock()
	if cd.stopped || !cd.active {
		r := cd.remaining
		cd.mu.Unlock()
		return r
	}

	prev := cd.remaining
	cd.remaining = cd.compute(cd.clock.Now())
	r := cd.remaining

	var expire func()
	if r == 0 && !cd.fired {
		cd.fired = true
		expire = cd.onExpire
	}
	tick := cd.onTick
	cd.mu.Unlock()

	// callbacks run unlocked; Stop may land between them
	if tick != nil && r != prev && cd.live() {
		tick(r)
	}
	if expire != nil && cd.live() {
		expire()
	}
	return r
}

func (cd *Countdown) live() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return !cd.stopped
}

// Start polls until ctx is cancelled or Stop is called. Run it in a goroutine.
func (cd *Countdown) Start(ctx context.Context) {
	ticker := cd.clock.NewTicker(cd.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cd.Stop()
			return
		case <-cd.stopCh:
			return
		case <-ticker.Chan():
			cd.Poll()
		}
	}
}

// Stop tears the countdown down. It never blocks, so it is safe to call from
// inside onExpire. No callback starts after Stop returns; one already running
// is allowed to finish.
func (cd *Countdown) Stop() {
	cd.stopOnce.Do(func() {
		cd.mu.Lock()
		cd.stopped = true
		cd.mu.Unlock()
		close(cd.stopCh)
	})
}
