package timer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCountdown(limit int) (*Countdown, *clockwork.FakeClock, *atomic.Int32) {
	clock := clockwork.NewFakeClock()
	var fired atomic.Int32
	cd := NewCountdown(limit, func() { fired.Add(1) }, WithClock(clock))
	return cd, clock, &fired
}

func TestCountdown_ExpiresOnce(t *testing.T) {
	cd, clock, fired := newTestCountdown(5)
	cd.SetActive(true)

	clock.Advance(3 * time.Second)
	assert.Equal(t, 2, cd.Poll())
	assert.Equal(t, int32(0), fired.Load())

	clock.Advance(2500 * time.Millisecond)
	assert.Equal(t, 0, cd.Poll())
	assert.Equal(t, int32(1), fired.Load())
	assert.True(t, cd.Expired())

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		assert.Equal(t, 0, cd.Poll())
	}
	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, 0, cd.Remaining())
}

func TestCountdown_FloorsPartialSeconds(t *testing.T) {
	cd, clock, _ := newTestCountdown(10)
	cd.SetActive(true)

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, 10, cd.Poll())
	clock.Advance(time.Millisecond)
	assert.Equal(t, 9, cd.Poll())
}

func TestCountdown_WallClockNotTickCount(t *testing.T) {
	cd, clock, fired := newTestCountdown(30)
	cd.SetActive(true)

	// one poll after a long gap reflects the whole gap
	clock.Advance(20 * time.Second)
	assert.Equal(t, 10, cd.Poll())
	assert.Equal(t, int32(0), fired.Load())
}

func TestCountdown_InactiveFreezes(t *testing.T) {
	cd, clock, fired := newTestCountdown(5)

	clock.Advance(time.Hour)
	assert.Equal(t, 5, cd.Poll())
	assert.Equal(t, 5, cd.Remaining())
	assert.Equal(t, int32(0), fired.Load())
}

func TestCountdown_PauseResumesFromFrozenValue(t *testing.T) {
	cd, clock, fired := newTestCountdown(10)
	cd.SetActive(true)

	clock.Advance(4 * time.Second)
	assert.Equal(t, 6, cd.Poll())

	cd.SetActive(false)
	clock.Advance(time.Minute)
	assert.Equal(t, 6, cd.Poll())
	assert.Equal(t, int32(0), fired.Load())

	cd.SetActive(true)
	assert.Equal(t, 6, cd.Poll())
	clock.Advance(2 * time.Second)
	assert.Equal(t, 4, cd.Poll())

	clock.Advance(4 * time.Second)
	assert.Equal(t, 0, cd.Poll())
	assert.Equal(t, int32(1), fired.Load())
}

func TestCountdown_PauseCapturesElapsedSinceLastPoll(t *testing.T) {
	cd, clock, _ := newTestCountdown(10)
	cd.SetActive(true)

	clock.Advance(3 * time.Second)
	cd.SetActive(false)
	assert.Equal(t, 7, cd.Remaining())
}

func TestCountdown_SetTimeLimitRestartsWhileRunning(t *testing.T) {
	cd, clock, fired := newTestCountdown(10)
	cd.SetActive(true)

	clock.Advance(8 * time.Second)
	assert.Equal(t, 2, cd.Poll())

	cd.SetTimeLimit(20)
	assert.Equal(t, 20, cd.Remaining())
	assert.Equal(t, 20, cd.TimeLimit())

	clock.Advance(5 * time.Second)
	assert.Equal(t, 15, cd.Poll())
	assert.Equal(t, int32(0), fired.Load())
}

func TestCountdown_SetTimeLimitRearmsExpiry(t *testing.T) {
	cd, clock, fired := newTestCountdown(1)
	cd.SetActive(true)

	clock.Advance(time.Second)
	cd.Poll()
	require.Equal(t, int32(1), fired.Load())

	cd.SetTimeLimit(2)
	assert.False(t, cd.Expired())
	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, cd.Poll())
	assert.Equal(t, int32(2), fired.Load())
}

func TestCountdown_SameLimitIsNoop(t *testing.T) {
	cd, clock, _ := newTestCountdown(10)
	cd.SetActive(true)
	clock.Advance(3 * time.Second)

	cd.SetTimeLimit(10)
	assert.Equal(t, 7, cd.Poll())
}

func TestCountdown_SetTimeLimitWhilePausedWaitsForActivation(t *testing.T) {
	cd, clock, _ := newTestCountdown(10)
	cd.SetTimeLimit(3)

	clock.Advance(time.Minute)
	assert.Equal(t, 3, cd.Poll())

	cd.SetActive(true)
	clock.Advance(time.Second)
	assert.Equal(t, 2, cd.Poll())
}

func TestCountdown_NonPositiveLimitExpiresImmediately(t *testing.T) {
	for _, limit := range []int{0, -5} {
		cd, _, fired := newTestCountdown(limit)
		assert.Equal(t, 0, cd.Remaining())

		// no expiry while inactive
		cd.Poll()
		assert.Equal(t, int32(0), fired.Load())

		cd.SetActive(true)
		assert.Equal(t, 0, cd.Poll())
		assert.Equal(t, int32(1), fired.Load())
		cd.Poll()
		assert.Equal(t, int32(1), fired.Load())
	}
}

func TestCountdown_TickHookOnChange(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var seen []int
	cd := NewCountdown(3, nil, WithClock(clock), WithTick(func(r int) { seen = append(seen, r) }))
	cd.SetActive(true)

	cd.Poll()
	clock.Advance(time.Second)
	cd.Poll()
	cd.Poll()
	clock.Advance(2 * time.Second)
	cd.Poll()

	assert.Equal(t, []int{2, 0}, seen)
}

func TestCountdown_StopSilencesCallbacks(t *testing.T) {
	cd, clock, fired := newTestCountdown(2)
	cd.SetActive(true)
	cd.Stop()
	cd.Stop()

	clock.Advance(5 * time.Second)
	cd.Poll()
	assert.Equal(t, int32(0), fired.Load())
}

func TestCountdown_StopDuringTickSkipsExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	entered := make(chan struct{})
	release := make(chan struct{})
	var fired atomic.Int32
	cd := NewCountdown(1, func() { fired.Add(1) }, WithClock(clock), WithTick(func(int) {
		close(entered)
		<-release
	}))
	cd.SetActive(true)
	clock.Advance(time.Second)

	done := make(chan struct{})
	go func() {
		cd.Poll()
		close(done)
	}()

	<-entered
	cd.Stop()
	close(release)
	<-done
	assert.Equal(t, int32(0), fired.Load())
}

func TestCountdown_StopFromExpiryDoesNotDeadlock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var cd *Countdown
	done := make(chan struct{})
	cd = NewCountdown(1, func() {
		cd.Stop()
		close(done)
	}, WithClock(clock))
	cd.SetActive(true)

	clock.Advance(time.Second)
	cd.Poll()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expiry callback did not return")
	}
}

func TestCountdown_StartLoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var fired atomic.Int32
	cd := NewCountdown(2, func() { fired.Add(1) },
		WithClock(clock), WithPollInterval(250*time.Millisecond))
	cd.SetActive(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exited := make(chan struct{})
	go func() {
		cd.Start(ctx)
		close(exited)
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	require.Eventually(t, func() bool {
		clock.Advance(250 * time.Millisecond)
		return fired.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit on cancel")
	}
	assert.Equal(t, int32(1), fired.Load())
}

func TestCountdown_StopEndsLoop(t *testing.T) {
	cd, _, _ := newTestCountdown(10)

	exited := make(chan struct{})
	go func() {
		cd.Start(context.Background())
		close(exited)
	}()
	cd.Stop()

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit on Stop")
	}
}
