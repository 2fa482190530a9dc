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

func TestInterval_TicksWhileRunning(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var n atomic.Int32
	iv := NewInterval(clock, time.Second, func(uint64) { n.Add(1) })

	iv.Start()
	require.True(t, iv.Running())

	for want := int32(1); want <= 3; want++ {
		clock.Advance(time.Second)
		require.Eventually(t, func() bool { return n.Load() == want }, time.Second, time.Millisecond)
	}

	iv.Stop()
	iv.Wait()
	assert.False(t, iv.Running())

	clock.Advance(5 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(3), n.Load())
}

func TestInterval_RestartOpensFreshPeriod(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var n atomic.Int32
	iv := NewInterval(clock, time.Second, func(uint64) { n.Add(1) })

	iv.Start()
	clock.Advance(700 * time.Millisecond)
	iv.Stop()
	iv.Wait()

	iv.Start()
	clock.Advance(700 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), n.Load())

	clock.Advance(300 * time.Millisecond)
	require.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)
	iv.Stop()
}

func TestInterval_StartStopIdempotent(t *testing.T) {
	iv := NewInterval(clockwork.NewFakeClock(), time.Second, func(uint64) {})
	iv.Stop()
	iv.Start()
	iv.Start()
	iv.Stop()
	iv.Stop()
	iv.Wait()
	assert.False(t, iv.Running())
}

func TestInterval_NilClockUsesRealClock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fired := make(chan struct{}, 1)
	iv := NewInterval(nil, 5*time.Millisecond, func(uint64) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	iv.Start()
	defer iv.Stop()

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("real clock interval never fired")
	}
}

func TestInterval_CurrentTracksLatestRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	runs := make(chan uint64, 4)
	iv := NewInterval(clock, time.Second, func(run uint64) { runs <- run })

	iv.Start()
	clock.Advance(time.Second)
	first := <-runs
	assert.True(t, iv.Current(first))

	iv.Stop()
	iv.Wait()
	assert.False(t, iv.Current(first))

	iv.Start()
	defer iv.Stop()
	clock.Advance(time.Second)
	second := <-runs
	assert.NotEqual(t, first, second)
	assert.True(t, iv.Current(second))
	assert.False(t, iv.Current(first))
}
