package session

import (
	"sync/atomic"
	"testing"
	"time"

	"nexus_game/internal/catalog"
	"nexus_game/internal/domain"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, clock clockwork.Clock) *Manager {
	t.Helper()
	m := NewManager(catalog.Default(), ManagerOptions{
		Clock:       clock,
		IdleTimeout: 30 * time.Minute,
	})
	t.Cleanup(m.Close)
	return m
}

func TestManager_CreateAndGet(t *testing.T) {
	m := newTestManager(t, clockwork.NewFakeClock())

	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Count())

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, domain.ScreenIntro, got.Snapshot().State.Screen)

	_, err = m.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := newTestManager(t, clockwork.NewFakeClock())
	a := m.Create()
	b := m.Create()

	a.Start()
	a.SelectChallenge("logic-1")
	a.CompleteChallenge(0)

	assert.Equal(t, domain.ProgressStep, a.Snapshot().State.ProgressPercent)
	assert.Equal(t, domain.ScreenIntro, b.Snapshot().State.Screen)
	assert.Equal(t, 0, b.Snapshot().State.ProgressPercent)
}

func TestManager_Remove(t *testing.T) {
	m := newTestManager(t, clockwork.NewFakeClock())
	s := m.Create()

	assert.True(t, m.Remove(s.ID))
	assert.False(t, m.Remove(s.ID))
	assert.Equal(t, 0, m.Count())

	_, _, err := s.Start()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestManager_CleanupIdle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newTestManager(t, clock)

	idle := m.Create()
	busy := m.Create()

	clock.Advance(20 * time.Minute)
	busy.Touch()
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, m.CleanupIdle())
	_, err := m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(busy.ID)
	assert.NoError(t, err)
}

func TestManager_CleanupEvictsAbandonedRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newTestManager(t, clock)

	s := m.Create()
	s.Start()
	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return s.Snapshot().State.ElapsedSeconds == 1 }, time.Second, time.Millisecond)

	// the elapsed counter keeps ticking but nobody is playing
	clock.Advance(31 * time.Minute)
	require.Eventually(t, func() bool { return s.Snapshot().State.ElapsedSeconds >= 2 }, time.Second, time.Millisecond)

	assert.Equal(t, 1, m.CleanupIdle())
	assert.Equal(t, 0, m.Count())
	_, _, err := s.TogglePlaying()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestManager_ListenerReachesEverySession(t *testing.T) {
	m := newTestManager(t, clockwork.NewFakeClock())
	before := m.Create()

	var calls atomic.Int32
	m.SetListener(func(Snapshot) { calls.Add(1) })
	after := m.Create()

	before.Start()
	after.Start()
	assert.Equal(t, int32(2), calls.Load())
}

func TestManager_CatalogIsACopy(t *testing.T) {
	m := newTestManager(t, clockwork.NewFakeClock())
	list := m.Catalog()
	list[0].Title = "changed"
	assert.NotEqual(t, "changed", m.Catalog()[0].Title)
}
