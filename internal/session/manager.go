package session

import (
	"context"
	"sync"
	"time"

	"nexus_game/internal/domain"
	"nexus_game/internal/game"
	"nexus_game/internal/logger"
	"nexus_game/internal/metrics"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultIdleTimeout evicts runs nobody touched for this long.
const DefaultIdleTimeout = 30 * time.Minute

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	catalog      []domain.Challenge
	clock        clockwork.Clock
	pollInterval time.Duration
	idleTimeout  time.Duration
	factory      *game.Factory
	listener     Listener
}

// ManagerOptions configure a Manager; zero values fall back to defaults.
type ManagerOptions struct {
	Clock        clockwork.Clock
	PollInterval time.Duration
	IdleTimeout  time.Duration
	Factory      *game.Factory
}

func NewManager(catalog []domain.Challenge, opts ManagerOptions) *Manager {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.Factory == nil {
		opts.Factory = game.NewFactory(nil)
	}
	return &Manager{
		sessions:     make(map[string]*Session),
		catalog:      domain.CopyChallenges(catalog),
		clock:        opts.Clock,
		pollInterval: opts.PollInterval,
		idleTimeout:  opts.IdleTimeout,
		factory:      opts.Factory,
	}
}

// SetListener sets the listener handed to every session, existing ones included.
func (m *Manager) SetListener(l Listener) {
	m.mu.Lock()
	m.listener = l
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.SetListener(l)
	}
}

// Catalog returns a copy of the challenge set every run starts from.
func (m *Manager) Catalog() []domain.Challenge {
	return domain.CopyChallenges(m.catalog)
}

// Create opens a new run at the intro screen.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := New(uuid.NewString(), m.catalog, Options{
		Clock:        m.clock,
		PollInterval: m.pollInterval,
		Factory:      m.factory,
		Listener:     m.listener,
	})
	m.sessions[s.ID] = s
	metrics.SessionsActive.Set(float64(len(m.sessions)))

	logger.Info("session created", "session", s.ID, "sessions", len(m.sessions))
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove closes and forgets a session.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		metrics.SessionsActive.Set(float64(len(m.sessions)))
	}
	m.mu.Unlock()

	if ok {
		s.Close()
		logger.Info("session removed", "session", id)
	}
	return ok
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartCleanup evicts idle sessions every interval until ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := m.clock.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				m.CleanupIdle()
			}
		}
	}()
}

// CleanupIdle removes sessions idle longer than the idle timeout and returns
// how many were evicted.
func (m *Manager) CleanupIdle() int {
	now := m.clock.Now()

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.idleTimeout {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		logger.Info("cleaned up idle session", "session", s.ID)
	}
	return len(stale)
}

// Close shuts every session down.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	metrics.SessionsActive.Set(0)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
