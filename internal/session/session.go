package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nexus_game/internal/domain"
	"nexus_game/internal/game"
	"nexus_game/internal/logger"
	"nexus_game/internal/metrics"
	"nexus_game/internal/timer"

	"github.com/jonboulle/clockwork"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoActiveAttempt = errors.New("no active challenge")
	ErrStaleAttempt    = errors.New("attempt is no longer active")
	ErrClosed          = errors.New("session closed")
)

// Result labels for finished attempts.
const (
	ResultPassed    = "passed"
	ResultFailed    = "failed"
	ResultExpired   = "expired"
	ResultAbandoned = "abandoned"
)

// Snapshot is what the view renders: the run state plus the open attempt.
type Snapshot struct {
	SessionID string           `json:"session_id"`
	Version   uint64           `json:"version"`
	State     domain.GameState `json:"state"`
	Attempt   *AttemptView     `json:"attempt,omitempty"`
}

// AttemptView describes the challenge currently on screen.
type AttemptView struct {
	ID               uint64          `json:"id"`
	ChallengeID      string          `json:"challenge_id"`
	Category         domain.Category `json:"category"`
	TimeLimit        int             `json:"time_limit"`
	RemainingSeconds int             `json:"remaining_seconds"`
	ClockRunning     bool            `json:"clock_running"`
	MiniGame         any             `json:"mini_game"`
}

// Listener receives every published snapshot. It runs outside the session lock.
type Listener func(Snapshot)

type attempt struct {
	id        uint64
	challenge domain.Challenge
	mini      game.MiniGame
	countdown *timer.Countdown
	cancel    context.CancelFunc
}

// Session is one player's run. All mutation is serialized by mu, so the
// elapsed ticker, the countdown and request handlers never interleave.
type Session struct {
	ID string

	mu           sync.Mutex
	clock        clockwork.Clock
	pollInterval time.Duration
	machine      *game.Machine
	factory      *game.Factory
	elapsed      *timer.Interval
	attempt      *attempt
	listener     Listener
	version      uint64
	lastSeen     time.Time
	closed       bool
}

// Options tune a Session; zero values fall back to defaults.
type Options struct {
	Clock        clockwork.Clock
	PollInterval time.Duration
	Factory      *game.Factory
	Listener     Listener
}

// New creates a session at the intro screen.
func New(id string, catalog []domain.Challenge, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = timer.DefaultPollInterval
	}
	if opts.Factory == nil {
		opts.Factory = game.NewFactory(nil)
	}

	s := &Session{
		ID:           id,
		clock:        opts.Clock,
		pollInterval: opts.PollInterval,
		machine:      game.NewMachine(catalog),
		factory:      opts.Factory,
		listener:     opts.Listener,
		lastSeen:     opts.Clock.Now(),
	}
	s.elapsed = timer.NewInterval(opts.Clock, time.Second, s.tick)
	return s
}

// SetListener replaces the snapshot listener.
func (s *Session) SetListener(l Listener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

// LastSeen returns the time of the last player operation.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Touch marks the session as in use without changing it.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.clock.Now()
	s.mu.Unlock()
}

// Snapshot returns the current view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.ID,
		Version:   s.version,
		State:     s.machine.Snapshot(),
	}
	if a := s.attempt; a != nil {
		snap.Attempt = &AttemptView{
			ID:               a.id,
			ChallengeID:      a.challenge.ID,
			Category:         a.challenge.Category,
			TimeLimit:        a.challenge.TimeLimit,
			RemainingSeconds: a.countdown.Remaining(),
			ClockRunning:     a.countdown.Active(),
			MiniGame:         a.mini.SerializeState(),
		}
	}
	return snap
}

// apply runs a player operation under the lock and publishes when it changed something.
func (s *Session) apply(name string, op func() (bool, error)) (bool, Snapshot, error) {
	return s.run(name, true, op)
}

// background runs a timer-driven change. It does not count as activity, so a
// run left playing still goes idle.
func (s *Session) background(name string, op func() (bool, error)) {
	s.run(name, false, op)
}

func (s *Session) run(name string, touch bool, op func() (bool, error)) (bool, Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return false, snap, ErrClosed
	}
	if touch {
		s.lastSeen = s.clock.Now()
	}

	applied, err := op()
	if name != "" {
		metrics.Transition(name, applied)
	}
	if applied {
		s.version++
	}
	snap := s.snapshotLocked()
	listener := s.listener
	s.mu.Unlock()

	if applied && listener != nil {
		listener(snap)
	}
	return applied, snap, err
}

// syncElapsed binds the elapsed ticker's lifetime to the playing flag.
func (s *Session) syncElapsed() {
	if s.machine.IsPlaying() {
		s.elapsed.Start()
	} else {
		s.elapsed.Stop()
	}
}

// tick advances the elapsed counter. A tick from a loop that a toggle has
// already replaced is dropped.
func (s *Session) tick(run uint64) {
	s.background("", func() (bool, error) {
		if !s.elapsed.Current(run) {
			return false, nil
		}
		return s.machine.Tick(), nil
	})
}

// Start leaves the intro screen.
func (s *Session) Start() (bool, Snapshot, error) {
	return s.apply("start", func() (bool, error) {
		ok := s.machine.Start()
		s.syncElapsed()
		return ok, nil
	})
}

// SelectChallenge opens a challenge and mounts its mini-game and countdown.
func (s *Session) SelectChallenge(id string) (bool, Snapshot, error) {
	return s.apply("select", func() (bool, error) {
		if !s.machine.SelectChallenge(id) {
			return false, nil
		}
		challenge, _ := s.machine.Active()

		mini, err := s.factory.Create(challenge.Category)
		if err != nil {
			s.machine.ReturnToMenu()
			return false, fmt.Errorf("select %s: %w", id, err)
		}
		s.mount(s.machine.Attempt(), challenge, mini)
		return true, nil
	})
}

func (s *Session) mount(id uint64, challenge domain.Challenge, mini game.MiniGame) {
	ctx, cancel := context.WithCancel(context.Background())
	cd := timer.NewCountdown(challenge.TimeLimit,
		func() { s.expire(id) },
		timer.WithClock(s.clock),
		timer.WithPollInterval(s.pollInterval),
		timer.WithTick(func(int) { s.countdownTick(id) }),
	)
	cd.SetActive(mini.ClockRunning())

	s.attempt = &attempt{
		id:        id,
		challenge: challenge,
		mini:      mini,
		countdown: cd,
		cancel:    cancel,
	}
	go cd.Start(ctx)

	logger.Debug("session attempt mounted",
		"session", s.ID, "attempt", id, "challenge", challenge.ID, "time_limit", challenge.TimeLimit)
}

// unmount stops the countdown; nothing fires for this attempt afterwards.
func (s *Session) unmount(result string) {
	a := s.attempt
	if a == nil {
		return
	}
	a.countdown.Stop()
	a.cancel()
	s.attempt = nil
	metrics.Result(string(a.challenge.Category), result)
	logger.Debug("session attempt finished",
		"session", s.ID, "attempt", a.id, "challenge", a.challenge.ID, "result", result)
}

// current reports whether attemptID names the open attempt; 0 means whichever is open.
func (s *Session) current(attemptID uint64) bool {
	if s.attempt == nil {
		return false
	}
	return attemptID == 0 || attemptID == s.attempt.id
}

// CompleteChallenge reports success for attemptID (0 for the open one).
// Late or stale reports are ignored.
func (s *Session) CompleteChallenge(attemptID uint64) (bool, Snapshot, error) {
	return s.apply("complete", func() (bool, error) {
		if !s.current(attemptID) {
			return false, nil
		}
		if !s.machine.CompleteChallenge() {
			return false, nil
		}
		s.unmount(ResultPassed)
		return true, nil
	})
}

// FailChallenge reports failure for attemptID (0 for the open one).
func (s *Session) FailChallenge(attemptID uint64) (bool, Snapshot, error) {
	return s.apply("fail", func() (bool, error) {
		if !s.current(attemptID) {
			return false, nil
		}
		if !s.machine.FailChallenge() {
			return false, nil
		}
		s.unmount(ResultFailed)
		return true, nil
	})
}

func (s *Session) expire(attemptID uint64) {
	s.background("expire", func() (bool, error) {
		if s.attempt == nil || s.attempt.id != attemptID {
			return false, nil
		}
		if !s.machine.FailChallenge() {
			return false, nil
		}
		logger.Info("challenge time expired", "session", s.ID, "attempt", attemptID)
		s.unmount(ResultExpired)
		return true, nil
	})
}

func (s *Session) countdownTick(attemptID uint64) {
	s.background("", func() (bool, error) {
		return s.attempt != nil && s.attempt.id == attemptID, nil
	})
}

// ReturnToMenu abandons the open challenge.
func (s *Session) ReturnToMenu() (bool, Snapshot, error) {
	return s.apply("menu", func() (bool, error) {
		if !s.machine.ReturnToMenu() {
			return false, nil
		}
		s.unmount(ResultAbandoned)
		return true, nil
	})
}

// TogglePlaying pauses or resumes the elapsed counter. The challenge
// countdown is independent and keeps running.
func (s *Session) TogglePlaying() (bool, Snapshot, error) {
	return s.apply("toggle", func() (bool, error) {
		ok := s.machine.TogglePlaying()
		s.syncElapsed()
		return ok, nil
	})
}

// Reset throws the run away and returns to the intro.
func (s *Session) Reset() (bool, Snapshot, error) {
	return s.apply("reset", func() (bool, error) {
		s.unmount(ResultAbandoned)
		ok := s.machine.Reset()
		s.syncElapsed()
		return ok, nil
	})
}

// Move forwards player input to the open mini-game and resolves the attempt
// when the mini-game does.
func (s *Session) Move(attemptID uint64, m game.Move) (bool, Snapshot, error) {
	return s.apply("move", func() (bool, error) {
		if s.attempt == nil {
			return false, ErrNoActiveAttempt
		}
		if !s.current(attemptID) {
			return false, ErrStaleAttempt
		}
		a := s.attempt
		if err := a.mini.HandleMove(m); err != nil {
			return false, err
		}
		a.countdown.SetActive(a.mini.ClockRunning())

		switch a.mini.Outcome() {
		case game.OutcomePassed:
			s.machine.CompleteChallenge()
			s.unmount(ResultPassed)
		case game.OutcomeFailed:
			s.machine.FailChallenge()
			s.unmount(ResultFailed)
		}
		return true, nil
	})
}

// Remaining returns the open countdown's seconds, polling it so an overdue
// expiry is delivered now rather than on the next tick.
func (s *Session) Remaining() (int, bool) {
	s.mu.Lock()
	a := s.attempt
	s.mu.Unlock()
	if a == nil {
		return 0, false
	}
	return a.countdown.Poll(), true
}

// Close stops every background loop. The session cannot be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.unmount(ResultAbandoned)
	s.elapsed.Stop()
	s.closed = true
}
