package game

import (
	"log"

	"nexus_game/internal/domain"
)

// Machine owns the GameState of one run. Every change goes through its
// operations; each returns false and leaves the state untouched when it is not
// allowed from the current screen. Machine is not safe for concurrent use, the
// owner serializes calls.
type Machine struct {
	catalog []domain.Challenge
	state   domain.GameState
	attempt uint64
}

// NewMachine starts a run at the intro screen over a copy of catalog.
func NewMachine(catalog []domain.Challenge) *Machine {
	m := &Machine{catalog: domain.CopyChallenges(catalog)}
	m.state = domain.NewGameState(m.catalog)
	return m
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() domain.GameState {
	return m.state.Clone()
}

// Screen returns the current screen.
func (m *Machine) Screen() domain.Screen {
	return m.state.Screen
}

// IsPlaying reports whether the elapsed counter should run.
func (m *Machine) IsPlaying() bool {
	return m.state.IsPlaying
}

// Active returns a copy of the active challenge.
func (m *Machine) Active() (domain.Challenge, bool) {
	if m.state.ActiveChallenge == nil {
		return domain.Challenge{}, false
	}
	return *m.state.ActiveChallenge, true
}

// Attempt numbers challenge selections; results from an older attempt are stale.
func (m *Machine) Attempt() uint64 {
	return m.attempt
}

// Start leaves the intro for the menu and starts the elapsed counter.
func (m *Machine) Start() bool {
	if m.state.Screen != domain.ScreenIntro {
		log.Printf("Machine.Start: ignored on screen=%s", m.state.Screen)
		return false
	}
	m.state.Screen = domain.ScreenMenu
	m.state.IsPlaying = true
	return true
}

// SelectChallenge opens the challenge with id. Unknown or completed challenges
// are ignored.
func (m *Machine) SelectChallenge(id string) bool {
	if m.state.Screen != domain.ScreenMenu {
		log.Printf("Machine.SelectChallenge: ignored on screen=%s id=%s", m.state.Screen, id)
		return false
	}
	idx := m.state.FindChallenge(id)
	if idx < 0 {
		log.Printf("Machine.SelectChallenge: unknown challenge id=%s", id)
		return false
	}
	if m.state.Challenges[idx].Completed {
		log.Printf("Machine.SelectChallenge: challenge id=%s already completed", id)
		return false
	}

	active := m.state.Challenges[idx]
	m.state.ActiveChallenge = &active
	m.state.Screen = domain.ScreenChallenge
	m.attempt++
	return true
}

// CompleteChallenge marks the active challenge done and advances progress.
// Reaching full progress ends the run in victory on the same transition.
func (m *Machine) CompleteChallenge() bool {
	if m.state.Screen != domain.ScreenChallenge || m.state.ActiveChallenge == nil {
		log.Printf("Machine.CompleteChallenge: ignored on screen=%s", m.state.Screen)
		return false
	}

	if idx := m.state.FindChallenge(m.state.ActiveChallenge.ID); idx >= 0 {
		m.state.Challenges[idx].Completed = true
	}
	m.state.ProgressPercent = min(m.state.ProgressPercent+domain.ProgressStep, domain.MaxProgress)
	if m.state.ProgressPercent >= domain.MaxProgress {
		m.state.Screen = domain.ScreenVictory
	} else {
		m.state.Screen = domain.ScreenMenu
	}
	m.state.ActiveChallenge = nil
	return true
}

// FailChallenge ends the run. The active challenge is cleared like on every
// other exit from the challenge screen.
func (m *Machine) FailChallenge() bool {
	if m.state.Screen != domain.ScreenChallenge {
		log.Printf("Machine.FailChallenge: ignored on screen=%s", m.state.Screen)
		return false
	}
	m.state.Screen = domain.ScreenGameOver
	m.state.ActiveChallenge = nil
	return true
}

// ReturnToMenu abandons the active challenge without completing it.
func (m *Machine) ReturnToMenu() bool {
	if m.state.Screen != domain.ScreenChallenge {
		log.Printf("Machine.ReturnToMenu: ignored on screen=%s", m.state.Screen)
		return false
	}
	m.state.Screen = domain.ScreenMenu
	m.state.ActiveChallenge = nil
	return true
}

// TogglePlaying pauses or resumes the elapsed counter on any screen.
func (m *Machine) TogglePlaying() bool {
	m.state.IsPlaying = !m.state.IsPlaying
	return true
}

// Reset replaces the whole state with a fresh run.
func (m *Machine) Reset() bool {
	m.state = domain.NewGameState(m.catalog)
	return true
}

// Tick adds one elapsed second while playing outside the intro.
func (m *Machine) Tick() bool {
	if !m.state.IsPlaying || m.state.Screen == domain.ScreenIntro {
		return false
	}
	m.state.ElapsedSeconds++
	return true
}
