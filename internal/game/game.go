package game

import (
	"errors"

	"nexus_game/internal/domain"
)

// Phase - where a mini-game is in its own small lifecycle
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePresenting    Phase = "presenting"
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseResolved      Phase = "resolved"
)

// Outcome - result of a mini-game attempt
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
)

// Move actions accepted by the mini-games.
const (
	ActionPresented = "presented" // logic: playback finished on the client
	ActionPress     = "press"     // logic: value 1..4
	ActionAnswer    = "answer"    // quizzes: option text
	ActionSelect    = "select"    // circuit: point id
	ActionReset     = "reset"     // circuit: clear connections
)

var (
	ErrUnknownCategory = errors.New("unknown challenge category")
	ErrInvalidMove     = errors.New("invalid move")
	ErrWrongPhase      = errors.New("move not allowed in current phase")
	ErrResolved        = errors.New("mini-game already resolved")
)

// Move is one player input routed to the active mini-game.
type Move struct {
	Action string `json:"action"`
	Value  int    `json:"value,omitempty"`
	Answer string `json:"answer,omitempty"`
	Point  string `json:"point,omitempty"`
}

// MiniGame is the logic behind one challenge category.
type MiniGame interface {
	Category() domain.Category

	Phase() Phase
	Outcome() Outcome

	// ClockRunning reports whether the challenge countdown should elapse.
	ClockRunning() bool

	HandleMove(m Move) error

	// Serialization for client
	SerializeState() any
}

type base struct {
	phase   Phase
	outcome Outcome
}

func newBase() base {
	return base{phase: PhaseIdle, outcome: OutcomePending}
}

func (b *base) Phase() Phase     { return b.phase }
func (b *base) Outcome() Outcome { return b.outcome }

func (b *base) resolve(o Outcome) {
	b.phase = PhaseResolved
	b.outcome = o
}

func (b *base) checkOpen() error {
	if b.phase == PhaseResolved {
		return ErrResolved
	}
	return nil
}
