package game

import (
	"fmt"
	"log"
	"math/rand/v2"

	"nexus_game/internal/domain"
)

const (
	LogicRounds  = 3
	LogicSymbols = 4
)

// LogicGame - sequence memorization: watch, then repeat, for three growing rounds
type LogicGame struct {
	base
	rng      *rand.Rand
	round    int
	sequence []int
	entered  []int
}

func NewLogicGame(rng *rand.Rand) *LogicGame {
	g := &LogicGame{base: newBase(), rng: rng}
	g.startRound(1)
	return g
}

func (g *LogicGame) Category() domain.Category { return domain.CategoryLogic }

func (g *LogicGame) ClockRunning() bool {
	return g.phase != PhaseResolved
}

func (g *LogicGame) startRound(round int) {
	g.round = round
	g.sequence = make([]int, 2+round)
	for i := range g.sequence {
		g.sequence[i] = g.rng.IntN(LogicSymbols) + 1
	}
	g.entered = g.entered[:0]
	g.phase = PhasePresenting
}

func (g *LogicGame) HandleMove(m Move) error {
	if err := g.checkOpen(); err != nil {
		return err
	}

	switch m.Action {
	case ActionPresented:
		if g.phase != PhasePresenting {
			return ErrWrongPhase
		}
		g.phase = PhaseAwaitingInput
		return nil

	case ActionPress:
		if g.phase != PhaseAwaitingInput {
			return ErrWrongPhase
		}
		if m.Value < 1 || m.Value > LogicSymbols {
			return fmt.Errorf("%w: press value %d", ErrInvalidMove, m.Value)
		}
		g.entered = append(g.entered, m.Value)
		pos := len(g.entered) - 1
		if g.sequence[pos] != m.Value {
			log.Printf("LogicGame.HandleMove: round=%d wrong press at %d", g.round, pos)
			g.resolve(OutcomeFailed)
			return nil
		}
		if len(g.entered) < len(g.sequence) {
			return nil
		}
		if g.round >= LogicRounds {
			g.resolve(OutcomePassed)
			return nil
		}
		g.startRound(g.round + 1)
		return nil
	}

	return fmt.Errorf("%w: logic action %q", ErrInvalidMove, m.Action)
}

func (g *LogicGame) SerializeState() any {
	state := map[string]any{
		"type":         domain.CategoryLogic,
		"phase":        g.phase,
		"outcome":      g.outcome,
		"round":        g.round,
		"total_rounds": LogicRounds,
		"length":       len(g.sequence),
		"entered":      len(g.entered),
	}
	if g.phase == PhasePresenting {
		state["sequence"] = append([]int(nil), g.sequence...)
	}
	return state
}

// Sequence returns a copy of the current round's sequence.
func (g *LogicGame) Sequence() []int {
	return append([]int(nil), g.sequence...)
}

// Round returns the current round, starting at 1.
func (g *LogicGame) Round() int { return g.round }
