package game

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"nexus_game/internal/domain"
)

type Factory struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFactory builds mini-games; rng seeds the logic sequences and may be nil.
func NewFactory(rng *rand.Rand) *Factory {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Factory{rng: rng}
}

func (f *Factory) Create(category domain.Category) (MiniGame, error) {
	switch category {
	case domain.CategoryLogic:
		return NewLogicGame(f.child()), nil
	case domain.CategoryProgramming:
		return NewProgrammingGame(), nil
	case domain.CategoryLibre:
		return NewLibreGame(), nil
	case domain.CategoryEngineering:
		return NewCircuitGame(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
}

// child derives an independent source so each logic game owns its rng.
func (f *Factory) child() *rand.Rand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return rand.New(rand.NewPCG(f.rng.Uint64(), f.rng.Uint64()))
}
