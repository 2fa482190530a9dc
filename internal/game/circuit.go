package game

import (
	"fmt"

	"nexus_game/internal/domain"
)

// PointKind - role of a circuit point on the board
type PointKind string

const (
	PointInput     PointKind = "input"
	PointOutput    PointKind = "output"
	PointComponent PointKind = "component"
)

type CircuitPoint struct {
	ID   string    `json:"id"`
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Kind PointKind `json:"type"`
}

// Wire is an undirected connection between two points.
type Wire struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (w Wire) same(o Wire) bool {
	return (w.From == o.From && w.To == o.To) || (w.From == o.To && w.To == o.From)
}

var circuitPoints = []CircuitPoint{
	{ID: "battery", X: 50, Y: 100, Kind: PointInput},
	{ID: "resistor1", X: 150, Y: 100, Kind: PointComponent},
	{ID: "led1", X: 250, Y: 100, Kind: PointComponent},
	{ID: "switch1", X: 350, Y: 100, Kind: PointComponent},
	{ID: "ground1", X: 450, Y: 100, Kind: PointOutput},
	{ID: "capacitor", X: 200, Y: 200, Kind: PointComponent},
	{ID: "resistor2", X: 300, Y: 200, Kind: PointComponent},
	{ID: "ground2", X: 450, Y: 200, Kind: PointOutput},
}

var requiredWires = []Wire{
	{From: "battery", To: "resistor1"},
	{From: "resistor1", To: "led1"},
	{From: "led1", To: "switch1"},
	{From: "switch1", To: "ground1"},
	{From: "resistor1", To: "capacitor"},
	{From: "capacitor", To: "resistor2"},
	{From: "resistor2", To: "ground2"},
}

// CircuitGame - wire the board until every required connection exists.
// Extra wires are allowed and never fail the attempt.
type CircuitGame struct {
	base
	wires    []Wire
	selected string
}

func NewCircuitGame() *CircuitGame {
	g := &CircuitGame{base: newBase()}
	g.phase = PhaseAwaitingInput
	return g
}

func (g *CircuitGame) Category() domain.Category { return domain.CategoryEngineering }

func (g *CircuitGame) ClockRunning() bool { return g.phase != PhaseResolved }

func (g *CircuitGame) HandleMove(m Move) error {
	if err := g.checkOpen(); err != nil {
		return err
	}

	switch m.Action {
	case ActionReset:
		g.wires = nil
		g.selected = ""
		return nil

	case ActionSelect:
		if !knownPoint(m.Point) {
			return fmt.Errorf("%w: unknown point %q", ErrInvalidMove, m.Point)
		}
		if g.selected == "" {
			g.selected = m.Point
			return nil
		}
		if g.selected == m.Point {
			g.selected = ""
			return nil
		}

		w := Wire{From: g.selected, To: m.Point}
		g.selected = ""
		if hasWire(g.wires, w) {
			return nil
		}
		g.wires = append(g.wires, w)
		if g.complete() {
			g.resolve(OutcomePassed)
		}
		return nil
	}

	return fmt.Errorf("%w: circuit action %q", ErrInvalidMove, m.Action)
}

func (g *CircuitGame) complete() bool {
	for _, req := range requiredWires {
		if !hasWire(g.wires, req) {
			return false
		}
	}
	return true
}

// Connected counts required wires already in place.
func (g *CircuitGame) Connected() int {
	n := 0
	for _, req := range requiredWires {
		if hasWire(g.wires, req) {
			n++
		}
	}
	return n
}

func hasWire(wires []Wire, w Wire) bool {
	for _, have := range wires {
		if have.same(w) {
			return true
		}
	}
	return false
}

func knownPoint(id string) bool {
	for _, p := range circuitPoints {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (g *CircuitGame) SerializeState() any {
	return map[string]any{
		"type":      domain.CategoryEngineering,
		"phase":     g.phase,
		"outcome":   g.outcome,
		"points":    circuitPoints,
		"wires":     append([]Wire(nil), g.wires...),
		"selected":  g.selected,
		"connected": g.Connected(),
		"required":  len(requiredWires),
	}
}
