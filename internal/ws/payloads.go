package ws

import (
	"nexus_game/internal/game"
	"nexus_game/internal/session"
)

// client → server
type ClientMessage struct {
	Type        string     `json:"type"`
	Op          string     `json:"op,omitempty"`
	ChallengeID string     `json:"challenge_id,omitempty"`
	AttemptID   uint64     `json:"attempt_id,omitempty"`
	Move        *game.Move `json:"move,omitempty"`
}

func (m ClientMessage) Command() session.Command {
	return session.Command{Op: m.Op, ChallengeID: m.ChallengeID, AttemptID: m.AttemptID}
}

// server → client
type ErrorPayload struct {
	Message string `json:"message"`
}
