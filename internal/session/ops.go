package session

import (
	"errors"
	"fmt"
)

// Operation names accepted by Do.
const (
	OpStart    = "start"
	OpSelect   = "select"
	OpComplete = "complete"
	OpFail     = "fail"
	OpMenu     = "menu"
	OpToggle   = "toggle"
	OpReset    = "reset"
)

var (
	ErrUnknownOp          = errors.New("unknown operation")
	ErrMissingChallengeID = errors.New("challenge_id is required")
	ErrMissingAttemptID   = errors.New("attempt_id is required")
)

// Command is a transport-neutral request for one state operation.
// complete and fail must name their attempt so a late report from an
// abandoned attempt cannot resolve a newer one.
type Command struct {
	Op          string `json:"op"`
	ChallengeID string `json:"challenge_id,omitempty"`
	AttemptID   uint64 `json:"attempt_id,omitempty"`
}

// Do routes cmd to the matching operation.
func (s *Session) Do(cmd Command) (bool, Snapshot, error) {
	switch cmd.Op {
	case OpStart:
		return s.Start()
	case OpSelect:
		if cmd.ChallengeID == "" {
			return false, s.Snapshot(), ErrMissingChallengeID
		}
		return s.SelectChallenge(cmd.ChallengeID)
	case OpComplete, OpFail:
		if cmd.AttemptID == 0 {
			return false, s.Snapshot(), ErrMissingAttemptID
		}
		if cmd.Op == OpComplete {
			return s.CompleteChallenge(cmd.AttemptID)
		}
		return s.FailChallenge(cmd.AttemptID)
	case OpMenu:
		return s.ReturnToMenu()
	case OpToggle:
		return s.TogglePlaying()
	case OpReset:
		return s.Reset()
	default:
		return false, s.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}
