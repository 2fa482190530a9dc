package handlers

import (
	"errors"
	"io"
	"net/http"

	"nexus_game/internal/game"
	"nexus_game/internal/logger"
	"nexus_game/internal/service"
	"nexus_game/internal/session"

	"github.com/gin-gonic/gin"
)

// OpResponse is the body of every state operation.
type OpResponse struct {
	Applied bool             `json:"applied"`
	State   session.Snapshot `json:"state"`
	Error   string           `json:"error,omitempty"`
}

type opRequest struct {
	ChallengeID string `json:"challenge_id"`
	AttemptID   uint64 `json:"attempt_id"`
}

type moveRequest struct {
	AttemptID uint64    `json:"attempt_id"`
	Move      game.Move `json:"move"`
}

// CreateSession opens a new run and issues its token.
func (h *Handler) CreateSession(c *gin.Context) {
	sess := h.Sessions.Create()

	token, err := service.GenerateJWT(sess.ID)
	if err != nil {
		h.Sessions.Remove(sess.ID)
		logger.Error("failed to issue session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"token":      token,
		"state":      sess.Snapshot(),
	})
}

// Challenges lists the catalog every run starts from.
func (h *Handler) Challenges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"challenges": h.Sessions.Catalog()})
}

// GetSession returns the current snapshot, delivering an overdue expiry first.
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	sess.Touch()
	sess.Remaining()
	c.JSON(http.StatusOK, sess.Snapshot())
}

// DeleteSession ends the run.
func (h *Handler) DeleteSession(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	h.Sessions.Remove(sess.ID)
	c.Status(http.StatusNoContent)
}

// Op serves one named state operation. complete and fail need the
// attempt_id from the snapshot that opened the challenge.
func (h *Handler) Op(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := h.currentSession(c)
		if !ok {
			return
		}

		var req opRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		applied, snap, err := sess.Do(session.Command{
			Op:          op,
			ChallengeID: req.ChallengeID,
			AttemptID:   req.AttemptID,
		})
		respond(c, applied, snap, err)
	}
}

// Move forwards player input to the open mini-game.
func (h *Handler) Move(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Move.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	applied, snap, err := sess.Move(req.AttemptID, req.Move)
	respond(c, applied, snap, err)
}

// respond maps session results onto HTTP. Moves and operations the current
// state does not allow are not HTTP errors: they come back with applied=false.
func respond(c *gin.Context, applied bool, snap session.Snapshot, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, OpResponse{Applied: applied, State: snap})
	case errors.Is(err, session.ErrClosed):
		c.JSON(http.StatusNotFound, gin.H{"error": session.ErrSessionNotFound.Error()})
	case errors.Is(err, session.ErrMissingChallengeID),
		errors.Is(err, session.ErrMissingAttemptID),
		errors.Is(err, session.ErrUnknownOp):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Debug("operation rejected", "error", err)
		c.JSON(http.StatusOK, OpResponse{Applied: false, State: snap, Error: err.Error()})
	}
}
