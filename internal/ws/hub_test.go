package ws

import (
	"encoding/json"
	"testing"

	"nexus_game/internal/catalog"
	"nexus_game/internal/session"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, hub *Hub, sess *session.Session) *Client {
	t.Helper()
	c := &Client{
		SessionID: sess.ID,
		Send:      make(chan []byte, 16),
		Hub:       hub,
		Session:   sess,
		Done:      make(chan struct{}),
	}
	hub.Register(c)
	return c
}

func newTestSession(t *testing.T, id string) *session.Session {
	t.Helper()
	s := session.New(id, catalog.Default(), session.Options{Clock: clockwork.NewFakeClock()})
	t.Cleanup(s.Close)
	return s
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func next(t *testing.T, c *Client) frame {
	t.Helper()
	select {
	case data := <-c.Send:
		var f frame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	default:
		t.Fatal("no frame queued")
		return frame{}
	}
}

func stateOf(t *testing.T, f frame) session.Snapshot {
	t.Helper()
	require.Equal(t, MsgState, f.Type)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(f.Payload, &snap))
	return snap
}

func TestHub_BroadcastReachesOnlyThatSession(t *testing.T) {
	hub := NewHub()
	a := newTestSession(t, "a")
	b := newTestSession(t, "b")
	a.SetListener(hub.Broadcast)

	ca1 := newTestClient(t, hub, a)
	ca2 := newTestClient(t, hub, a)
	cb := newTestClient(t, hub, b)
	assert.Equal(t, 2, hub.ClientCount("a"))

	a.Start()

	for _, c := range []*Client{ca1, ca2} {
		snap := stateOf(t, next(t, c))
		assert.Equal(t, "a", snap.SessionID)
		assert.Equal(t, uint64(1), snap.Version)
		assert.Equal(t, "menu", string(snap.State.Screen))
	}
	assert.Empty(t, cb.Send)
}

func TestHub_BroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	s := newTestSession(t, "a")
	c := &Client{SessionID: "a", Send: make(chan []byte, 1), Hub: hub, Session: s}
	hub.Register(c)

	hub.Broadcast(s.Snapshot())
	hub.Broadcast(s.Snapshot())
	assert.Len(t, c.Send, 1)
}

func TestHub_UnregisterClosesSendOnce(t *testing.T) {
	hub := NewHub()
	s := newTestSession(t, "a")
	c := newTestClient(t, hub, s)

	hub.Unregister(c)
	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount("a"))

	_, ok := <-c.Send
	assert.False(t, ok)

	// broadcasting to a session with no sockets is a no-op
	hub.Broadcast(s.Snapshot())
}
