package ws

import (
	"encoding/json"
	"log"
	"time"

	"nexus_game/internal/session"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 64
)

type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	Hub     *Hub
	Session *session.Session
	Done    chan struct{}
}

func NewClient(sess *session.Session, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		SessionID: sess.ID,
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
		Hub:       hub,
		Session:   sess,
		Done:      make(chan struct{}),
	}
}

// Run registers the client, greets it with the current state and serves it
// until the connection drops.
func (c *Client) Run() {
	c.Hub.Register(c)
	go c.writePump()

	c.send(Message{Type: MsgReady})
	c.send(Message{Type: MsgState, Payload: c.Session.Snapshot()})

	c.readPump()
}

//read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Client.readPump: session=%s read error: %v", c.SessionID, err)
			}
			return
		}
		c.HandleMessage(msg)
	}
}

// HandleMessage applies one client frame to the session. Applied changes reach
// the client through the hub; rejected ones are answered directly so the view
// can resync.
func (c *Client) HandleMessage(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("Client.HandleMessage: session=%s failed to unmarshal: %v", c.SessionID, err)
		c.sendError("malformed message")
		return
	}

	var (
		applied bool
		snap    session.Snapshot
		err     error
	)
	switch msg.Type {
	case MsgPing:
		c.Session.Touch()
		c.send(Message{Type: MsgPong})
		return
	case MsgOp:
		applied, snap, err = c.Session.Do(msg.Command())
	case MsgMove:
		if msg.Move == nil {
			c.sendError("move is required")
			return
		}
		applied, snap, err = c.Session.Move(msg.AttemptID, *msg.Move)
	default:
		c.sendError("unknown message type: " + msg.Type)
		return
	}

	if err != nil {
		log.Printf("Client.HandleMessage: session=%s type=%s op=%s error: %v", c.SessionID, msg.Type, msg.Op, err)
		c.sendError(err.Error())
	}
	if !applied {
		c.send(Message{Type: MsgState, Payload: snap})
	}
}

func (c *Client) sendError(message string) {
	c.send(Message{Type: MsgError, Payload: ErrorPayload{Message: message}})
}

// send queues msg for this client only. It runs on the read goroutine, which
// is the only path that unregisters the client, so Send is still open.
func (c *Client) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Client.send: marshal error: %v", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("Client.send: session=%s type=%s dropped, buffer full", c.SessionID, msg.Type)
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Client.writePump: session=%s write error: %v", c.SessionID, err)
				return
			}

		case <-ticker.C:
			// an open socket keeps its session from idling out
			c.Session.Touch()
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
