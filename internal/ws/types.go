package ws

const (
	// client - server
	MsgOp   = "op"
	MsgMove = "move"
	MsgPing = "ping"

	// server - client
	MsgReady = "ready"
	MsgState = "state"
	MsgPong  = "pong"
	MsgError = "error"
)

// Message is every server to client frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
