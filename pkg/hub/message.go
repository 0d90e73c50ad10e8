// Package hub provides a websocket broadcast hub with the channel-based
// fan-out pattern: one Run goroutine owns the client set, per-client
// send buffers absorb bursts, and slow clients are dropped.
package hub

// MessageType selects the websocket frame type for a broadcast.
type MessageType int

const (
	// JSONMessage carries pre-encoded JSON (cycle events, state).
	JSONMessage MessageType = iota
	// BinaryMessage carries raw bytes (captured JPEG frames).
	BinaryMessage
)

// Message is one payload to broadcast to every connected client.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON bytes.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps raw binary data.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
