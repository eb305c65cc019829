package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeJoin   MessageType = "join"
	MessageTypeAnswer MessageType = "answer"

	// Server to client messages
	MessageTypeJoined   MessageType = "joined"
	MessageTypeAsk      MessageType = "ask"
	MessageTypeLog      MessageType = "log"
	MessageTypeTimeout  MessageType = "timeout"
	MessageTypeGameOver MessageType = "game_over"
	MessageTypeError    MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
