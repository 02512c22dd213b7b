package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypePromote    MessageType = "promote"
	MessageTypeDismiss    MessageType = "dismiss"
	MessageTypeReset      MessageType = "reset"
	MessageTypePointer    MessageType = "pointer"
	MessageTypeBoardState MessageType = "boardState"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type MovePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type PromotePayload struct {
	Piece string `json:"piece"`
}

type ResetPayload struct {
	FEN string `json:"fen"`
}

// PointerPayload reports a raw mouse button event on the board frame.
type PointerPayload struct {
	Button int    `json:"button"`
	Action string `json:"action"` // "down" or "up"
}

type ErrorPayload struct {
	Error string `json:"error"`
}
