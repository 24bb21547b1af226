package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoin        MessageType = "join"
	MsgToggleReady MessageType = "toggle_ready"
	MsgStartRound  MessageType = "start_round"
	MsgAdvanceTurn MessageType = "advance_turn"
	MsgCastVote    MessageType = "cast_vote"
	MsgSubmitGuess MessageType = "submit_guess"
	MsgLiveInput   MessageType = "live_input"
	MsgChat        MessageType = "chat"
	MsgPing        MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected MessageType = "connected"
	MsgEvent     MessageType = "event"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server. The payload
// stays raw until the type is known.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinPayload is the payload for a join message
type JoinPayload struct {
	Name string `json:"name"`
}

// AdvanceTurnPayload is the payload for an advance_turn message
type AdvanceTurnPayload struct {
	Description string `json:"description,omitempty"`
}

// CastVotePayload is the payload for a cast_vote message
type CastVotePayload struct {
	TargetID string `json:"targetId"`
}

// SubmitGuessPayload is the payload for a submit_guess message
type SubmitGuessPayload struct {
	Text string `json:"text"`
}

// LiveInputPayload is the payload for a live_input message
type LiveInputPayload struct {
	Text string `json:"text"`
}

// ChatMessagePayload is the payload for a chat message
type ChatMessagePayload struct {
	Message string `json:"message"`
}

// Server message payloads

// ConnectedPayload is sent once the player has joined a room
type ConnectedPayload struct {
	PlayerID string                 `json:"playerId"`
	RoomID   string                 `json:"roomId"`
	State    map[string]interface{} `json:"state"`
}

// ErrorPayload is the payload for an error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRoomFull       = "ROOM_FULL"
	ErrCodeDuplicateName  = "DUPLICATE_NAME"
	ErrCodeNotHost        = "NOT_HOST"
	ErrCodeNotEnough      = "NOT_ENOUGH_PLAYERS"
	ErrCodeNotAllReady    = "NOT_ALL_READY"
	ErrCodeInvalidPhase   = "INVALID_PHASE"
	ErrCodeNotJoined      = "NOT_JOINED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
