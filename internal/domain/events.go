package domain

import "time"

// EventType represents the type of room event
type EventType string

const (
	EventRosterUpdated EventType = "ROSTER_UPDATED"
	EventRoleAssigned  EventType = "ROLE_ASSIGNED" // unicast per player
	EventPhaseChanged  EventType = "PHASE_CHANGED"
	EventTurnChanged   EventType = "TURN_CHANGED"
	EventVoteProgress  EventType = "VOTE_PROGRESS"
	EventGuessPrompt   EventType = "GUESS_PROMPT" // unicast to the liar
	EventRoundResult   EventType = "ROUND_RESULT"
	EventRoundAborted  EventType = "ROUND_ABORTED"
	EventTick          EventType = "TICK"
	EventChat          EventType = "CHAT"
	EventError         EventType = "ERROR"
)

// RoomEvent is an outbound notification produced by a room session.
// A non-empty PlayerID makes the event player-specific (unicast).
type RoomEvent struct {
	Type      EventType   `json:"type"`
	RoomID    string      `json:"roomId"`
	PlayerID  string      `json:"playerId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a broadcast room event
func NewEvent(eventType EventType, roomID string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a player-specific room event
func NewPlayerEvent(eventType EventType, roomID, playerID string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomID:    roomID,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for the different events

// RosterPayload is sent whenever the participant list changes
type RosterPayload struct {
	Players []PlayerInfo `json:"players"`
	HostID  string       `json:"hostId"`
}

// RolePayload is unicast to each participant at round start. Watchers
// receive the sentinel role with an empty word.
type RolePayload struct {
	Role     Role   `json:"role"`
	Word     string `json:"word,omitempty"`
	Category string `json:"category"`
}

// PhasePayload is sent on every phase transition
type PhasePayload struct {
	Phase Phase `json:"phase"`
}

// TurnPayload announces whose turn it is to describe
type TurnPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// VoteProgressPayload is sent after each accepted vote, without
// revealing who voted for whom
type VoteProgressPayload struct {
	Voted int `json:"voted"`
	Total int `json:"total"`
}

// LiarReveal identifies the liar once the round is over
type LiarReveal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Word string `json:"word"`
}

// ResultPayload is the full round outcome, broadcast at RESULT. It is
// the first event that names the liar.
type ResultPayload struct {
	VoteSucceeded  bool           `json:"voteSucceeded"`
	GuessSucceeded bool           `json:"guessSucceeded"`
	Liar           LiarReveal     `json:"liar"`
	CitizenWord    string         `json:"citizenWord"`
	Category       string         `json:"category"`
	Votes          map[string]int `json:"votes"`
}

// AbortPayload is broadcast when a round is cancelled by quorum loss
type AbortPayload struct {
	Reason string `json:"reason"`
}

// TickPayload carries the seconds remaining on the running countdown
type TickPayload struct {
	Remaining int `json:"remaining"`
}

// ChatPayload is a relayed chat line. System lines (turn descriptions,
// departure notices) carry System=true and an empty author id.
type ChatPayload struct {
	AuthorID string `json:"authorId,omitempty"`
	Author   string `json:"author"`
	Message  string `json:"message"`
	System   bool   `json:"system,omitempty"`
}

// ErrorPayload reports a validation failure to the acting player only
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
