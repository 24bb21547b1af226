package domain

import "time"

// Kind distinguishes active players from spectators
type Kind string

const (
	KindPlayer    Kind = "PLAYER"
	KindSpectator Kind = "SPECTATOR"
)

// Player represents a participant in a room. The ID is connection-scoped:
// a reconnect produces a new Player with a fresh score.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	IsHost    bool      `json:"isHost"`
	IsReady   bool      `json:"isReady"`
	Role      Role      `json:"-"`
	Word      string    `json:"-"`
	VotedFor  string    `json:"-"`
	Score     int       `json:"score"`
	LiveInput string    `json:"-"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given ID and display name
func NewPlayer(id, name string, kind Kind) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Kind:     kind,
		Role:     RoleNone,
		JoinedAt: time.Now(),
	}
}

// IsActive reports whether the player takes part in rounds
func (p *Player) IsActive() bool {
	return p.Kind == KindPlayer
}

// ResetForRound clears the per-round state before role assignment
func (p *Player) ResetForRound() {
	p.Role = RoleNone
	p.Word = ""
	p.VotedFor = ""
	p.LiveInput = ""
}

// PlayerInfo is a safe view of player data. It never carries the role,
// the word, or the vote target, so it can be broadcast freely.
type PlayerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	IsHost   bool   `json:"isHost"`
	IsReady  bool   `json:"isReady"`
	HasVoted bool   `json:"hasVoted"`
	Score    int    `json:"score"`
}

// ToInfo converts a Player to PlayerInfo
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:       p.ID,
		Name:     p.Name,
		Kind:     p.Kind,
		IsHost:   p.IsHost,
		IsReady:  p.IsReady,
		HasVoted: p.VotedFor != "",
		Score:    p.Score,
	}
}
