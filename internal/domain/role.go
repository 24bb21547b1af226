package domain

// Role represents a player's role in a round
type Role string

const (
	RoleNone    Role = "NONE"
	RoleCitizen Role = "CITIZEN"
	RoleLiar    Role = "LIAR"
	// RoleWatcher is the sentinel role for spectators during a round.
	// It carries no real word.
	RoleWatcher Role = "WATCHER"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsLiar returns true if this role is the liar
func (r Role) IsLiar() bool {
	return r == RoleLiar
}
