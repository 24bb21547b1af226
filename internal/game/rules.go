package game

// Rules are the per-room gameplay parameters
type Rules struct {
	MinPlayers   int
	MaxPlayers   int
	TurnSeconds  int
	VoteSeconds  int
	GuessSeconds int
}

// DefaultRules returns the default gameplay parameters
func DefaultRules() Rules {
	return Rules{
		MinPlayers:   3,
		MaxPlayers:   10,
		TurnSeconds:  30,
		VoteSeconds:  30,
		GuessSeconds: 20,
	}
}
