package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby     Phase = "LOBBY"      // Waiting for players to ready up
	PhasePlaying   Phase = "PLAYING"    // Players describing their word in turn order
	PhaseVoting    Phase = "VOTING"     // Everyone votes for the suspected liar
	PhaseLiarGuess Phase = "LIAR_GUESS" // The liar gets one shot at the citizen word
	PhaseResult    Phase = "RESULT"     // Outcome and scores revealed
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// InRound reports whether a round is currently in progress.
// LOBBY and RESULT are the only phases a round is not running in.
func (p Phase) InRound() bool {
	return p == PhasePlaying || p == PhaseVoting || p == PhaseLiarGuess
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:     {PhasePlaying},
		PhasePlaying:   {PhaseVoting, PhaseLobby},
		PhaseVoting:    {PhaseLiarGuess, PhaseLobby},
		PhaseLiarGuess: {PhaseResult, PhaseLobby},
		PhaseResult:    {PhasePlaying},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
