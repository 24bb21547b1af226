package domain

// RoundOutcome records how the round's two resolution points went:
// whether the vote identified the liar, and whether the liar's guess
// matched the citizen word.
type RoundOutcome struct {
	VoteSucceeded  bool `json:"voteSucceeded"`
	GuessSucceeded bool `json:"guessSucceeded"`
}
