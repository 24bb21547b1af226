package domain

// VoteTally accumulates one vote per active player. Targets are opaque
// ids; a vote for an id nobody holds simply never leads.
type VoteTally struct {
	counts map[string]int
	voters map[string]string // voter id -> target id
}

// NewVoteTally creates an empty tally
func NewVoteTally() *VoteTally {
	return &VoteTally{
		counts: make(map[string]int),
		voters: make(map[string]string),
	}
}

// Cast records a vote. Returns false if the voter already voted; a
// second vote is a stale client action, not an error.
func (v *VoteTally) Cast(voterID, targetID string) bool {
	if _, ok := v.voters[voterID]; ok {
		return false
	}
	v.voters[voterID] = targetID
	v.counts[targetID]++
	return true
}

// Retract removes a departed voter's contribution, if any
func (v *VoteTally) Retract(voterID string) {
	target, ok := v.voters[voterID]
	if !ok {
		return
	}
	delete(v.voters, voterID)
	v.counts[target]--
	if v.counts[target] <= 0 {
		delete(v.counts, target)
	}
}

// HasVoted reports whether the given voter already cast a vote
func (v *VoteTally) HasVoted(voterID string) bool {
	_, ok := v.voters[voterID]
	return ok
}

// VotedCount returns how many votes have been cast
func (v *VoteTally) VotedCount() int {
	return len(v.voters)
}

// Counts returns a copy of the target -> count mapping
func (v *VoteTally) Counts() map[string]int {
	out := make(map[string]int, len(v.counts))
	for target, count := range v.counts {
		out[target] = count
	}
	return out
}

// Leading returns the single target holding strictly more votes than
// every other target. A tie at the top, or an empty tally, yields no
// clear target. The strictness makes the result deterministic without
// depending on map iteration order.
func (v *VoteTally) Leading() (string, bool) {
	best := ""
	bestCount := 0
	tied := false

	for target, count := range v.counts {
		switch {
		case count > bestCount:
			best = target
			bestCount = count
			tied = false
		case count == bestCount && count > 0:
			tied = true
		}
	}

	if bestCount == 0 || tied {
		return "", false
	}
	return best, true
}
