package domain

// Roster is the ordered collection of participants in a room. Join order
// is preserved because host promotion deterministically picks the first
// remaining entry.
type Roster struct {
	players []*Player
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{players: make([]*Player, 0, 8)}
}

// Add appends a player. The first-ever joiner becomes host and is
// implicitly ready. Fails if the display name is already taken by a
// current participant (case-sensitive exact match).
func (r *Roster) Add(p *Player) error {
	for _, existing := range r.players {
		if existing.Name == p.Name {
			return ErrDuplicateName
		}
	}

	if len(r.players) == 0 {
		p.IsHost = true
		p.IsReady = true
	}

	r.players = append(r.players, p)
	return nil
}

// Remove deletes the player with the given id and returns it.
// Host promotion is the caller's concern.
func (r *Roster) Remove(id string) (*Player, bool) {
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// Get returns a player by id
func (r *Roster) Get(id string) (*Player, bool) {
	for _, p := range r.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Len returns the total number of participants, spectators included
func (r *Roster) Len() int {
	return len(r.players)
}

// Actives returns the PLAYER-kind participants in join order
func (r *Roster) Actives() []*Player {
	actives := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if p.IsActive() {
			actives = append(actives, p)
		}
	}
	return actives
}

// ActiveCount returns the number of PLAYER-kind participants
func (r *Roster) ActiveCount() int {
	count := 0
	for _, p := range r.players {
		if p.IsActive() {
			count++
		}
	}
	return count
}

// AllReady reports whether every active player is ready
func (r *Roster) AllReady() bool {
	for _, p := range r.players {
		if p.IsActive() && !p.IsReady {
			return false
		}
	}
	return true
}

// HasHost reports whether any participant currently holds the host flag
func (r *Roster) HasHost() bool {
	for _, p := range r.players {
		if p.IsHost {
			return true
		}
	}
	return false
}

// PromoteNextHost makes the first remaining entry in join order the host
// and marks them ready. Returns the new host id, or false on an empty
// roster.
func (r *Roster) PromoteNextHost() (string, bool) {
	if len(r.players) == 0 {
		return "", false
	}
	next := r.players[0]
	next.IsHost = true
	next.IsReady = true
	return next.ID, true
}

// PromoteSpectators converts every spectator into an eligible player for
// the next round. Promoted players start unready so they gate the next
// start like anyone else.
func (r *Roster) PromoteSpectators() {
	for _, p := range r.players {
		if p.Kind == KindSpectator {
			p.Kind = KindPlayer
			p.IsReady = p.IsHost
		}
	}
}

// Each calls fn for every participant in join order
func (r *Roster) Each(fn func(*Player)) {
	for _, p := range r.players {
		fn(p)
	}
}

// Infos returns broadcast-safe views of all participants in join order
func (r *Roster) Infos() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, p.ToInfo())
	}
	return infos
}
