package game

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"liargame/internal/domain"
	"liargame/internal/words"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// Session is the per-room game actor. Every mutation, whether from a
// player action or from the room's own timer, runs under mu, so no two
// mutations ever interleave. The timer callbacks re-check their epoch
// under the same lock before acting.
type Session struct {
	id      string
	rules   Rules
	catalog *words.Catalog
	logger  *slog.Logger

	mu     sync.Mutex
	roster *domain.Roster
	turns  *domain.TurnSequencer
	tally  *domain.VoteTally
	timer  *RoundTimer
	phase  domain.Phase
	rng    *rand.Rand

	// Per-round fields, reset at the start of each PLAYING phase.
	// The liar's name and word are remembered separately so the result
	// can still name a liar who disconnected mid-round.
	category    string
	citizenWord string
	liarWord    string
	liarID      string
	liarName    string
	outcome     domain.RoundOutcome

	clients   map[string]ClientConnection
	clientsMu sync.RWMutex

	events    chan *domain.RoomEvent
	done      chan struct{}
	closeOnce sync.Once
	createdAt time.Time
}

// NewSession creates a session for one room. The rng is the session's
// only source of randomness so rounds are reproducible under a fixed
// seed.
func NewSession(id string, catalog *words.Catalog, rules Rules, rng *rand.Rand, logger *slog.Logger) *Session {
	s := &Session{
		id:        id,
		rules:     rules,
		catalog:   catalog,
		logger:    logger.With("roomID", id),
		roster:    domain.NewRoster(),
		tally:     domain.NewVoteTally(),
		timer:     NewRoundTimer(),
		phase:     domain.PhaseLobby,
		rng:       rng,
		clients:   make(map[string]ClientConnection),
		events:    make(chan *domain.RoomEvent, 100),
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}

	go s.eventLoop()

	return s
}

// ID returns the room id
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Phase returns the current phase
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// PlayerCount returns the number of participants, spectators included
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Len()
}

// RegisterClient registers a client connection for a player
func (s *Session) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *Session) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// Join adds a participant. A joiner during an in-progress round becomes
// a spectator until the next round starts. The first-ever joiner is the
// host and implicitly ready.
func (s *Session) Join(playerID, name string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roster.Len() >= s.rules.MaxPlayers {
		return nil, domain.ErrRoomFull
	}

	kind := domain.KindPlayer
	if s.phase.InRound() {
		kind = domain.KindSpectator
	}

	player := domain.NewPlayer(playerID, name, kind)
	if err := s.roster.Add(player); err != nil {
		return nil, err
	}

	s.broadcastRoster()
	s.logger.Info("player joined", "playerID", playerID, "name", name, "kind", kind)

	return player, nil
}

// ToggleReady flips a non-host player's readiness. The host is always
// implicitly ready, so a host toggle is dropped.
func (s *Session) ToggleReady(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.roster.Get(playerID)
	if !ok || player.IsHost {
		return
	}

	player.IsReady = !player.IsReady
	s.broadcastRoster()
}

// StartRound begins a round from LOBBY or RESULT. Host only. Requires
// at least MinPlayers active players, all of them ready.
func (s *Session) StartRound(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseLobby && s.phase != domain.PhaseResult {
		return domain.ErrInvalidPhase
	}

	player, ok := s.roster.Get(playerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if !player.IsHost {
		return domain.ErrNotHost
	}

	actives := s.roster.Actives()
	if len(actives) < s.rules.MinPlayers {
		return domain.ErrNotEnoughPlayers
	}
	if !s.roster.AllReady() {
		return domain.ErrNotAllReady
	}

	pair := s.catalog.Draw(s.rng)
	s.category = pair.Category
	s.citizenWord = pair.WordA
	s.liarWord = pair.WordB

	liar := actives[s.rng.Intn(len(actives))]
	s.liarID = liar.ID
	s.liarName = liar.Name

	order := make([]string, len(actives))
	for i, p := range actives {
		order[i] = p.ID
	}
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	s.turns = domain.NewTurnSequencer(order)
	s.tally = domain.NewVoteTally()
	s.outcome = domain.RoundOutcome{}

	s.roster.Each(func(p *domain.Player) {
		p.ResetForRound()
		switch {
		case !p.IsActive():
			p.Role = domain.RoleWatcher
		case p.ID == s.liarID:
			p.Role = domain.RoleLiar
			p.Word = s.liarWord
		default:
			p.Role = domain.RoleCitizen
			p.Word = s.citizenWord
		}
	})

	s.setPhase(domain.PhasePlaying)

	// Roles are only ever unicast; no broadcast may name the liar
	// before the result.
	s.roster.Each(func(p *domain.Player) {
		s.queueEvent(domain.NewPlayerEvent(domain.EventRoleAssigned, s.id, p.ID, &domain.RolePayload{
			Role:     p.Role,
			Word:     p.Word,
			Category: s.category,
		}))
	})

	s.announceTurn()
	s.startCountdown(s.rules.TurnSeconds)

	s.logger.Info("round started", "category", s.category, "players", len(actives))

	return nil
}

// AdvanceTurn ends the current player's turn, optionally relaying their
// description as a system chat line. Requests from anyone but the
// current turn holder, or outside PLAYING, are stale and dropped.
func (s *Session) AdvanceTurn(playerID, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhasePlaying || s.turns == nil || !s.turns.IsCurrent(playerID) {
		return
	}

	if description != "" {
		s.systemChat(s.playerName(playerID), description)
	}

	s.turns.Advance()
	s.afterTurnStep()
}

// afterTurnStep re-evaluates the sequence after the cursor moved or the
// current holder was removed, announcing the next turn or entering
// VOTING when exhausted.
func (s *Session) afterTurnStep() {
	if _, ok := s.turns.Current(); ok {
		s.announceTurn()
		s.startCountdown(s.rules.TurnSeconds)
		return
	}

	s.setPhase(domain.PhaseVoting)
	s.startCountdown(s.rules.VoteSeconds)
}

// CastVote records a vote for targetID. The target is an opaque id: a
// vote for a departed or unknown id is accepted and simply never leads.
// Spectator votes and second votes are stale and dropped.
func (s *Session) CastVote(voterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseVoting {
		return domain.ErrInvalidPhase
	}

	voter, ok := s.roster.Get(voterID)
	if !ok || !voter.IsActive() {
		return nil
	}

	if !s.tally.Cast(voterID, targetID) {
		return nil
	}
	voter.VotedFor = targetID

	total := s.roster.ActiveCount()
	s.queueEvent(domain.NewEvent(domain.EventVoteProgress, s.id, &domain.VoteProgressPayload{
		Voted: s.tally.VotedCount(),
		Total: total,
	}))

	if s.tally.VotedCount() >= total {
		s.resolveVotes()
	}

	return nil
}

// resolveVotes closes the vote, scores it, and moves to LIAR_GUESS.
// A successful vote never skips the liar's chance to recover.
func (s *Session) resolveVotes() {
	leading, ok := s.tally.Leading()
	s.outcome.VoteSucceeded = ok && leading == s.liarID

	if s.outcome.VoteSucceeded {
		s.awardCitizens()
	} else if liar, found := s.roster.Get(s.liarID); found {
		liar.Score++
	}

	s.setPhase(domain.PhaseLiarGuess)

	liar, present := s.roster.Get(s.liarID)
	if !present {
		// The liar is already gone; no guess can arrive.
		s.awardCitizens()
		s.finishRound(false)
		return
	}

	s.queueEvent(domain.NewPlayerEvent(domain.EventGuessPrompt, s.id, liar.ID, &domain.PhasePayload{
		Phase: domain.PhaseLiarGuess,
	}))
	s.startCountdown(s.rules.GuessSeconds)
}

// SubmitGuess resolves the liar's guess against the citizen word,
// trimmed, case-sensitive. Guesses from anyone else are dropped.
func (s *Session) SubmitGuess(playerID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseLiarGuess {
		return domain.ErrInvalidPhase
	}
	if playerID != s.liarID {
		return nil
	}

	s.resolveGuess(text)
	return nil
}

// resolveGuess scores the guess and ends the round
func (s *Session) resolveGuess(text string) {
	correct := strings.TrimSpace(text) == s.citizenWord

	if correct {
		if liar, ok := s.roster.Get(s.liarID); ok {
			liar.Score++
		}
	} else {
		s.awardCitizens()
	}

	s.finishRound(correct)
}

// finishRound enters RESULT, reveals the outcome and updated scores,
// and clears the per-player round state.
func (s *Session) finishRound(guessSucceeded bool) {
	s.outcome.GuessSucceeded = guessSucceeded
	s.timer.Cancel()
	s.setPhase(domain.PhaseResult)

	s.queueEvent(domain.NewEvent(domain.EventRoundResult, s.id, &domain.ResultPayload{
		VoteSucceeded:  s.outcome.VoteSucceeded,
		GuessSucceeded: s.outcome.GuessSucceeded,
		Liar: domain.LiarReveal{
			ID:   s.liarID,
			Name: s.liarName,
			Word: s.liarWord,
		},
		CitizenWord: s.citizenWord,
		Category:    s.category,
		Votes:       s.tally.Counts(),
	}))

	s.roster.Each(func(p *domain.Player) { p.ResetForRound() })
	s.roster.PromoteSpectators()
	s.broadcastRoster()

	s.logger.Info("round finished",
		"voteSucceeded", s.outcome.VoteSucceeded,
		"guessSucceeded", s.outcome.GuessSucceeded,
	)
}

// awardCitizens gives one point to every citizen of the current round
func (s *Session) awardCitizens() {
	s.roster.Each(func(p *domain.Player) {
		if p.Role == domain.RoleCitizen {
			p.Score++
		}
	})
}

// UpdateLiveInput mirrors a player's in-progress text. It is only ever
// read as a timeout fallback, never authoritative.
func (s *Session) UpdateLiveInput(playerID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player, ok := s.roster.Get(playerID); ok {
		player.LiveInput = text
	}
}

// Chat relays a free-text chat line to the room
func (s *Session) Chat(playerID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.roster.Get(playerID)
	if !ok || message == "" {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventChat, s.id, &domain.ChatPayload{
		AuthorID: player.ID,
		Author:   player.Name,
		Message:  message,
	}))
}

// Leave removes a participant and runs the disconnect-recovery paths:
// host promotion, quorum loss, turn-cursor adjustment, vote retraction,
// and liar flight. Returns true when the roster is now empty and the
// session should be destroyed.
func (s *Session) Leave(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	departed, ok := s.roster.Remove(playerID)
	if !ok {
		return s.roster.Len() == 0
	}

	s.logger.Info("player left", "playerID", playerID, "name", departed.Name)

	if s.roster.Len() == 0 {
		s.timer.Cancel()
		return true
	}

	if departed.IsHost {
		s.roster.PromoteNextHost()
	}

	s.broadcastRoster()

	if !s.phase.InRound() || !departed.IsActive() {
		return false
	}

	// Liar flight during LIAR_GUESS ends the round before any quorum
	// consideration: the guess was the round's last step, so the result
	// stands even if the departure leaves too few players for a new one.
	if s.phase == domain.PhaseLiarGuess && departed.ID == s.liarID {
		s.awardCitizens()
		s.finishRound(false)
		return false
	}

	if s.roster.ActiveCount() < s.rules.MinPlayers {
		s.abortRound(departed.Name + " left; not enough players to continue")
		return false
	}

	switch s.phase {
	case domain.PhasePlaying:
		if s.turns.Remove(departed.ID) == domain.RemovedCurrent {
			s.systemChat(departed.Name, "left the game")
			s.afterTurnStep()
		}
	case domain.PhaseVoting:
		s.tally.Retract(departed.ID)
		total := s.roster.ActiveCount()
		s.queueEvent(domain.NewEvent(domain.EventVoteProgress, s.id, &domain.VoteProgressPayload{
			Voted: s.tally.VotedCount(),
			Total: total,
		}))
		if s.tally.VotedCount() >= total {
			s.resolveVotes()
		}
	}

	return false
}

// abortRound cancels an in-progress round after quorum loss and returns
// the room to LOBBY. Round fields are cleared lazily on the next start.
func (s *Session) abortRound(reason string) {
	s.timer.Cancel()

	s.queueEvent(domain.NewEvent(domain.EventRoundAborted, s.id, &domain.AbortPayload{Reason: reason}))

	s.roster.Each(func(p *domain.Player) { p.ResetForRound() })
	s.roster.PromoteSpectators()
	s.setPhase(domain.PhaseLobby)
	s.broadcastRoster()

	s.logger.Info("round aborted", "reason", reason)
}

// startCountdown starts the room's single countdown. Any previous
// countdown is invalidated; expiry and ticks from it become no-ops.
func (s *Session) startCountdown(seconds int) {
	s.timer.Start(seconds, s.onTick, s.onExpire)
}

// onTick relays the countdown to the room. Runs on the timer goroutine,
// so it serializes through mu like every other mutation.
func (s *Session) onTick(epoch uint64, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.timer.Epoch() {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventTick, s.id, &domain.TickPayload{Remaining: remaining}))
}

// onExpire applies the countdown's expiry effect for whichever phase it
// was guarding. A stale epoch means the phase already advanced for some
// other reason and the expiry must do nothing.
func (s *Session) onExpire(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.timer.Epoch() {
		return
	}

	switch s.phase {
	case domain.PhasePlaying:
		current, ok := s.turns.Current()
		if !ok {
			return
		}
		// Timed out: fall back to whatever the player last mirrored.
		if player, found := s.roster.Get(current); found && player.LiveInput != "" {
			s.systemChat(player.Name, player.LiveInput)
		}
		s.turns.Advance()
		s.afterTurnStep()
	case domain.PhaseVoting:
		s.resolveVotes()
	case domain.PhaseLiarGuess:
		guess := ""
		if liar, ok := s.roster.Get(s.liarID); ok {
			guess = liar.LiveInput
		}
		s.resolveGuess(guess)
	}
}

// Snapshot returns the room state a (re)joining client needs to render,
// including the requesting player's own role and word when a round is
// running. Other players' roles are never included.
func (s *Session) Snapshot(playerID string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := map[string]interface{}{
		"phase":   s.phase,
		"players": s.roster.Infos(),
	}

	if s.phase.InRound() {
		state["category"] = s.category
		if current, ok := s.turns.Current(); ok && s.phase == domain.PhasePlaying {
			state["currentTurn"] = current
		}
		if s.phase == domain.PhaseVoting {
			state["voteProgress"] = &domain.VoteProgressPayload{
				Voted: s.tally.VotedCount(),
				Total: s.roster.ActiveCount(),
			}
		}
		if player, ok := s.roster.Get(playerID); ok && player.Role != domain.RoleNone {
			state["role"] = player.Role
			state["word"] = player.Word
		}
	}

	return state
}

// setPhase transitions the phase and broadcasts the change
func (s *Session) setPhase(phase domain.Phase) {
	if !s.phase.CanTransitionTo(phase) {
		s.logger.Warn("unexpected phase transition", "from", s.phase, "to", phase)
	}
	s.phase = phase
	s.queueEvent(domain.NewEvent(domain.EventPhaseChanged, s.id, &domain.PhasePayload{Phase: phase}))
}

// announceTurn broadcasts whose turn it is
func (s *Session) announceTurn() {
	current, ok := s.turns.Current()
	if !ok {
		return
	}
	s.queueEvent(domain.NewEvent(domain.EventTurnChanged, s.id, &domain.TurnPayload{
		PlayerID: current,
		Name:     s.playerName(current),
	}))
}

// systemChat broadcasts a system-authored chat line attributed to a
// player, used for turn descriptions and departure notices
func (s *Session) systemChat(author, message string) {
	s.queueEvent(domain.NewEvent(domain.EventChat, s.id, &domain.ChatPayload{
		Author:  author,
		Message: message,
		System:  true,
	}))
}

// broadcastRoster sends the current participant list to the room
func (s *Session) broadcastRoster() {
	hostID := ""
	s.roster.Each(func(p *domain.Player) {
		if p.IsHost {
			hostID = p.ID
		}
	})

	s.queueEvent(domain.NewEvent(domain.EventRosterUpdated, s.id, &domain.RosterPayload{
		Players: s.roster.Infos(),
		HostID:  hostID,
	}))
}

func (s *Session) playerName(id string) string {
	if player, ok := s.roster.Get(id); ok {
		return player.Name
	}
	return ""
}

// queueEvent adds an event to the broadcast queue
func (s *Session) queueEvent(event *domain.RoomEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop delivers queued events to clients
func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.deliver(event)
		}
	}
}

// deliver sends an event to its target: one client for player-specific
// events, every client otherwise
func (s *Session) deliver(event *domain.RoomEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// Close shuts down the session, cancelling any running timer and
// closing all client connections
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.timer.Cancel()

		s.clientsMu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clients = make(map[string]ClientConnection)
		s.clientsMu.Unlock()
	})
}
