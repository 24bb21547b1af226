package game

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"liargame/internal/domain"
	"liargame/internal/words"
)

const (
	// janitorInterval is how often the registry sweeps for leaked rooms
	janitorInterval = 10 * time.Minute

	// staleRoomAge is how long an empty room may linger before the
	// janitor closes it. Rooms are normally destroyed the moment the
	// last player leaves; the sweep is a safety net.
	staleRoomAge = 2 * time.Hour
)

// Registry maps room ids to sessions. A room is created lazily on the
// first join and destroyed when its last participant leaves. Rooms are
// fully independent of one another.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]*Session
	catalog *words.Catalog
	rules   Rules
	logger  *slog.Logger
	newRNG  func() *rand.Rand
	done    chan struct{}
}

// NewRegistry creates a registry. Each new session gets its own rng
// from newRNG; passing nil uses a time-seeded source.
func NewRegistry(catalog *words.Catalog, rules Rules, logger *slog.Logger, newRNG func() *rand.Rand) *Registry {
	if newRNG == nil {
		newRNG = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}

	r := &Registry{
		rooms:   make(map[string]*Session),
		catalog: catalog,
		rules:   rules,
		logger:  logger,
		newRNG:  newRNG,
		done:    make(chan struct{}),
	}

	go r.janitorLoop()

	return r
}

// Join adds a player to the room, creating the session on first
// reference. A failed join never leaves behind an empty room.
func (r *Registry) Join(roomID, playerID, name string) (*Session, *domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.rooms[roomID]
	if !exists {
		session = NewSession(roomID, r.catalog, r.rules, r.newRNG(), r.logger)
		r.rooms[roomID] = session
		r.logger.Info("room created", "roomID", roomID)
	}

	player, err := session.Join(playerID, name)
	if err != nil {
		if !exists {
			session.Close()
			delete(r.rooms, roomID)
		}
		return nil, nil, err
	}

	return session, player, nil
}

// Get returns the session for a room id
func (r *Registry) Get(roomID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// Leave removes a player from the room, destroying the session when the
// roster becomes empty
func (r *Registry) Leave(roomID, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.rooms[roomID]
	if !ok {
		return
	}

	if session.Leave(playerID) {
		session.Close()
		delete(r.rooms, roomID)
		r.logger.Info("room destroyed", "roomID", roomID)
	}
}

// RoomCount returns the number of live rooms
func (r *Registry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// TotalPlayerCount returns the number of participants across all rooms
func (r *Registry) TotalPlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, session := range r.rooms {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the registry and every session
func (r *Registry) Close() {
	close(r.done)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.rooms {
		session.Close()
	}
	r.rooms = make(map[string]*Session)
}

// janitorLoop periodically closes rooms that ended up empty without
// being destroyed
func (r *Registry) janitorLoop() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweepStaleRooms()
		}
	}
}

func (r *Registry) sweepStaleRooms() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for roomID, session := range r.rooms {
		if session.PlayerCount() == 0 && now.Sub(session.CreatedAt()) > staleRoomAge {
			session.Close()
			delete(r.rooms, roomID)
			r.logger.Info("stale room cleaned up", "roomID", roomID)
		}
	}
}
