package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"liargame/internal/domain"
	"liargame/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents one WebSocket connection. The connection is bound
// to a room on the first join message; registry.Leave runs when the
// connection drops.
type Client struct {
	conn     *websocket.Conn
	registry *game.Registry
	roomID   string
	playerID string
	session  *game.Session
	joined   bool
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client for the given room
func NewClient(conn *websocket.Conn, registry *game.Registry, roomID, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		registry: registry,
		roomID:   roomID,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements game.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements game.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps. It returns when the
// connection is gone; leaving the room happens on the way out.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		if c.joined {
			c.session.UnregisterClient(c.playerID)
			c.registry.Leave(c.roomID, c.playerID)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	if msg.Type == MsgJoin {
		c.handleJoin(msg.Payload)
		return
	}
	if msg.Type == MsgPing {
		c.Send(NewServerMessage(MsgPong, nil))
		return
	}

	if !c.joined {
		c.sendError(ErrCodeNotJoined, "Join a room first")
		return
	}

	switch msg.Type {
	case MsgToggleReady:
		c.session.ToggleReady(c.playerID)
	case MsgStartRound:
		c.handleStartRound()
	case MsgAdvanceTurn:
		c.handleAdvanceTurn(msg.Payload)
	case MsgCastVote:
		c.handleCastVote(msg.Payload)
	case MsgSubmitGuess:
		c.handleSubmitGuess(msg.Payload)
	case MsgLiveInput:
		c.handleLiveInput(msg.Payload)
	case MsgChat:
		c.handleChat(msg.Payload)
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoin binds the connection to its room, creating the room on
// first reference
func (c *Client) handleJoin(payload json.RawMessage) {
	if c.joined {
		return
	}

	var p JoinPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Name == "" {
		c.sendError(ErrCodeInvalidMessage, "Name is required")
		return
	}

	session, _, err := c.registry.Join(c.roomID, c.playerID, p.Name)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	c.session = session
	c.joined = true
	session.RegisterClient(c.playerID, c)

	c.Send(NewServerMessage(MsgConnected, &ConnectedPayload{
		PlayerID: c.playerID,
		RoomID:   c.roomID,
		State:    session.Snapshot(c.playerID),
	}))
}

func (c *Client) handleStartRound() {
	if err := c.session.StartRound(c.playerID); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleAdvanceTurn(payload json.RawMessage) {
	var p AdvanceTurnPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			c.sendError(ErrCodeInvalidMessage, "Invalid payload")
			return
		}
	}

	c.session.AdvanceTurn(c.playerID, p.Description)
}

func (c *Client) handleCastVote(payload json.RawMessage) {
	var p CastVotePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.TargetID == "" {
		c.sendError(ErrCodeInvalidMessage, "Target player ID is required")
		return
	}

	if err := c.session.CastVote(c.playerID, p.TargetID); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleSubmitGuess(payload json.RawMessage) {
	var p SubmitGuessPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	if err := c.session.SubmitGuess(c.playerID, p.Text); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleLiveInput(payload json.RawMessage) {
	var p LiveInputPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}

	c.session.UpdateLiveInput(c.playerID, p.Text)
}

func (c *Client) handleChat(payload json.RawMessage) {
	var p ChatMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Message == "" {
		return
	}

	c.session.Chat(c.playerID, p.Message)
}

// sendDomainError maps a validation error to a wire error code. These
// go only to the acting player.
func (c *Client) sendDomainError(err error) {
	switch {
	case errors.Is(err, domain.ErrRoomFull):
		c.sendError(ErrCodeRoomFull, "Room is full")
	case errors.Is(err, domain.ErrDuplicateName):
		c.sendError(ErrCodeDuplicateName, "That name is already taken")
	case errors.Is(err, domain.ErrNotHost):
		c.sendError(ErrCodeNotHost, "Only the host can do that")
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		c.sendError(ErrCodeNotEnough, "Need at least 3 players to start")
	case errors.Is(err, domain.ErrNotAllReady):
		c.sendError(ErrCodeNotAllReady, "Everyone must be ready to start")
	case errors.Is(err, domain.ErrInvalidPhase):
		c.sendError(ErrCodeInvalidPhase, "You can't do that right now")
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
