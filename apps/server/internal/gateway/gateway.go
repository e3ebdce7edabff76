// Package gateway terminates WebSocket connections, authenticates
// them, and routes client envelopes into the player's run session.
package gateway

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"fiftytwo-lite/apps/server/internal/auth"
	"fiftytwo-lite/apps/server/internal/codec"
	"fiftytwo-lite/apps/server/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID       string
	UserID   uint64
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	authed bool

	// Current run association
	Session *session.Session
}

// Gateway manages WebSocket connections
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	userConns   map[uint64]*Connection // userID -> connection
	nextConnID  uint64
	errorSeq    uint64

	auth     auth.Service
	sessions *session.Manager
}

// New creates a new Gateway instance
func New(authSvc auth.Service, sessions *session.Manager) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		userConns:   make(map[uint64]*Connection),
		auth:        authSvc,
		sessions:    sessions,
	}
}

// HandleWebSocket handles WebSocket upgrade and connection
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)

	c := &Connection{
		ID:       connID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	g.connections[connID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", connID, len(g.connections))

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}

		if messageType == websocket.TextMessage || messageType == websocket.BinaryMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.Decode(data)
	if err != nil {
		log.Printf("[Gateway] Failed to decode: %v", err)
		c.sendError(1, "invalid message format")
		return
	}

	if !c.authed {
		if env.Type != codec.ClientHello {
			c.sendError(2, "hello required")
			return
		}
		c.handleHello(env)
		return
	}

	switch env.Type {
	case codec.ClientHello:
		// Already authenticated; a second hello is a no-op.
	case codec.ClientStartRun:
		c.handleStartRun(env)
	case codec.ClientPlaceBet:
		c.submit(session.Command{Type: session.CmdPlaceBet, Amount: env.Amount})
	case codec.ClientAction:
		action, err := codec.ParseAction(env.Action)
		if err != nil {
			c.sendError(5, err.Error())
			return
		}
		c.submit(session.Command{Type: session.CmdPlayerAction, Action: action})
	case codec.ClientActivateTrinket:
		c.submit(session.Command{
			Type:         session.CmdActivateTrinket,
			Slot:         env.Slot,
			TargetCardID: env.TargetCardID,
		})
	case codec.ClientCancelTargeting:
		c.submit(session.Command{Type: session.CmdCancelTargeting})
	case codec.ClientChooseEvent:
		c.submit(session.Command{Type: session.CmdChooseEvent, Choice: env.Choice})
	case codec.ClientRerollEvent:
		c.submit(session.Command{Type: session.CmdRerollEvent})
	case codec.ClientSkip:
		c.submit(session.Command{Type: session.CmdSkip})
	case codec.ClientGetSnapshot:
		c.submit(session.Command{Type: session.CmdSnapshot})
	default:
		log.Printf("[Gateway] Unknown message type from user %d: %q", c.UserID, env.Type)
		c.sendError(1, "unknown message type")
	}
}

// handleHello resolves the session token, minting a guest player
// when the token is missing or stale, and binds the connection.
func (c *Connection) handleHello(env *codec.ClientEnvelope) {
	userID, token, resumed := c.Gateway.auth.ResolveOrCreateGuest(env.SessionToken)
	_, username, _ := c.Gateway.auth.ResolveSession(token)

	g := c.Gateway
	g.mu.Lock()
	if prev, ok := g.userConns[userID]; ok && prev != c {
		// One connection per player; the newer one wins.
		close(prev.Send)
	}
	c.UserID = userID
	c.Username = username
	c.authed = true
	g.userConns[userID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] User %d authenticated on %s (resumed=%v)", userID, c.ID, resumed)

	welcome := codec.ServerEnvelope{
		Type:     codec.ServerWelcome,
		UserID:   userID,
		Username: username,
	}
	if !resumed {
		welcome.SessionToken = token
	}
	c.Send <- codec.Encode(codec.Wrap(c.nextErrorSeq(), welcome))
}

func (c *Connection) handleStartRun(env *codec.ClientEnvelope) {
	class, err := codec.ParseClass(env.Class)
	if err != nil {
		c.sendError(3, err.Error())
		return
	}

	userID := c.UserID
	s, err := c.Gateway.sessions.StartRun(userID, class, env.Seed, func(data []byte) {
		c.Gateway.broadcastToUser(userID, data)
	})
	if err != nil {
		c.sendError(4, err.Error())
		return
	}
	c.Session = s
	log.Printf("[Gateway] User %d started run %s", userID, s.ID)
}

// submit forwards a command to the live run, reporting failures back
// over the error channel.
func (c *Connection) submit(cmd session.Command) {
	s := c.Session
	if s == nil {
		s = c.Gateway.sessions.Get(c.UserID)
		c.Session = s
	}
	if s == nil {
		c.sendError(6, "no run in progress")
		return
	}
	if err := s.Submit(cmd); err != nil {
		c.sendError(7, err.Error())
	}
}

func (c *Connection) sendError(code int, msg string) {
	env := codec.ServerEnvelope{
		Type:    codec.ServerError,
		Code:    code,
		Message: msg,
	}
	select {
	case c.Send <- codec.Encode(codec.Wrap(c.nextErrorSeq(), env)):
	default:
	}
}

// nextErrorSeq numbers frames originating at the gateway itself;
// run frames carry the session's own sequence.
func (c *Connection) nextErrorSeq() uint64 {
	return atomic.AddUint64(&c.Gateway.errorSeq, 1)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	owned := false
	if cur, ok := g.userConns[c.UserID]; ok && cur == c {
		delete(g.userConns, c.UserID)
		owned = true
	}
	total := len(g.connections)
	g.mu.Unlock()
	if owned && c.authed {
		// Runs are not resumable; an abandoned run ends with the
		// connection that drove it.
		g.sessions.Drop(c.UserID)
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, total)
}

// broadcastToUser sends a message to a specific user
func (g *Gateway) broadcastToUser(userID uint64, data []byte) {
	g.mu.RLock()
	c := g.userConns[userID]
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
			// Drop if buffer full
		}
	}
}

// Broadcast sends a message to all connections
func (g *Gateway) Broadcast(message []byte) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.connections {
		select {
		case c.Send <- message:
		default:
			// Drop message if buffer full
		}
	}
}
