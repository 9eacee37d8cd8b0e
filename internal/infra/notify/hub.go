package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"booking-engine/internal/usecase"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// The first frame must carry {"token": "..."} within authTimeout.
	authTimeout    = 5 * time.Second
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 8192
	sendBuffer     = 64
)

type wsClient struct {
	id     uuid.UUID
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

// Hub keeps the live websocket connections and pushes events to the ones
// belonging to the notified user.
type Hub struct {
	identity usecase.IdentityProvider
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[uuid.UUID]map[uuid.UUID]*wsClient // userID -> clientID -> client

	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
}

func NewHub(identity usecase.IdentityProvider, allowedOrigins []string, logger *slog.Logger) *Hub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Hub{
		identity: identity,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		clients:    make(map[uuid.UUID]map[uuid.UUID]*wsClient),
		register:   make(chan *wsClient, 16),
		unregister: make(chan *wsClient, 16),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			h.logger.Info("websocket hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[uuid.UUID]*wsClient)
			}
			h.clients[c.userID][c.id] = c
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", "client_id", c.id.String(), "user_id", c.userID.String())

		case c := <-h.unregister:
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c.id]; !ok {
		return
	}
	delete(conns, c.id)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
	h.logger.Debug("websocket client unregistered", "client_id", c.id.String())
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.clients {
		for _, c := range conns {
			close(c.send)
		}
		delete(h.clients, userID)
	}
}

// Connected reports how many live connections the user has.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) Notify(ctx context.Context, userID uuid.UUID, event shared.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode event", "type", string(event.Type), "error", err.Error())
		return
	}
	h.SendToUser(userID, body)
}

// SendToUser never blocks; a client whose buffer is full misses the message.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients[userID] {
		select {
		case c.send <- message:
		default:
			h.logger.Warn("websocket send buffer full", "client_id", c.id.String(), "user_id", userID.String())
		}
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))
	var auth struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&auth); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "auth timeout"))
		_ = conn.Close()
		h.logger.Info("websocket auth message missing", "error", err.Error())
		return
	}

	caller, err := h.identity.Resolve(auth.Token)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid token"})
		_ = conn.Close()
		h.logger.Info("websocket auth rejected", "error", err.Error())
		return
	}

	c := &wsClient{
		id:     uuid.New(),
		userID: caller.ID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		hub:    h,
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := conn.WriteJSON(map[string]string{"status": "authenticated", "userId": caller.ID.String()}); err != nil {
		_ = conn.Close()
		return
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only drains control frames; clients have nothing to send after
// authenticating.
func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error", "client_id", c.id.String(), "error", err.Error())
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
