// Package realtime pushes newly inserted notifications to dashboard clients.
// Postgres NOTIFY events feed a Hub, which fans them out over WebSockets.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/retailops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// HubConfig tunes client connections
type HubConfig struct {
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	SendBuffer     int
	AllowedOrigins []string
}

// HubConfigFrom maps realtime settings onto a HubConfig with defaults applied
func HubConfigFrom(cfg config.RealtimeConfig) HubConfig {
	hc := HubConfig{
		WriteTimeout:   cfg.WriteTimeout,
		PingInterval:   cfg.PingInterval,
		SendBuffer:     cfg.ClientSendBuffer,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	if hc.WriteTimeout <= 0 {
		hc.WriteTimeout = 10 * time.Second
	}
	if hc.PingInterval <= 0 {
		hc.PingInterval = 30 * time.Second
	}
	if hc.SendBuffer <= 0 {
		hc.SendBuffer = 16
	}
	return hc
}

// Hub tracks connected clients and broadcasts messages to all of them
type Hub struct {
	cfg      HubConfig
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan []byte
	once   sync.Once
}

// NewHub creates a hub
func NewHub(cfg HubConfig, logger *zap.Logger) *Hub {
	h := &Hub{
		cfg:     cfg,
		logger:  logger.Named("realtime"),
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows same-origin and non-browser clients, plus listed origins
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range h.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. A client whose buffer is full is
// disconnected rather than blocking the feed.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow realtime client", zap.String("user_id", c.userID.String()))
			h.removeLocked(c)
		}
	}
}

// ServeWS upgrades the request and streams broadcasts until the peer leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{hub: h, conn: conn, userID: userID, send: make(chan []byte, h.cfg.SendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return nil
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("realtime client connected", zap.String("user_id", userID.String()))
	go c.writeLoop()
	c.readLoop()
	return nil
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.once.Do(func() { close(c.send) })
}

// readLoop drains control frames so pongs and close frames are processed
func (c *client) readLoop() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()
	wait := 2 * c.hub.cfg.PingInterval
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(wait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
