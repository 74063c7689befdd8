package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/rendershield/internal/logging"
)

// ReloadMessage is pushed to preview pages when boundaries refresh.
type ReloadMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub manages live-reload WebSocket connections.
//
// Invariants:
//   - clients map access is always protected by clientsMutex
//   - Shutdown closes every connection exactly once
type Hub struct {
	clients      map[*websocket.Conn]struct{}
	clientsMutex sync.RWMutex

	broadcast chan []byte

	allowedOrigins []string
	logger         logging.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
}

// NewHub creates a WebSocket hub. allowedOrigins lists origins accepted for
// cross-origin upgrades; same-host upgrades are always accepted.
func NewHub(allowedOrigins []string, logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:        make(map[*websocket.Conn]struct{}),
		broadcast:      make(chan []byte, 16),
		allowedOrigins: allowedOrigins,
		logger:         logger.WithComponent("websocket"),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Run drains the broadcast channel until ctx or the hub's own context is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.ctx.Done():
			return
		case msg := <-h.broadcast:
			h.writeToAll(msg)
		}
	}
}

func (h *Hub) writeToAll(msg []byte) {
	h.clientsMutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clientsMutex.RUnlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(h.ctx, 5*time.Second)
		err := conn.Write(writeCtx, websocket.MessageText, msg)
		cancel()

		if err != nil {
			h.removeClient(conn)
		}
	}
}

// HandleWebSocket upgrades a connection after validating its origin and
// keeps it registered until it closes.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !h.isAllowedOrigin(r) {
		h.logger.Warn(r.Context(), nil, "rejected websocket origin", "origin", r.Header.Get("Origin"))
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	// Origin already validated above
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	h.addClient(conn)
	h.logger.Debug(r.Context(), "websocket client connected", "clients", h.ClientCount())

	// Read loop: live-reload clients never send meaningful data, but
	// reading is how we learn the peer went away.
	go func() {
		defer h.removeClient(conn)
		for {
			if _, _, err := conn.Read(h.ctx); err != nil {
				return
			}
		}
	}()
}

// isAllowedOrigin accepts requests without an Origin header, same-host
// origins, and origins on the configured allow list.
func (h *Hub) isAllowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	if parsed.Host == r.Host {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}

func (h *Hub) addClient(conn *websocket.Conn) {
	h.clientsMutex.Lock()
	h.clients[conn] = struct{}{}
	h.clientsMutex.Unlock()
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMutex.Lock()
	_, exists := h.clients[conn]
	if exists {
		delete(h.clients, conn)
	}
	h.clientsMutex.Unlock()

	if exists {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// BroadcastReload queues a full reload message for all clients.
func (h *Hub) BroadcastReload() {
	msg, err := json.Marshal(ReloadMessage{
		Type:      "full_reload",
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		// Channel full; the next broadcast reloads everything anyway
	}
}

// Shutdown closes all connections and stops the hub.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		h.cancel()

		h.clientsMutex.Lock()
		for conn := range h.clients {
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
			delete(h.clients, conn)
		}
		h.clientsMutex.Unlock()
	})
}
