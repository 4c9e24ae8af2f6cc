package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Hub configuration
const (
	MaxWebSocketClients   = 100
	WebSocketWriteTimeout = 10 * time.Second
)

// TickerAlert is the payload broadcast to websocket clients when the
// ticker task raises an alert.
type TickerAlert struct {
	Type      string `json:"type"`
	Code      string `json:"code"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// RealtimeHub broadcasts ticker alerts to connected websocket clients
type RealtimeHub struct {
	mu       sync.RWMutex
	sendMu   sync.Mutex // serializes writes; gorilla allows one writer per conn
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewRealtimeHub creates an empty RealtimeHub
func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the request and registers the client until it
// disconnects.
func (h *RealtimeHub) HandleWebSocket(c *gin.Context) {
	h.mu.RLock()
	count := len(h.clients)
	h.mu.RUnlock()
	if count >= MaxWebSocketClients {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many clients"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	log.Printf("websocket client connected, total=%d", count+1)

	// Reader loop only drains control frames; the hub is broadcast-only.
	go func() {
		defer h.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// BroadcastAlert sends a ticker alert to every connected client. Slow or
// dead clients are dropped. Never blocks the caller on task-critical work;
// the broadcast runs in its own goroutine.
func (h *RealtimeHub) BroadcastAlert(code string, body string) {
	alert := TickerAlert{
		Type:      "ticker_alert",
		Code:      code,
		Body:      body,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	go func() {
		h.sendMu.Lock()
		defer h.sendMu.Unlock()

		h.mu.RLock()
		conns := make([]*websocket.Conn, 0, len(h.clients))
		for conn := range h.clients {
			conns = append(conns, conn)
		}
		h.mu.RUnlock()

		for _, conn := range conns {
			conn.SetWriteDeadline(time.Now().Add(WebSocketWriteTimeout))
			if err := conn.WriteJSON(alert); err != nil {
				h.removeClient(conn)
			}
		}
	}()
}

// ClientCount returns the number of connected clients
func (h *RealtimeHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *RealtimeHub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}
