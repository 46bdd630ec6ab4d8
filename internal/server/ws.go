package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Alonbbar6/CvAppGames/internal/engine"
)

// writeTimeout bounds a single broadcast write. OnResult runs on the
// pipeline goroutine, so a stalled client must not hold up the frame loop.
const writeTimeout = 100 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ControlHandler broadcasts engine results to WebSocket clients. It is fed
// by the app pipeline through the Consumer interface, so connected clients
// see exactly the per-frame results the controllers act on.
type ControlHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewControlHandler creates a new ControlHandler.
func NewControlHandler() *ControlHandler {
	return &ControlHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// OnResult implements app.Consumer by broadcasting the result to all
// connected clients. Clients that cannot keep up are dropped rather
// than allowed to stall the pipeline.
func (h *ControlHandler) OnResult(result engine.Result) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}

	msg, err := json.Marshal(map[string]any{
		"result":    result,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		h.mu.RUnlock()
		return
	}

	var stalled []*websocket.Conn
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			stalled = append(stalled, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range stalled {
		log.Printf("dropping slow websocket client: %v", conn.RemoteAddr())
		conn.Close()

		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}
}

// ClientCount returns the number of connected clients.
func (h *ControlHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
