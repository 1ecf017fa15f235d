package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lab1702/trading-app/pkg/logger"
)

const writeTimeout = 5 * time.Second

// Hub pushes notifications to connected WebSocket clients. Each connection
// allows only one writer at a time, so every write goes through the client's
// write mutex. A client that cannot take a write within the deadline is
// dropped rather than allowed to stall a broadcast.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	log      *logger.Logger
}

// client pairs a connection with the mutex serializing writes to it.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(n Notification) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(n)
}

// NewHub creates a WebSocket hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve upgrades the request and registers the client until it disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("notification client connected", logger.String("remote", conn.RemoteAddr().String()))

	// Reader loop only to detect close; clients never send payloads.
	go func() {
		defer h.drop(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

// Broadcast sends a notification to all connected clients. Safe to call from
// any number of goroutines.
func (h *Hub) Broadcast(n Notification) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		if err := cl.write(n); err != nil {
			h.drop(cl)
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		_ = cl.conn.Close()
		delete(h.clients, cl)
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		_ = cl.conn.Close()
	}
	h.mu.Unlock()
}
