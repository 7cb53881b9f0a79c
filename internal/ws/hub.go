package ws

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Client is one websocket connection subscribed to a tenant's ledger events
type Client struct {
	Conn     *websocket.Conn
	TenantID string
}

type message struct {
	tenantID string
	payload  []byte
}

type Hub struct {
	Clients    map[*websocket.Conn]*Client
	register   chan *Client
	unregister chan *websocket.Conn
	broadcast  chan message
	done       chan struct{}
	log        *zap.Logger
	mutex      sync.Mutex
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]*Client),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Publish queues payload for every client of tenantID. It never blocks the
// caller: when the queue is full the event is dropped and logged.
func (h *Hub) Publish(tenantID string, payload []byte) {
	select {
	case h.broadcast <- message{tenantID: tenantID, payload: payload}:
	default:
		h.log.Warn("ws broadcast queue full, dropping event", zap.String("tenant_id", tenantID))
	}
}

// Join subscribes a client. It reports false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unsubscribes conn; after Stop the connection is already closed and Leave returns at once
func (h *Hub) Leave(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Stop ends Run and closes every connection
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.Clients[client.Conn] = client
			h.mutex.Unlock()
			h.log.Debug("New WS Client Connected", zap.String("tenant_id", client.TenantID))

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for conn, client := range h.Clients {
				if client.TenantID != msg.tenantID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}
