package handlers

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Event types sent over WebSocket
const (
	EventGoalCreated = "goal_created"
	EventGoalUpdated = "goal_updated"
	EventGoalDeleted = "goal_deleted"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type   string      `json:"type"`
	UserID string      `json:"userId"`
	Data   interface{} `json:"data,omitempty"`
}

type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// connection serializes writes; a websocket allows one writer at a time.
type connection struct {
	mu     sync.Mutex
	conn   messageWriter
	userID uuid.UUID
}

func (c *connection) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub manages WebSocket connections per user, one room for each account's
// open clients.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*connection]bool
	log   *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		rooms: make(map[uuid.UUID]map[*connection]bool),
		log:   log,
	}
}

func (h *Hub) register(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[conn.userID] == nil {
		h.rooms[conn.userID] = make(map[*connection]bool)
	}
	h.rooms[conn.userID][conn] = true
	h.log.Debug("ws register", "user_id", conn.userID, "connections", len(h.rooms[conn.userID]))
}

func (h *Hub) unregister(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[conn.userID]; ok {
		delete(conns, conn)
		h.log.Debug("ws unregister", "user_id", conn.userID, "remaining", len(conns))
		if len(conns) == 0 {
			delete(h.rooms, conn.userID)
		}
	}
}

// Connections reports how many clients the user has open.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// Broadcast sends an event to every connection in the user's room.
func (h *Hub) Broadcast(userID uuid.UUID, event WSEvent) {
	if h == nil {
		return
	}

	h.mu.RLock()
	conns := make([]*connection, 0, len(h.rooms[userID]))
	for c := range h.rooms[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	event.UserID = userID.String()
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws broadcast marshal error", "error", err)
		return
	}

	for _, c := range conns {
		if err := c.write(msg); err != nil {
			h.log.Warn("ws write error", "user_id", userID, "error", err)
		}
	}
}

// Handle serves one authenticated connection until the client goes away.
func (h *Hub) Handle(c *websocket.Conn) {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		c.Close()
		return
	}

	conn := &connection{conn: c, userID: userID}
	h.register(conn)
	defer h.unregister(conn)

	// Keep connection alive, client sends pings/keepalives
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
