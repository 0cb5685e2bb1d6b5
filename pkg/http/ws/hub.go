package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub manages WebSocket connections and broadcasts progress to batch
// subscribers.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // client_id -> connection
	batches     map[string][]uuid.UUID    // batch_id -> []client_id
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		batches:     make(map[string][]uuid.UUID),
		logger:      logger,
	}
}

// RegisterConnection adds a connection for a client.
func (h *Hub) RegisterConnection(clientID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if old, exists := h.connections[clientID]; exists {
		old.Close()
	}

	h.connections[clientID] = conn
	h.logger.Info().Str("client_id", clientID.String()).Msg("connection registered")
}

// UnregisterConnection removes a connection.
func (h *Hub) UnregisterConnection(clientID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[clientID]; exists {
		conn.Close()
		delete(h.connections, clientID)
		h.logger.Info().Str("client_id", clientID.String()).Msg("connection unregistered")
	}

	// Remove from all batch subscriptions
	for batchID, clients := range h.batches {
		for i, id := range clients {
			if id == clientID {
				h.batches[batchID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
	}
}

// Subscribe associates a client with a batch for targeted broadcasts.
func (h *Hub) Subscribe(batchID string, clientID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.batches[batchID]
	for _, id := range clients {
		if id == clientID {
			return // already subscribed
		}
	}
	h.batches[batchID] = append(clients, clientID)
}

// Unsubscribe removes a client from a batch.
func (h *Hub) Unsubscribe(batchID string, clientID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.batches[batchID]
	for i, id := range clients {
		if id == clientID {
			h.batches[batchID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
}

// BroadcastToBatch sends a message to every subscriber of a batch.
func (h *Hub) BroadcastToBatch(batchID string, msg Message) error {
	h.mu.RLock()
	clients := h.batches[batchID]
	h.mu.RUnlock()

	var errors []error
	for _, clientID := range clients {
		if err := h.SendToClient(clientID, msg); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return errors[0] // return first error
	}
	return nil
}

// BroadcastAll sends a message to every connected client.
func (h *Hub) BroadcastAll(msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var firstErr error
	for clientID, conn := range h.connections {
		if err := conn.Send(msg); err != nil && firstErr == nil {
			firstErr = err
			h.logger.Warn().Err(err).Str("client_id", clientID.String()).Msg("broadcast_all_send_failed")
		}
	}
	return firstErr
}

// SendToClient delivers a message to a specific client.
func (h *Hub) SendToClient(clientID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[clientID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}

	return conn.Send(msg)
}

// GetConnection retrieves a connection for a client.
func (h *Hub) GetConnection(clientID uuid.UUID) (*Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, exists := h.connections[clientID]
	return conn, exists
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends messages from the send queue.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and calls the handler.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	// Set read deadline to 60 seconds, extend on pong
	readDeadline := time.Now().Add(60 * time.Second)
	c.conn.SetReadDeadline(readDeadline)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Client connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
