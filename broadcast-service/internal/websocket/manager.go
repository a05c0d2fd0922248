package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Manager manages all WebSocket connections.
// Clients subscribe to one category, or to models.AllFilter for every event.
type Manager struct {
	// category -> set of clients watching it. Written only by Run.
	subscribers map[string]map[*Client]struct{}
	mu          sync.RWMutex

	// Channels for managing connections
	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	logger *zap.Logger
}

// Client represents a WebSocket client connection
type Client struct {
	ID       string
	Category string
	Conn     *websocket.Conn
	Send     chan []byte
}

// BroadcastMessage represents an event to deliver to the clients watching a category
type BroadcastMessage struct {
	Category string
	Payload  []byte
}

// NewManager creates a new WebSocket manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		subscribers: make(map[string]map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *BroadcastMessage, sendBuffer),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run starts the manager's main loop and blocks until ctx is cancelled,
// at which point every client is disconnected
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			m.disconnectAll()
			return

		case client := <-m.register:
			m.registerClient(client)

		case client := <-m.unregister:
			m.removeClient(client)

		case message := <-m.broadcast:
			m.deliver(message)
		}
	}
}

// RegisterClient adds a client to the manager
func (m *Manager) RegisterClient(client *Client) bool {
	select {
	case m.register <- client:
		return true
	case <-m.done:
		return false
	}
}

// UnregisterClient removes a client from the manager
func (m *Manager) UnregisterClient(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

// Broadcast queues an event for the clients watching category
func (m *Manager) Broadcast(category string, payload []byte) {
	select {
	case m.broadcast <- &BroadcastMessage{Category: category, Payload: payload}:
	case <-m.done:
	}
}

// registerClient adds a client to the subscribers map and starts its writer
func (m *Manager) registerClient(client *Client) {
	m.mu.Lock()
	set, ok := m.subscribers[client.Category]
	if !ok {
		set = make(map[*Client]struct{})
		m.subscribers[client.Category] = set
	}
	set[client] = struct{}{}
	m.mu.Unlock()

	m.logger.Info("client subscribed",
		zap.String("client_id", client.ID),
		zap.String("category", client.Category),
	)

	go client.writePump()
}

// removeClient drops a client and closes its connection. Removing a client
// twice is a no-op.
func (m *Manager) removeClient(client *Client) {
	m.mu.Lock()
	set := m.subscribers[client.Category]
	if _, ok := set[client]; !ok {
		m.mu.Unlock()
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(m.subscribers, client.Category)
	}
	m.mu.Unlock()

	close(client.Send)
	m.logger.Info("client unsubscribed",
		zap.String("client_id", client.ID),
		zap.String("category", client.Category),
	)
}

// deliver sends a message to the watchers of its category and to the "all"
// watchers. Messages on the "all" channel (toasts) reach every client.
func (m *Manager) deliver(message *BroadcastMessage) {
	m.mu.RLock()
	var targets []*Client
	if message.Category == models.AllFilter {
		for _, set := range m.subscribers {
			for c := range set {
				targets = append(targets, c)
			}
		}
	} else {
		for c := range m.subscribers[message.Category] {
			targets = append(targets, c)
		}
		for c := range m.subscribers[models.AllFilter] {
			targets = append(targets, c)
		}
	}
	m.mu.RUnlock()

	count := 0
	for _, client := range targets {
		select {
		case client.Send <- message.Payload:
			count++
		default:
			// A full send buffer means a stalled client; drop it so it
			// cannot hold up everyone else.
			m.removeClient(client)
		}
	}

	m.logger.Debug("broadcast",
		zap.String("category", message.Category),
		zap.Int("clients", count),
	)
}

func (m *Manager) disconnectAll() {
	m.mu.RLock()
	var all []*Client
	for _, set := range m.subscribers {
		for c := range set {
			all = append(all, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range all {
		m.removeClient(c)
	}
}

// GetSubscriberCount returns the number of clients watching a category
func (m *Manager) GetSubscriberCount(category string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers[category])
}

// writePump pumps messages from the Send channel to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// Send ping to keep connection alive
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads until the client goes away, then unregisters it.
// Clients are not expected to send anything but control frames.
func (c *Client) readPump(m *Manager) {
	defer m.UnregisterClient(c)

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("websocket error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}
