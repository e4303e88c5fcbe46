// Package realtime pushes alert events to connected websocket clients.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/observability"
	"github.com/gorilla/websocket"
)

// KindAlertCreated is the event kind sent when a new alert is stored.
const KindAlertCreated = "alert.created"

const writeWait = 10 * time.Second

// Event is the JSON frame written to clients.
type Event struct {
	Kind  string       `json:"kind"`
	Alert *model.Alert `json:"alert,omitempty"`
}

// Client is one websocket connection owned by an authenticated user.
type Client struct {
	UserID uint
	Conn   *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// NewClient wraps conn for registration with a Hub.
func NewClient(userID uint, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn, done: make(chan struct{})}
}

// Done is closed once the client has been unregistered.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}

// Ping sends a websocket ping frame.
func (c *Client) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

// Hub tracks connected clients and fans events out to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	metrics *observability.Metrics
}

// NewHub creates an empty hub. metrics may be nil.
func NewHub(metrics *observability.Metrics) *Hub {
	return &Hub{clients: make(map[*Client]struct{}), metrics: metrics}
}

// Register adds c to the broadcast set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.setGauge(n)
}

// Unregister removes c and closes its connection. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	h.setGauge(n)

	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.Conn.Close()
	})
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) setGauge(n int) {
	if h.metrics != nil {
		h.metrics.WebsocketClients.Set(float64(n))
	}
}

// Broadcast writes payload as JSON to every client. Clients whose write
// fails are dropped.
func (h *Hub) Broadcast(payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			h.Unregister(c)
		}
	}
}

// AlertCreated broadcasts an alert.created event. A nil hub is a no-op.
func (h *Hub) AlertCreated(a *model.Alert) {
	if h == nil {
		return
	}
	h.Broadcast(Event{Kind: KindAlertCreated, Alert: a})
}
