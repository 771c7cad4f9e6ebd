package notify

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Conn is the transport half of a live client connection. Satisfied by
// *websocket.Conn; tests plug in fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Connection is a registered handle inside the hub. Writes are serialized
// per connection since websocket writers are not concurrency-safe.
type Connection struct {
	ID     string
	UserID uint

	conn Conn
	mu   sync.Mutex
}

func (c *Connection) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub is the in-memory multicast registry: user id to the set of live
// connections. Membership is a delivery optimization only; it is lost on
// restart and nothing durable depends on it.
type Hub struct {
	mu     sync.RWMutex
	groups map[uint]map[*Connection]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		groups: make(map[uint]map[*Connection]struct{}),
		logger: logger,
	}
}

// Join registers a transport under the user's group and returns the handle
// used for Leave. A user may hold any number of concurrent connections.
func (h *Hub) Join(userID uint, conn Conn) *Connection {
	c := &Connection{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
	}

	h.mu.Lock()
	group, ok := h.groups[userID]
	if !ok {
		group = make(map[*Connection]struct{})
		h.groups[userID] = group
	}
	group[c] = struct{}{}
	h.mu.Unlock()

	return c
}

// Leave removes a handle from its group. Removing an already-removed handle
// is a no-op, so the disconnect path and a failed-write eviction may race
// safely. Leave never affects a broadcast whose snapshot was already taken.
func (h *Hub) Leave(c *Connection) {
	h.mu.Lock()
	if group, ok := h.groups[c.UserID]; ok {
		delete(group, c)
	}
	h.mu.Unlock()
}

// Broadcast sends payload to every live connection of the user and returns
// how many writes succeeded. An empty or absent group is a silent no-op. The
// connection set is snapshotted before any I/O so concurrent joins and
// leaves cannot corrupt the iteration, and a failed write evicts only the
// connection it failed on.
func (h *Hub) Broadcast(userID uint, payload interface{}) int {
	h.mu.RLock()
	group := h.groups[userID]
	snapshot := make([]*Connection, 0, len(group))
	for c := range group {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range snapshot {
		if err := c.writeJSON(payload); err != nil {
			h.logger.Debug("notify: dropping dead connection",
				slog.String("connection_id", c.ID),
				slog.Uint64("user_id", uint64(userID)),
				slog.Any("error", err))
			_ = c.conn.Close()
			h.Leave(c)
			continue
		}
		delivered++
	}
	return delivered
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[userID])
}
