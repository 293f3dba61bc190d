package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub tracks stream subscribers and fans messages out to them.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*Connection
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]*Connection),
		logger:      logger,
	}
}

// Register adds a subscriber under id, replacing any previous one.
func (h *Hub) Register(id uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.subscribers[id]; exists {
		old.Close()
	}
	h.subscribers[id] = conn
	h.logger.Debug().Str("connection_id", id.String()).Int("subscribers", len(h.subscribers)).Msg("subscriber registered")
}

// Unregister closes and removes a subscriber. Unknown ids are ignored.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id uuid.UUID) {
	conn, exists := h.subscribers[id]
	if !exists {
		return
	}
	conn.Close()
	delete(h.subscribers, id)
	h.logger.Debug().Str("connection_id", id.String()).Int("subscribers", len(h.subscribers)).Msg("subscriber unregistered")
}

// Broadcast queues msg for every subscriber and returns how many accepted it.
// Subscribers whose queue is full or closed are evicted.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.RLock()
	var (
		delivered int
		evict     []uuid.UUID
	)
	for id, conn := range h.subscribers {
		if err := conn.Send(msg); err != nil {
			h.logger.Warn().Err(err).Str("connection_id", id.String()).Str("type", msg.Type).Msg("evicting stream subscriber")
			evict = append(evict, id)
			continue
		}
		delivered++
	}
	h.mu.RUnlock()

	if len(evict) > 0 {
		h.mu.Lock()
		for _, id := range evict {
			h.removeLocked(id)
		}
		h.mu.Unlock()
	}
	return delivered
}

// Count reports the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// CloseAll disconnects every subscriber, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id := range h.subscribers {
		h.removeLocked(id)
	}
}
