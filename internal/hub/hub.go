package hub

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"fairway/backend/pkg/logger"
)

// Event types broadcast to round subscribers.
const (
	EventReaction       = "reaction"
	EventCommentAdded   = "comment_added"
	EventCommentDeleted = "comment_deleted"
	EventRoundDeleted   = "round_deleted"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single client connection watching a round.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Hub manages the clients watching each round.
type Hub struct {
	rounds map[string]map[Client]bool
	mu     sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		rounds: make(map[string]map[Client]bool),
	}
}

// Subscribe adds a new client to a specific round.
func (h *Hub) Subscribe(roundID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rounds[roundID]; !ok {
		h.rounds[roundID] = make(map[Client]bool)
	}
	h.rounds[roundID][client] = true
}

// Unsubscribe removes a client from a round.
func (h *Hub) Unsubscribe(roundID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rounds[roundID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.rounds, roundID)
			}
		}
	}
}

// Subscribers returns how many clients watch a round.
func (h *Hub) Subscribers(roundID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rounds[roundID])
}

// Broadcast sends an event to all clients watching a round.
func (h *Hub) Broadcast(roundID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rounds[roundID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to encode hub event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	for client := range clients {
		// A slow client misses events rather than blocking the hub.
		select {
		case client <- messageBytes:
		default:
			logger.Debug("dropped hub event for slow client", zap.String("round_id", roundID))
		}
	}
}
