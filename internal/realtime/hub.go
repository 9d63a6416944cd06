package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/models"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Hub maintains club_id -> set of connections and broadcasts messages.
// Uses Redis pub/sub for horizontal scaling: local broadcast + publish to Redis.
type Hub struct {
	// clubID -> map[clientID]*Client
	clubs  map[uuid.UUID]map[string]*Client
	subs   map[uuid.UUID]func() // cancel Redis subscription per club
	mu     sync.RWMutex
	logger *zap.Logger
	redis  RedisPublisher
	sub    RedisSubscriber
}

// RedisPublisher is the interface for publishing to Redis (for cross-instance broadcast).
type RedisPublisher interface {
	PublishClubEvent(clubID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to club channels and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeClub(clubID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub. redisPub and redisSub may be nil for
// single-instance deployments.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		clubs:  make(map[uuid.UUID]map[string]*Client),
		subs:   make(map[uuid.UUID]func()),
		logger: logger,
		redis:  redisPub,
		sub:    redisSub,
	}
}

// Register adds a client to a club room. Starts Redis subscription for this club if first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clubs[c.ClubID] == nil {
		h.clubs[c.ClubID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeClub(c.ClubID, func(event string, payload []byte) {
				h.BroadcastToClub(c.ClubID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.ClubID] = cancel
			}
		}
	}
	h.clubs[c.ClubID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined club room", zap.String("client_id", c.ID), zap.String("club_id", c.ClubID.String()))
}

// Unregister removes a client from a club room. Cancels Redis subscription when last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.clubs[c.ClubID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.clubs, c.ClubID)
			if cancel, ok := h.subs[c.ClubID]; ok {
				cancel()
				delete(h.subs, c.ClubID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left club room", zap.String("client_id", c.ID), zap.String("club_id", c.ClubID.String()))
}

// BroadcastToClub sends a message to all clients in a club room (local only).
func (h *Hub) BroadcastToClub(clubID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.clubs[clubID]
	h.mu.RUnlock()

	if clients == nil {
		return
	}
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastToClubAndPublish sends to local clients and publishes to Redis for other instances.
func (h *Hub) BroadcastToClubAndPublish(clubID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.BroadcastToClub(clubID, event, json.RawMessage(data))
	if h.redis != nil {
		_ = h.redis.PublishClubEvent(clubID, event, data)
	}
}

// PublishBooking pushes a booking lifecycle event to the booking's club room.
func (h *Hub) PublishBooking(event string, b *models.Booking) {
	h.BroadcastToClubAndPublish(b.ClubID, event, b)
}

// RoomCount returns the number of connected clients in a club room.
func (h *Hub) RoomCount(clubID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clubs[clubID])
}
