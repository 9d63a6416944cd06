package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in dev; restrict in production
	},
}

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client represents a single WebSocket connection watching a club's schedule.
type Client struct {
	ID     string
	ClubID uuid.UUID
	UserID uuid.UUID
	hub    *Hub
	conn   *websocket.Conn
	send   chan WSMessage
	logger *zap.Logger
}

// Authorize validates the token and checks the user may watch the club's
// schedule feed, returning the user id on success.
type Authorize func(ctx context.Context, token string, clubID uuid.UUID) (uuid.UUID, error)

// ServeWs handles the WebSocket upgrade and runs the client loop. The token
// travels as a query parameter because browsers cannot set headers on
// WebSocket dials.
func ServeWs(hub *Hub, logger *zap.Logger, authorize Authorize) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubIDStr := c.Query("club_id")
		token := c.Query("token")
		if clubIDStr == "" || token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "club_id and token required"})
			return
		}
		clubID, err := uuid.Parse(clubIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club_id"})
			return
		}
		userID, err := authorize(c.Request.Context(), token, clubID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:     uuid.New().String(),
			ClubID: clubID,
			UserID: userID,
			hub:    hub,
			conn:   conn,
			send:   make(chan WSMessage, 256),
			logger: logger,
		}
		hub.Register(client)
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))

		switch msg.Event {
		case "subscribe":
			// Acknowledge with the current room size; the feed itself is
			// server-push only.
			c.hub.BroadcastToClub(c.ClubID, "presence", map[string]int{
				"watching": c.hub.RoomCount(c.ClubID),
			})
		default:
			// clients cannot inject schedule events
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
