package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Audio turns arrive base64-encoded inside JSON.
	maxMessageSize = 16 * 1024 * 1024
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Connection identifier, the hub registry key.
	ID uuid.UUID

	// Optional session affinity declared at connect time; used only for
	// knowledge base notifications. Turn messages carry their own session id.
	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte

	conversation service.IConversationService
}

// ServeWs wires a new connection into the hub and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, conversation service.IConversationService, sessionID string) {
	client := &Client{
		Hub:          hub,
		Conn:         conn,
		ID:           uuid.New(),
		SessionID:    sessionID,
		Send:         make(chan []byte, 256),
		conversation: conversation,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}

// emit queues one event for the write pump. Returns an error once the
// connection's buffer is gone so a running turn can stop early.
func (c *Client) emit(event dto.WSEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	select {
	case c.Send <- data:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// readPump reads turn messages and processes them sequentially. A failed turn
// emits an error event and the loop keeps going; only transport errors end
// the connection.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"conn_id": c.ID,
					"error":   err.Error(),
				})
				// Best-effort notification before deregistering.
				c.emit(dto.WSEvent{Type: dto.WSEventError, Error: "connection error"})
			}
			break
		}

		// A turn blocks this connection's loop but never other connections.
		c.conversation.HandleMessage(context.Background(), raw, c.emit)

		// Reading the turn message consumed the deadline budget; re-arm it.
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// writePump pumps queued events to the websocket connection and keeps the
// ping/pong cycle alive.
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
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
