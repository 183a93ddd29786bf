package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "voice_events"

type Hub struct {
	// Registered clients keyed by connection id. Multiple connections may
	// share a session id; bySession indexes them for session-scoped fanout.
	clients   map[uuid.UUID]*Client
	bySession map[string]map[uuid.UUID]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Identifies this instance on the cluster channel so it can skip its own
	// publishes (local delivery already happened).
	instanceID uuid.UUID

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]*Client),
		bySession:  make(map[string]map[uuid.UUID]*Client),
		rdb:        rdb,
		instanceID: uuid.New(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if client.SessionID != "" {
				if h.bySession[client.SessionID] == nil {
					h.bySession[client.SessionID] = make(map[uuid.UUID]*Client)
				}
				h.bySession[client.SessionID][client.ID] = client
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"conn_id":    client.ID,
				"session_id": client.SessionID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				if client.SessionID != "" {
					delete(h.bySession[client.SessionID], client.ID)
					if len(h.bySession[client.SessionID]) == 0 {
						delete(h.bySession, client.SessionID)
					}
				}
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"conn_id": client.ID})
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers an event to every local connection that joined with the
// session id, then mirrors it over Redis for other instances.
// (service.SessionNotifier implementation)
func (h *Hub) Send(sessionID string, event dto.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"origin":            h.instanceID.String(),
			"target_session_id": sessionID,
			"message":           json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) deliverLocal(sessionID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.bySession[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping message", map[string]interface{}{
				"conn_id": client.ID,
			})
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			Origin          string          `json:"origin"`
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Bad cluster payload", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.TargetSessionID == "" || payload.Origin == h.instanceID.String() {
			continue
		}
		h.deliverLocal(payload.TargetSessionID, payload.Message)
	}
}
