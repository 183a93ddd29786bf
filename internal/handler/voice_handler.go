package handler

import (
	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/internal/service"
	internalWS "voice-ai-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// VoiceHandler upgrades /ws requests and hands the connection to the hub.
type VoiceHandler struct {
	conversation service.IConversationService
	hub          *internalWS.Hub
	logger       logger.ILogger
}

func NewVoiceHandler(conversation service.IConversationService, hub *internalWS.Hub, log logger.ILogger) *VoiceHandler {
	return &VoiceHandler{
		conversation: conversation,
		hub:          hub,
		logger:       log,
	}
}

// ServeWs handles websocket requests from the peer. The optional session_id
// query parameter subscribes the connection to knowledge base notifications;
// turn messages still carry their own session id.
func (h *VoiceHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("VoiceHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, h.conversation, sessionID)
			h.logger.Info("VoiceHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket route at the app root.
func (h *VoiceHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
