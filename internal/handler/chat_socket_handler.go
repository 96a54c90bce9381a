package handler

import (
	"auth-chat-be/internal/pkg/logger"
	"auth-chat-be/internal/pkg/serverutils"
	"auth-chat-be/internal/pkg/session"
	internalWS "auth-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatSocketHandler upgrades authenticated clients onto the hub so they
// receive chat updates pushed from any device or instance.
type ChatSocketHandler struct {
	resolver session.Resolver
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewChatSocketHandler(resolver session.Resolver, hub *internalWS.Hub, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		resolver: resolver,
		hub:      hub,
		logger:   log,
	}
}

func (h *ChatSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}

func (h *ChatSocketHandler) ServeWs(c *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(c)

	// Browsers send the cookie; tooling can pass ?token= instead.
	if identity.IsAnonymous() {
		if token := c.Query("token"); token != "" {
			identity = h.resolver.Resolve(c.Context(), token)
		}
	}
	if identity.IsAnonymous() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": "Unauthorized",
		})
	}

	userID := identity.UserID

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ChatSocket", "WebSocket session started", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("ChatSocket", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
