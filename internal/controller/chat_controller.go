package controller

import (
	"bufio"
	"errors"

	"auth-chat-be/internal/dto"
	"auth-chat-be/internal/pkg/serverutils"
	"auth-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	ListSessions(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	RenameSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService    service.IChatService
	historyService service.IChatHistoryService
}

func NewChatController(chatService service.IChatService, historyService service.IChatHistoryService) IChatController {
	return &chatController{
		chatService:    chatService,
		historyService: historyService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.RequireSession())
	h.Get("/sessions", c.ListSessions)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions/:id", c.ShowSession)
	h.Patch("/sessions/:id", c.RenameSession)
	h.Delete("/sessions/:id", c.DeleteSession)
	h.Get("/stats", c.Stats)
	h.Post("/stream", c.Stream)
	h.Post("", c.Send)
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	res, err := c.historyService.ListSessions(ctx.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	res, err := c.historyService.CreateSession(ctx.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *chatController) ShowSession(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.historyService.GetSession(ctx.Context(), identity.UserID, id)
	if err != nil {
		return mapChatError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) RenameSession(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.RenameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.historyService.RenameSession(ctx.Context(), identity.UserID, id, req.Title)
	if err != nil {
		return mapChatError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session renamed", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	if err := c.historyService.DeleteSession(ctx.Context(), identity.UserID, id); err != nil {
		return mapChatError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session deleted", nil))
}

func (c *chatController) Stats(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	res, err := c.historyService.UserStats(ctx.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Send(ctx.Context(), identity.UserID, &req)
	if err != nil {
		return mapChatError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

// Stream relays the model response as chunked text/plain. The session id
// travels in a header because the body is raw model output.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// The session must exist before headers go out.
	if req.SessionId == nil {
		created, err := c.historyService.CreateSession(ctx.Context(), identity.UserID)
		if err != nil {
			return err
		}
		req.SessionId = &created.Id
	} else {
		// Surface ownership problems as a clean 404 instead of a broken
		// stream.
		if _, err := c.historyService.GetSession(ctx.Context(), identity.UserID, *req.SessionId); err != nil {
			return mapChatError(err)
		}
	}

	userID := identity.UserID
	chatService := c.chatService
	reqCtx := ctx.Context()

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set("X-Session-Id", req.SessionId.String())
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	reqCtx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		_, _ = chatService.Stream(reqCtx, userID, &req, nil, func(chunk string) error {
			if _, err := w.WriteString(chunk); err != nil {
				return err
			}
			return w.Flush()
		})
	}))

	return nil
}

func mapChatError(err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Chat session not found")
	}
	return err
}
