package controller

import (
	"errors"

	"auth-chat-be/internal/pkg/serverutils"
	"auth-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Authorize(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service      service.IOAuthService
	secureCookie bool
}

func NewOAuthController(service service.IOAuthService, secureCookie bool) IOAuthController {
	return &oauthController{
		service:      service,
		secureCookie: secureCookie,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/oauth")
	h.Get("/:provider", c.Authorize)
	h.Get("/:provider/callback", c.Callback)
}

// Authorize bounces the browser to the provider's consent screen.
func (c *oauthController) Authorize(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	url, err := c.service.GetLoginURL(provider)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProvider) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.Redirect(url, fiber.StatusFound)
}

// Callback completes the flow: the provider sent the browser back with a
// code, we trade it for a profile and a session, then land on the dashboard.
func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	state := ctx.Query("state")
	code := ctx.Query("code")

	if state == "" || code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing state or code")
	}

	res, authSession, err := c.service.HandleCallback(ctx.Context(), provider, state, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProvider):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidState):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	serverutils.SetSessionCookies(ctx, authSession.Token, authSession.Expires, res.User, c.secureCookie)

	return ctx.Redirect(res.RedirectUrl, fiber.StatusSeeOther)
}
