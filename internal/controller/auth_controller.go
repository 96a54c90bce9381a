package controller

import (
	"errors"

	"auth-chat-be/internal/dto"
	"auth-chat-be/internal/pkg/serverutils"
	"auth-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	LogoutAll(ctx *fiber.Ctx) error
	VerifyEmail(ctx *fiber.Ctx) error
}

type authController struct {
	service      service.IAuthService
	secureCookie bool
}

func NewAuthController(service service.IAuthService, secureCookie bool) IAuthController {
	return &authController{
		service:      service,
		secureCookie: secureCookie,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
	h.Post("/logout-all", serverutils.RequireSession(), c.LogoutAll)
	h.Post("/verify-email", c.VerifyEmail)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User registered. Check your inbox to verify your email.", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, authSession, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrRoleMismatch), errors.Is(err, service.ErrAdminPending):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}

	serverutils.SetSessionCookies(ctx, authSession.Token, authSession.Expires, res.User, c.secureCookie)

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	token := ctx.Cookies(serverutils.SessionCookieName)
	if err := c.service.Logout(ctx.Context(), token); err != nil {
		return err
	}

	serverutils.ClearSessionCookies(ctx, c.secureCookie)

	return ctx.JSON(serverutils.SuccessResponse("Logged out", nil))
}

// LogoutAll revokes every session of the authenticated user, not just the
// one presented with this request.
func (c *authController) LogoutAll(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)
	if err := c.service.LogoutAll(ctx.Context(), identity.UserID); err != nil {
		return err
	}

	serverutils.ClearSessionCookies(ctx, c.secureCookie)

	return ctx.JSON(serverutils.SuccessResponse("Logged out everywhere", nil))
}

func (c *authController) VerifyEmail(ctx *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.VerifyEmail(ctx.Context(), &req); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Email verified successfully", nil))
}
