package serverutils

import (
	"strings"

	"auth-chat-be/internal/pkg/routeguard"

	"github.com/gofiber/fiber/v2"
)

// GuardMiddleware applies the access gate to page navigation. API routes
// are skipped here: they answer 401/403 in JSON via RequireSession and the
// handlers, redirecting an XHR would only confuse clients.
func GuardMiddleware(gate *routeguard.Gate) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		path := ctx.Path()
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ws") {
			return ctx.Next()
		}

		decision := gate.Decide(IdentityFromCtx(ctx), path)
		if !decision.Allowed {
			return ctx.Redirect(decision.Redirect, fiber.StatusSeeOther)
		}
		return ctx.Next()
	}
}
