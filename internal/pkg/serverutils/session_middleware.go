package serverutils

import (
	"auth-chat-be/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookieName carries the session token; httpOnly.
	SessionCookieName = "session_token"
	// UserInfoCookieName is a client-readable convenience copy of the user
	// profile. It is never consulted for authentication.
	UserInfoCookieName = "user_info"

	identityLocal = "identity"
)

// SessionMiddleware resolves the session cookie (or a Bearer header for API
// clients) into an Identity and stashes it in Locals. It never rejects a
// request; unauthenticated callers proceed as Anonymous and the guard or
// the handler decides what that means.
func SessionMiddleware(resolver session.Resolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies(SessionCookieName)
		if token == "" {
			if auth := ctx.Get(fiber.HeaderAuthorization); len(auth) > 7 && auth[:7] == "Bearer " {
				token = auth[7:]
			}
		}

		identity := resolver.Resolve(ctx.Context(), token)
		ctx.Locals(identityLocal, identity)
		return ctx.Next()
	}
}

// IdentityFromCtx returns the identity resolved for this request.
func IdentityFromCtx(ctx *fiber.Ctx) session.Identity {
	if id, ok := ctx.Locals(identityLocal).(session.Identity); ok {
		return id
	}
	return session.Anonymous()
}

// RequireSession guards API routes: anonymous callers get a JSON 401
// instead of the page-flow redirect.
func RequireSession() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if IdentityFromCtx(ctx).IsAnonymous() {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    401,
				"message": "Unauthorized",
			})
		}
		return ctx.Next()
	}
}
