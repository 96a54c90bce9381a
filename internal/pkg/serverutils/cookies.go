package serverutils

import (
	"encoding/json"
	"time"

	"auth-chat-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// SetSessionCookies writes the httpOnly token cookie plus a readable copy of
// the profile for the frontend. Only the token cookie carries authority.
func SetSessionCookies(ctx *fiber.Ctx, token string, expires time.Time, user dto.UserResponse, secure bool) {
	maxAge := int(time.Until(expires).Seconds())

	ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expires,
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	info, err := json.Marshal(dto.UserInfoCookie{
		Id:    user.Id,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return
	}
	ctx.Cookie(&fiber.Cookie{
		Name:     UserInfoCookieName,
		Value:    string(info),
		Expires:  expires,
		MaxAge:   maxAge,
		HTTPOnly: false,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(ctx *fiber.Ctx, secure bool) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{SessionCookieName, UserInfoCookieName} {
		ctx.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: name == SessionCookieName,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
		})
	}
}
