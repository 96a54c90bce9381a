package serverutils

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"auth-chat-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSessionCookiesCarryMaxAge(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		SetSessionCookies(ctx, "tok-abc", time.Now().Add(30*24*time.Hour), dto.UserResponse{
			Id:    uuid.New(),
			Name:  "Ada",
			Email: "ada@example.com",
			Role:  "client",
		}, false)
		return ctx.SendStatus(fiber.StatusOK)
	})

	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	cookies := res.Header.Values("Set-Cookie")
	require.Len(t, cookies, 2)

	byName := map[string]string{}
	for _, c := range cookies {
		switch {
		case strings.HasPrefix(c, SessionCookieName+"="):
			byName[SessionCookieName] = c
		case strings.HasPrefix(c, UserInfoCookieName+"="):
			byName[UserInfoCookieName] = c
		}
	}
	require.Len(t, byName, 2)

	assert.Contains(t, byName[SessionCookieName], "max-age=259")
	assert.Contains(t, byName[SessionCookieName], "HttpOnly")
	assert.Contains(t, byName[UserInfoCookieName], "max-age=259")
	assert.NotContains(t, byName[UserInfoCookieName], "HttpOnly")
}

func TestClearSessionCookiesExpireBoth(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		ClearSessionCookies(ctx, false)
		return ctx.SendStatus(fiber.StatusOK)
	})

	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	cookies := res.Header.Values("Set-Cookie")
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Contains(t, c, "expires=")
	}
}
