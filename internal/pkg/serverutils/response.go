package serverutils

import "github.com/gofiber/fiber/v2"

// SuccessResponse is the uniform envelope for successful API responses:
//
//	{"success": true, "code": 200, "message": "...", "data": {...}}
//
// Every endpoint answers inside it; the endpoint-specific payload
// (redirectUrl and user on login, sessions on listing, the reply on chat)
// always sits under "data".
func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"code":    200,
		"message": message,
		"data":    data,
	}
}
