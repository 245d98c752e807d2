package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
)

const userIDKey = "userID"

// RequestAuthenticator resolves the user behind a request.
type RequestAuthenticator interface {
	FromRequest(c fiber.Ctx) (string, bool)
}

// RequireAuth отклоняет запросы без валидной сессии.
func RequireAuth(auth RequestAuthenticator) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := auth.FromRequest(c)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the id stored by RequireAuth, or "".
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
