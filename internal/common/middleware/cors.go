package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS без списка источников разрешает всё (dev). Со списком включает
// credentials, чтобы браузер отправлял cookie сессии.
func CORS(origins []string) fiber.Handler {
	if len(origins) == 0 {
		return cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{"*"},
			AllowMethods: []string{"*"},
		})
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: true,
	})
}
