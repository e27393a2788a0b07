package middleware

import (
	"eatinator/internal/api/presenters"
	"eatinator/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AdminMiddleware() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Admin-Key",
	})
}

// AdminMiddleware gates maintenance endpoints behind the static admin key.
// When no key is configured the endpoints are disabled entirely.
func (m *middleware) AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminKey := utils.GetConfig("ADMIN_KEY")
		if adminKey == "" {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, "forbidden", nil)
		}
		supplied := c.Get("X-Admin-Key")
		if supplied == "" {
			supplied = c.Query("key")
		}
		if supplied != adminKey {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, "forbidden", nil)
		}
		return c.Next()
	}
}
