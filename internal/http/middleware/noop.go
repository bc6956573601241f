package middleware

import "github.com/gofiber/fiber/v2"

// Noop passes the request straight to the next handler. Used where a
// handler slot must be filled but no limiter is configured.
func Noop() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}
