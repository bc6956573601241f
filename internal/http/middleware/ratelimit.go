package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"filedrop/internal/ratelimit"
)

// RateLimit guards a route group with the injected token-bucket limiter,
// keyed by client IP. Denied requests get 429 with standard rate headers.
func RateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			// Limiter failure must not take the serving path down.
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		remaining := res.Remaining
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !res.Allowed() {
			c.Set("Retry-After", strconv.Itoa(int(res.RetryAfter().Seconds())+1))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "RATE_LIMITED",
					"message": "too many requests",
				},
			})
		}
		return c.Next()
	}
}
