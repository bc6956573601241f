package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/ratelimit"
)

func TestRateLimit(t *testing.T) {
	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0))
	limiter, err := ratelimit.NewLimiter(store, ratelimit.Config{
		Capacity:       2,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(RateLimit(limiter))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// First two requests pass with decreasing remaining counts.
	for i, wantRemaining := range []string{"1", "0"} {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d", i+1)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
		assert.Equal(t, wantRemaining, resp.Header.Get("X-RateLimit-Remaining"))
	}

	// Third request from the same client is denied.
	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}
