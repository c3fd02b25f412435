package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const HealthzTimeout = 5 * time.Second

// Pinger reports whether a storage backend is reachable.
type Pinger func(ctx context.Context) error

// Healthz returns the health of the server. A nil ping means the backend
// lives in process and is always up.
func Healthz(ping Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping == nil {
			return c.JSON(fiber.Map{"status": "ok"})
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), HealthzTimeout)
		defer cancel()

		if err := ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "down",
				"error":  err.Error(),
			})
		}

		return c.JSON(fiber.Map{"status": "ok"})
	}
}
