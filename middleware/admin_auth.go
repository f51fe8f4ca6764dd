// middleware/admin_auth.go
package middleware

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware validates the shared admin key on /admin routes.
func AdminAuthMiddleware() fiber.Handler {
	expectedKey := os.Getenv("ADMIN_KEY")
	if expectedKey == "" {
		log.Fatal("❌ ADMIN_KEY is not set, admin surface cannot authenticate")
	}

	return func(c *fiber.Ctx) error {
		key := c.Get("X-Admin-Key")
		if key == "" {
			log.Printf("🚫 [ADMIN_AUTH] Missing X-Admin-Key header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin key missing",
			})
		}
		if key != expectedKey {
			log.Printf("❌ [ADMIN_AUTH] Invalid admin key for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin key",
			})
		}
		return c.Next()
	}
}
