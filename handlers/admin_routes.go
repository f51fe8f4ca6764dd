// handlers/admin_routes.go
package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"syndicate-engine/middleware"
	"syndicate-engine/services"
)

// BackupTrigger runs one off-site save snapshot on demand.
type BackupTrigger interface {
	RunOnce() error
}

// AdminHandler exposes the operator surface. Backup may be nil when object
// storage is not configured.
type AdminHandler struct {
	Admin  *services.AdminService
	Backup BackupTrigger
}

func NewAdminHandler(admin *services.AdminService, backup BackupTrigger) *AdminHandler {
	return &AdminHandler{Admin: admin, Backup: backup}
}

func SetupAdminRoutes(app *fiber.App, h *AdminHandler) {
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())

	admin.Get("/overview", h.GetOverview)
	admin.Get("/players/:id", h.GetPlayerDetails)
	admin.Post("/players/:id/adjust", h.AdjustPlayer)
	admin.Post("/players/:id/reset-cooldowns", h.ResetCooldowns)
	admin.Post("/backup", h.TriggerBackup)
}

func (h *AdminHandler) GetOverview(c *fiber.Ctx) error {
	return c.JSON(h.Admin.GetOverview())
}

func (h *AdminHandler) GetPlayerDetails(c *fiber.Ctx) error {
	player, runs, events, err := h.Admin.PlayerDetails(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"player":      player,
		"runs":        runs,
		"heat_events": events,
	})
}

func (h *AdminHandler) AdjustPlayer(c *fiber.Ctx) error {
	var req services.AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind and value required"})
	}
	if err := h.Admin.Adjust(c.Params("id"), req); err != nil {
		return fail(c, err)
	}
	log.Printf("🔧 [ADMIN] Adjusted player %s: %s %d", c.Params("id"), req.Kind, req.Value)
	return c.JSON(fiber.Map{"message": "Adjustment applied"})
}

func (h *AdminHandler) ResetCooldowns(c *fiber.Ctx) error {
	if err := h.Admin.ResetCooldowns(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cooldowns cleared"})
}

func (h *AdminHandler) TriggerBackup(c *fiber.Ctx) error {
	if h.Backup == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "backup storage not configured"})
	}
	if err := h.Backup.RunOnce(); err != nil {
		log.Printf("❌ [ADMIN] Backup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "backup failed"})
	}
	return c.JSON(fiber.Map{"message": "Backup uploaded"})
}
