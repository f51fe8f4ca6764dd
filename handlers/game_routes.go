// handlers/game_routes.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"syndicate-engine/middleware"
	"syndicate-engine/models"
	"syndicate-engine/services"
)

// GameHandler bundles the engine services behind the HTTP surface.
type GameHandler struct {
	Store   *services.Store
	Mission *services.MissionService
	Combat  *services.CombatService
	Economy *services.EconomyService
}

func NewGameHandler(store *services.Store, mission *services.MissionService, combat *services.CombatService, economy *services.EconomyService) *GameHandler {
	return &GameHandler{Store: store, Mission: mission, Combat: combat, Economy: economy}
}

func SetupGameRoutes(app *fiber.App, h *GameHandler) {
	// 🔓 Public routes, no player context needed
	app.Post("/players", h.CreatePlayer)
	app.Get("/catalog", h.GetCatalog)
	app.Get("/market", h.GetMarket)

	// 🔐 Secured routes, require X-Player-ID context
	secured := app.Group("/", middleware.PlayerContextMiddleware())

	secured.Get("/dashboard", h.GetDashboard)
	secured.Post("/players/daily-reward", h.ClaimDailyReward)
	secured.Post("/players/rest", h.Rest)
	secured.Post("/players/maintenance", h.PerformMaintenance)

	secured.Get("/missions/:id/estimate", h.EstimateMission)
	secured.Post("/missions/:id/start", h.StartMission)
	secured.Get("/runs/pending", h.GetPendingRun)
	secured.Get("/runs/:run_id/scenario", h.GetScenario)
	secured.Post("/runs/:run_id/resolve", h.ResolveMission)
	secured.Post("/runs/:run_id/combat", h.CombatAction)

	secured.Post("/crew/hire", h.HireCrew)
	secured.Post("/crew/:id/toggle", h.ToggleCrew)

	secured.Post("/items/:id/equip", h.EquipItem)
	secured.Post("/items/unequip", h.UnequipItem)
	secured.Post("/items/:id/use", h.UseItem)
	secured.Post("/items/:id/sell", h.SellItem)
	secured.Post("/market/:id/buy", h.BuyItem)

	secured.Post("/skills/:id/unlock", h.UnlockSkill)

	secured.Post("/system/tick", h.TickEnergy)
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("player_id").(string)
	return id
}

// fail maps service errors onto HTTP statuses. Unknown players read as an
// expired session; everything else is a plain validation failure.
func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUnknownPlayer) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Session expired."})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// playerSnapshot re-reads the aggregate for response payloads.
func (h *GameHandler) playerSnapshot(c *fiber.Ctx) (*models.Player, error) {
	var snapshot models.Player
	err := h.Store.View(playerID(c), func(ps *services.PlayerState) {
		snapshot = *ps.Player
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (h *GameHandler) CreatePlayer(c *fiber.Ctx) error {
	var req struct {
		Name       string              `json:"name"`
		Faction    models.FactionID    `json:"faction"`
		Profession models.ProfessionID `json:"profession"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, faction and profession required"})
	}
	p, err := h.Economy.CreatePlayer(req.Name, req.Faction, req.Profession)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"player":  p,
		"message": "Encrypted connection established.",
	})
}

func (h *GameHandler) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"missions":       models.MissionCatalog,
		"items":          models.ItemCatalog,
		"districts":      models.DistrictCatalog,
		"skills":         models.SkillCatalog,
		"crew_templates": models.CrewTemplates,
	})
}

func (h *GameHandler) GetMarket(c *fiber.Ctx) error {
	return c.JSON(h.Store.MarketSnapshot())
}

func (h *GameHandler) GetDashboard(c *fiber.Ctx) error {
	var (
		snapshot     models.Player
		pendingRunID string
	)
	err := h.Store.View(playerID(c), func(ps *services.PlayerState) {
		snapshot = *ps.Player
		if run := ps.OpenRun(); run != nil {
			pendingRunID = run.ID
		}
	})
	if err != nil {
		return fail(c, err)
	}
	totals := services.CalculateTotalStats(&snapshot)
	return c.JSON(fiber.Map{
		"player":         snapshot,
		"totals":         totals,
		"pending_run_id": pendingRunID,
	})
}

func (h *GameHandler) ClaimDailyReward(c *fiber.Ctx) error {
	result, err := h.Economy.ClaimDailyReward(playerID(c))
	if err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "daily_result": result})
}

func (h *GameHandler) Rest(c *fiber.Ctx) error {
	msg, err := h.Economy.Rest(playerID(c))
	if err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": msg})
}

func (h *GameHandler) PerformMaintenance(c *fiber.Ctx) error {
	msg, err := h.Economy.PerformMaintenance(playerID(c))
	if err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": msg})
}

func (h *GameHandler) EstimateMission(c *fiber.Ctx) error {
	est, err := h.Mission.Estimate(playerID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(est)
}

func (h *GameHandler) StartMission(c *fiber.Ctx) error {
	runID, err := h.Mission.Start(playerID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"mission_run_id": runID})
}

func (h *GameHandler) GetPendingRun(c *fiber.Ctx) error {
	var runID string
	err := h.Store.View(playerID(c), func(ps *services.PlayerState) {
		if run := ps.OpenRun(); run != nil {
			runID = run.ID
		}
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"mission_run_id": runID})
}

func (h *GameHandler) GetScenario(c *fiber.Ctx) error {
	scenario, combat, err := h.Mission.GetScenario(playerID(c), c.Params("run_id"))
	if err != nil {
		return fail(c, err)
	}
	resp := fiber.Map{"scenario": scenario}
	if combat != nil {
		resp["combat"] = combat
	}
	return c.JSON(resp)
}

func (h *GameHandler) ResolveMission(c *fiber.Ctx) error {
	var req struct {
		Decision string `json:"decision"`
	}
	// An absent or empty body resolves with the default approach.
	_ = c.BodyParser(&req)
	result, err := h.Mission.Resolve(playerID(c), c.Params("run_id"), req.Decision)
	if err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "result": result})
}

func (h *GameHandler) CombatAction(c *fiber.Ctx) error {
	var req struct {
		Action models.CombatAction `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action required"})
	}
	switch req.Action {
	case models.ActionAttack, models.ActionHeavy, models.ActionDefend, models.ActionFlee:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown combat action"})
	}
	result, err := h.Combat.Action(playerID(c), c.Params("run_id"), req.Action)
	if err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "result": result})
}

func (h *GameHandler) HireCrew(c *fiber.Ctx) error {
	var req struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type required"})
	}
	msg, err := h.Economy.HireCrew(playerID(c), req.Type)
	if err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": msg})
}

func (h *GameHandler) ToggleCrew(c *fiber.Ctx) error {
	if err := h.Economy.ToggleCrew(playerID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": "Status updated"})
}

func (h *GameHandler) EquipItem(c *fiber.Ctx) error {
	if err := h.Economy.EquipItem(playerID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": "Item equipped"})
}

func (h *GameHandler) UnequipItem(c *fiber.Ctx) error {
	var req struct {
		Slot models.ItemType `json:"slot"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "slot required"})
	}
	if err := h.Economy.UnequipItem(playerID(c), req.Slot); err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": "Item unequipped"})
}

func (h *GameHandler) UseItem(c *fiber.Ctx) error {
	if err := h.Economy.UseItem(playerID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": "Item used"})
}

func (h *GameHandler) SellItem(c *fiber.Ctx) error {
	if err := h.Economy.SellItem(playerID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": "Item sold"})
}

func (h *GameHandler) BuyItem(c *fiber.Ctx) error {
	if err := h.Economy.BuyItem(playerID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": "Item purchased"})
}

func (h *GameHandler) TickEnergy(c *fiber.Ctx) error {
	if err := h.Economy.TickPlayerEnergy(playerID(c)); err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p})
}

func (h *GameHandler) UnlockSkill(c *fiber.Ctx) error {
	if err := h.Economy.UnlockSkill(playerID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	p, err := h.playerSnapshot(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"player": p, "message": "Skill unlocked successfully"})
}
