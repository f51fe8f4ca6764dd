package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"syndicate-engine/models"
)

// Economy validation failures, surfaced verbatim by handlers.
var (
	ErrInvalidFaction    = errors.New("unknown faction")
	ErrInvalidProfession = errors.New("unknown profession")
	ErrInvalidCrewType   = errors.New("Invalid type")
	ErrCrewNotFound      = errors.New("Crew member not found")
	ErrItemNotFound      = errors.New("Item not found")
	ErrNotEquippable     = errors.New("Item cannot be equipped")
	ErrNothingToUnequip  = errors.New("Nothing to unequip")
	ErrNotConsumable     = errors.New("Not a consumable")
	ErrInsufficientFunds = errors.New("Insufficient funds or item unavailable")
	ErrSkillNotFound     = errors.New("Skill not found")
	ErrNoSkillPoints     = errors.New("Not enough Skill Points")
	ErrWrongProfession   = errors.New("Skill restricted to another profession")
	ErrNotEnoughStamina  = errors.New("Not enough Stamina to organize a safehouse rest.")
	ErrSkillAlreadyOwned = errors.New("Skill already unlocked")
)

const (
	baseDailyUpkeep = 50
	restHeal        = 20
	restHeatDrop    = 5
	restStaminaCost = 10
)

// EconomyService owns everything money-shaped: crew, items, market, skills,
// daily rewards and the day cycle.
type EconomyService struct {
	Store     *Store
	Dice      *Dice
	Narrative *NarrativeClient

	printer *message.Printer
	now     func() time.Time
}

func NewEconomyService(store *Store, dice *Dice, narrative *NarrativeClient) *EconomyService {
	return &EconomyService{
		Store:     store,
		Dice:      dice,
		Narrative: narrative,
		printer:   message.NewPrinter(language.English),
		now:       time.Now,
	}
}

// money renders an amount with thousands separators for user-facing messages.
func (s *EconomyService) money(amount int) string {
	return s.printer.Sprintf("%d", amount)
}

// CreatePlayer builds a level-1 character with faction and profession
// modifiers applied, registers it and returns the fresh aggregate.
func (s *EconomyService) CreatePlayer(name string, faction models.FactionID, profession models.ProfessionID) (*models.Player, error) {
	switch faction {
	case models.FactionIronWolves, models.FactionJadeSerpents, models.FactionCrimsonVeil, models.FactionChromeSaints:
	default:
		return nil, ErrInvalidFaction
	}
	switch profession {
	case models.ProfessionEnforcer, models.ProfessionHacker, models.ProfessionFixer, models.ProfessionSmuggler:
	default:
		return nil, ErrInvalidProfession
	}

	stats := models.PlayerStats{
		Atk: 10, Def: 5,
		Hp: 100, MaxHp: 100,
		Enr: 100, MaxEnr: 100,
		Sta: 100, MaxSta: 100,
		Lck: 5, CInt: 10, Heat: 0,
	}
	switch faction {
	case models.FactionJadeSerpents:
		stats.Lck = 15
	case models.FactionChromeSaints:
		stats.MaxEnr = 110
		stats.Enr = 110
	}
	switch profession {
	case models.ProfessionEnforcer:
		stats.Atk = int(math.Round(float64(stats.Atk) * 1.20))
		stats.MaxHp = int(math.Round(float64(stats.MaxHp) * 1.15))
		stats.Hp = stats.MaxHp
	case models.ProfessionHacker:
		stats.CInt = int(math.Round(float64(stats.CInt) * 1.30))
		stats.MaxEnr = int(math.Round(float64(stats.MaxEnr) * 1.20))
		stats.Enr = stats.MaxEnr
	case models.ProfessionFixer:
		stats.Lck = int(math.Round(float64(stats.Lck) * 1.25))
	case models.ProfessionSmuggler:
		stats.Def = int(math.Round(float64(stats.Def) * 1.15))
		stats.MaxSta = int(math.Round(float64(stats.MaxSta) * 1.30))
		stats.Sta = stats.MaxSta
	}

	p := &models.Player{
		ID:               uuid.NewString(),
		Name:             name,
		Faction:          faction,
		Profession:       profession,
		Level:            1,
		Stats:            stats,
		Wallet:           1000,
		Day:              1,
		Equipment:        models.Equipment{},
		MissionCooldowns: make(map[models.MissionType]int64),
		MissionMastery:   make(map[string]int),
		CurrentNews:      "Welcome to the shadows. Stay low.",
		// Yesterday, so the first daily claim works immediately.
		LastLoginDate: s.now().Add(-24 * time.Hour).Format("2006-01-02"),
	}
	if err := s.Store.Register(p); err != nil {
		return nil, err
	}
	return p, nil
}

// HireCrew rolls a random trait, adjusts price and upkeep for it and adds the
// operative in active state.
func (s *EconomyService) HireCrew(playerID, crewType string) (string, error) {
	tmpl, ok := models.CrewTemplates[crewType]
	if !ok {
		return "", ErrInvalidCrewType
	}
	var msg string
	err := s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		trait := models.CrewTraitTable[s.Dice.Intn(len(models.CrewTraitTable))]
		cost := int(float64(tmpl.Cost) * trait.CostMult)
		if p.Wallet < cost {
			return fmt.Errorf("Insufficient funds (Trait Adjustment: %s)", s.money(cost))
		}
		p.Wallet -= cost

		upkeep := tmpl.Upkeep
		switch trait.Name {
		case models.TraitReliable:
			upkeep = int(float64(upkeep) * 0.9)
		case models.TraitExCorpo:
			upkeep = int(float64(upkeep) * 1.1)
		}

		atk := tmpl.Atk + trait.Atk
		if atk < 0 {
			atk = 0
		}
		def := tmpl.Def + trait.Def
		if def < 0 {
			def = 0
		}

		p.Crew = append(p.Crew, models.CrewMember{
			ID:        uuid.NewString(),
			Name:      tmpl.Name,
			Type:      crewType,
			Atk:       atk,
			Def:       def,
			Cost:      cost,
			Upkeep:    upkeep,
			Trait:     trait.Name,
			TraitDesc: trait.Desc,
			IsActive:  true,
		})
		msg = fmt.Sprintf("Hired %s with trait: %s", crewType, trait.Name)
		return nil
	})
	return msg, err
}

// ToggleCrew flips one member between active and benched.
func (s *EconomyService) ToggleCrew(playerID, crewID string) error {
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		for i := range ps.Player.Crew {
			if ps.Player.Crew[i].ID == crewID {
				ps.Player.Crew[i].IsActive = !ps.Player.Crew[i].IsActive
				return nil
			}
		}
		return ErrCrewNotFound
	})
}

// EquipItem moves an inventory item into its slot, displacing any occupant
// back into the inventory. Item count is conserved.
func (s *EconomyService) EquipItem(playerID, itemID string) error {
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		idx := findItem(p.Inventory, itemID)
		if idx == -1 {
			return ErrItemNotFound
		}
		item := p.Inventory[idx]
		slot := p.Equipment.Slot(item.Type)
		if slot == nil {
			return ErrNotEquippable
		}
		p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
		if *slot != nil {
			p.Inventory = append(p.Inventory, **slot)
		}
		*slot = &item
		return nil
	})
}

// UnequipItem empties a slot back into the inventory.
func (s *EconomyService) UnequipItem(playerID string, slotType models.ItemType) error {
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		slot := ps.Player.Equipment.Slot(slotType)
		if slot == nil || *slot == nil {
			return ErrNothingToUnequip
		}
		ps.Player.Inventory = append(ps.Player.Inventory, **slot)
		*slot = nil
		return nil
	})
}

// UseItem consumes a consumable, healing up to max hp.
func (s *EconomyService) UseItem(playerID, itemID string) error {
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		idx := findItem(p.Inventory, itemID)
		if idx == -1 {
			return ErrItemNotFound
		}
		item := p.Inventory[idx]
		if item.Type != models.ItemTypeConsumable {
			return ErrNotConsumable
		}
		p.Stats.Hp += item.Bonus
		if p.Stats.Hp > p.Stats.MaxHp {
			p.Stats.Hp = p.Stats.MaxHp
		}
		p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
		return nil
	})
}

// BuyItem purchases a market item at its current street price. The owned
// instance gets a fresh id so duplicates stay distinguishable.
func (s *EconomyService) BuyItem(playerID, templateID string) error {
	if models.FindItemTemplate(templateID) == nil {
		return ErrItemNotFound
	}
	market := s.Store.MarketSnapshot()
	var listing *models.MarketItem
	for i := range market.Items {
		if market.Items[i].ID == templateID {
			listing = &market.Items[i]
			break
		}
	}
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		if listing == nil || ps.Player.Wallet < listing.CurrentPrice {
			return ErrInsufficientFunds
		}
		ps.Player.Wallet -= listing.CurrentPrice
		owned := listing.Item
		owned.TemplateID = owned.ID
		owned.ID = uuid.NewString()
		ps.Player.Inventory = append(ps.Player.Inventory, owned)
		return nil
	})
}

// SellItem liquidates an inventory item at 60% of its current market price
// (catalog cost when the market has no listing).
func (s *EconomyService) SellItem(playerID, itemID string) error {
	market := s.Store.MarketSnapshot()
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		idx := findItem(p.Inventory, itemID)
		if idx == -1 {
			return ErrItemNotFound
		}
		item := p.Inventory[idx]
		price := item.Cost
		for i := range market.Items {
			if market.Items[i].Name == item.Name {
				price = market.Items[i].CurrentPrice
				break
			}
		}
		p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
		p.Wallet += int(float64(price) * 0.6)
		return nil
	})
}

// DailyRewardResult reports one claim attempt.
type DailyRewardResult struct {
	Claimed bool   `json:"claimed"`
	Streak  int    `json:"streak"`
	Message string `json:"message"`
	Gang    int    `json:"gang,omitempty"`
	Energy  int    `json:"energy,omitempty"`
	Badge   string `json:"badge,omitempty"`
}

// ClaimDailyReward advances the login streak (calendar-date based) and pays
// out the 7-day cycle reward. Claiming twice on one date is a no-op.
func (s *EconomyService) ClaimDailyReward(playerID string) (*DailyRewardResult, error) {
	var result *DailyRewardResult
	err := s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		today := s.now().Format("2006-01-02")
		if p.LastLoginDate == today {
			result = &DailyRewardResult{Streak: p.LoginStreak, Message: "Daily reward already claimed today."}
			return nil
		}
		yesterday := s.now().Add(-24 * time.Hour).Format("2006-01-02")
		if p.LastLoginDate == yesterday {
			p.LoginStreak++
		} else {
			p.LoginStreak = 1
		}
		p.LastLoginDate = today

		cycleDay := ((p.LoginStreak - 1) % 7) + 1
		result = &DailyRewardResult{Claimed: true, Streak: p.LoginStreak}
		switch cycleDay {
		case 1:
			p.Wallet += 50
			result.Gang = 50
			result.Message = "Login Bonus: +50 $GANG"
		case 2:
			p.Wallet += 75
			result.Gang = 75
			result.Message = "Login Bonus: +75 $GANG"
		case 3:
			p.Wallet += 100
			result.Gang = 100
			result.Message = "Login Bonus: +100 $GANG"
		case 4, 6:
			p.Stats.MaxEnr++
			p.Stats.Enr = p.Stats.MaxEnr
			result.Energy = 1
			result.Message = "Login Bonus: +1 MAX ENERGY & REFILL"
		case 5:
			p.Wallet += 150
			result.Gang = 150
			result.Message = "Login Bonus: +150 $GANG"
		case 7:
			p.Wallet += 300
			result.Gang = 300
			if !p.HasBadge("LOYAL_OPERATIVE") {
				p.Badges = append(p.Badges, "LOYAL_OPERATIVE")
				result.Badge = "LOYAL_OPERATIVE"
				result.Message = "WEEKLY STREAK: +300 $GANG & 'Loyal Operative' Badge!"
			} else {
				result.Message = "WEEKLY STREAK: +300 $GANG"
			}
		}
		return nil
	})
	return result, err
}

// Rest trades stamina for hp and a small heat drop at the safehouse.
func (s *EconomyService) Rest(playerID string) (string, error) {
	var msg string
	err := s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		if p.Stats.Sta < restStaminaCost {
			return ErrNotEnoughStamina
		}
		heatBefore := p.Stats.Heat
		p.Stats.Hp += restHeal
		if p.Stats.Hp > p.Stats.MaxHp {
			p.Stats.Hp = p.Stats.MaxHp
		}
		p.Stats.Heat -= restHeatDrop
		if p.Stats.Heat < 0 {
			p.Stats.Heat = 0
		}
		p.Stats.Sta -= restStaminaCost
		ps.RecordHeat(heatBefore, "REST", "Player rested at safehouse.")
		msg = fmt.Sprintf("Rested at Safehouse. HP +%d, Heat -%d (Cost: %d STA).", restHeal, restHeatDrop, restStaminaCost)
		return nil
	})
	return msg, err
}

// PerformMaintenance ends the day: crew upkeep is charged (defaulting costs a
// random deserter and an ATK point), heat decays and fresh news arrives.
func (s *EconomyService) PerformMaintenance(playerID string) (string, error) {
	var msg string
	err := s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		upkeep := baseDailyUpkeep
		for _, c := range p.Crew {
			upkeep += c.Upkeep
		}

		status := "Daily upkeep paid."
		penaltyMsg := ""
		if p.Wallet >= upkeep {
			p.Wallet -= upkeep
		} else {
			p.Wallet = 0
			status = "DEFAULTED ON UPKEEP."
			if len(p.Crew) > 0 {
				idx := s.Dice.Intn(len(p.Crew))
				deserter := p.Crew[idx]
				p.Crew = append(p.Crew[:idx], p.Crew[idx+1:]...)
				penaltyMsg = fmt.Sprintf(" Couldn't pay upkeep. %s left. ATK penalized.", deserter.Name)
			} else {
				penaltyMsg = " Reputation damaged due to missed payments."
			}
			p.Stats.Atk--
			if p.Stats.Atk < 1 {
				p.Stats.Atk = 1
			}
		}

		p.Day++
		p.Stats.Heat -= 10
		if p.Stats.Heat < 0 {
			p.Stats.Heat = 0
		}
		p.CurrentNews = s.Narrative.NewsUpdate(p)

		msg = fmt.Sprintf("Day %d Begin. %s (-$%s)%s", p.Day, status, s.money(upkeep), penaltyMsg)
		return nil
	})
	return msg, err
}

// UnlockSkill spends skill points; max-stat grants also raise the current
// value so the point is felt immediately.
func (s *EconomyService) UnlockSkill(playerID, skillID string) error {
	skill := models.FindSkill(skillID)
	if skill == nil {
		return ErrSkillNotFound
	}
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		if skill.RequiredProfession != "" && skill.RequiredProfession != p.Profession {
			return ErrWrongProfession
		}
		for _, id := range p.UnlockedSkills {
			if id == skillID {
				return ErrSkillAlreadyOwned
			}
		}
		if p.SkillPoints < skill.Cost {
			return ErrNoSkillPoints
		}
		p.SkillPoints -= skill.Cost
		p.UnlockedSkills = append(p.UnlockedSkills, skillID)

		if skill.Effect.Type == models.EffectStatFlat {
			v := int(skill.Effect.Value)
			switch skill.Effect.Target {
			case models.TargetMaxHp:
				p.Stats.MaxHp += v
				p.Stats.Hp += v
			case models.TargetMaxEnr:
				p.Stats.MaxEnr += v
				p.Stats.Enr += v
			case models.TargetMaxSta:
				p.Stats.MaxSta += v
				p.Stats.Sta += v
			}
		}
		return nil
	})
}

// InitMarket seeds listings from the item catalog if the market is empty.
func (s *EconomyService) InitMarket() error {
	return s.Store.WithMarket(func(m *models.MarketState) {
		if len(m.Items) > 0 {
			return
		}
		for _, item := range models.ItemCatalog {
			m.Items = append(m.Items, models.MarketItem{
				Item:         item,
				CurrentPrice: item.Cost,
				Trend:        models.TrendStable,
				TrendValue:   1.0,
			})
		}
		m.LastUpdate = s.now().UnixMilli()
	})
}

// RefreshMarket reprices every listing: a 20% chance of a hard swing off the
// catalog cost, otherwise gentle drift around the current price.
func (s *EconomyService) RefreshMarket() error {
	return s.Store.WithMarket(func(m *models.MarketState) {
		var fluctuations []string
		for i := range m.Items {
			it := &m.Items[i]
			trend := models.TrendStable
			if s.Dice.Float64() > 0.8 {
				c := s.Dice.Float64()*0.4 + 0.1
				if s.Dice.Float64() > 0.5 {
					it.CurrentPrice = int(float64(it.Cost) * (1 + c))
					it.TrendValue = 1 + c
					trend = models.TrendUp
				} else {
					it.CurrentPrice = int(float64(it.Cost) * (1 - c))
					it.TrendValue = 1 - c
					trend = models.TrendDown
				}
				fluctuations = append(fluctuations, fmt.Sprintf("%s %s", it.Name, trend))
			} else {
				c := s.Dice.Float64() * 0.05
				if s.Dice.Float64() > 0.5 {
					it.CurrentPrice = int(float64(it.CurrentPrice) * (1 + c))
				} else {
					it.CurrentPrice = int(float64(it.CurrentPrice) * (1 - c))
				}
				it.TrendValue = float64(it.CurrentPrice) / float64(it.Cost)
			}
			it.Trend = trend
		}

		news := "Quiet."
		if len(fluctuations) > 0 {
			if len(fluctuations) > 3 {
				fluctuations = fluctuations[:3]
			}
			news = s.Narrative.MarketReport(fluctuations)
		}
		m.News = news
		m.LastUpdate = s.now().UnixMilli()
	})
}

// TickPlayerEnergy regenerates one energy point for one player, up to the cap.
func (s *EconomyService) TickPlayerEnergy(playerID string) error {
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		if ps.Player.Stats.Enr < ps.Player.Stats.MaxEnr {
			ps.Player.Stats.Enr++
		}
		return nil
	})
}

// TickEnergy regenerates one energy point for every player below their cap.
func (s *EconomyService) TickEnergy() {
	for _, id := range s.Store.PlayerIDs() {
		if err := s.TickPlayerEnergy(id); err != nil {
			log.Printf("⚠️  Energy tick failed for %s: %v", id, err)
		}
	}
}

func findItem(inv []models.Item, id string) int {
	for i := range inv {
		if inv[i].ID == id {
			return i
		}
	}
	return -1
}
