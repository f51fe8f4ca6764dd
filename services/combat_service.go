package services

import (
	"errors"
	"fmt"
	"math"

	"syndicate-engine/models"
)

// ErrNoActiveCombat is returned when the run has no live combat to act on.
var ErrNoActiveCombat = errors.New("No active combat.")

const heavyStaminaCost = 10

// CombatService resolves one round per Action call. Combat ends exactly once:
// victory, defeat or escape, each producing a terminal mission outcome.
type CombatService struct {
	Store *Store
	Dice  *Dice
}

func NewCombatService(store *Store, dice *Dice) *CombatService {
	return &CombatService{Store: store, Dice: dice}
}

// CombatResult is one round's output: the updated combat snapshot while the
// fight continues, plus a terminal outcome once it ends.
type CombatResult struct {
	Combat  *models.CombatState    `json:"combat,omitempty"`
	Outcome *models.MissionOutcome `json:"outcome,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Action executes one combat round for the given run.
func (s *CombatService) Action(playerID, runID string, action models.CombatAction) (*CombatResult, error) {
	var result *CombatResult
	err := s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		run := ps.FindRun(runID)
		if run == nil || run.CombatState == nil || !run.CombatState.IsActive {
			return ErrNoActiveCombat
		}
		p := ps.Player
		cs := run.CombatState
		enemy := &cs.Enemy
		totals := CalculateTotalStats(p)

		// Player turn.
		switch action {
		case models.ActionDefend:
			cs.PlayerDefending = true
			cs.Logs = append(cs.Logs, models.CombatLogEntry{
				Turn: cs.TurnCount, Message: "You take a defensive stance.", Type: models.CombatLogInfo,
			})

		case models.ActionFlee:
			escapeChance := 0.4 + float64(p.Stats.Lck)*0.01
			if p.Profession == models.ProfessionSmuggler {
				escapeChance += 0.2
			}
			if s.Dice.Float64() <= escapeChance {
				cs.IsActive = false
				run.Narrative = "Escaped from combat."
				run.Success = false
				result = &CombatResult{
					Combat: cs.Clone(),
					Outcome: &models.MissionOutcome{
						Success:   false,
						Narrative: fmt.Sprintf("You managed to lose the %s in the shadows, but the mission is blown.", enemy.Name),
						MissionID: run.MissionID,
					},
					Message: "You slipped away.",
				}
				return nil
			}
			cs.Logs = append(cs.Logs, models.CombatLogEntry{
				Turn: cs.TurnCount, Message: "Escape failed! You are cornered.", Type: models.CombatLogFailure,
			})

		default: // ATTACK and HEAVY
			mult := 1.0
			playerMsg := "You attack."
			if action == models.ActionHeavy {
				if p.Stats.Sta >= heavyStaminaCost {
					p.Stats.Sta -= heavyStaminaCost
					mult = 1.5
					playerMsg = "Heavy Strike!"
				} else {
					// A heavy swing without stamina still lands, just badly.
					mult = 0.5
					playerMsg = "Not enough Stamina! Weak swing."
				}
			}

			dmg := int(math.Round(float64(totals.Atk)*mult*s.Dice.Variance() - float64(enemy.Def)*0.5))
			if dmg < 1 {
				dmg = 1
			}
			if s.Dice.Float64() < 0.05+float64(totals.CInt)*0.005 {
				dmg *= 2
				playerMsg += " CRITICAL HIT!"
			}

			enemy.Hp -= dmg
			cs.Logs = append(cs.Logs, models.CombatLogEntry{
				Turn: cs.TurnCount, Message: fmt.Sprintf("%s Dealt %d DMG.", playerMsg, dmg),
				Type: models.CombatLogPlayerHit, Damage: dmg,
			})
		}

		if enemy.Hp <= 0 {
			result = s.victory(ps, run)
			return nil
		}

		// Enemy turn: fires on defend, attack and failed flee alike.
		enemyDmg := int(math.Round(float64(enemy.Atk)*s.Dice.Variance() - float64(totals.Def)*0.5))
		if enemyDmg < 1 {
			enemyDmg = 1
		}
		if cs.PlayerDefending {
			enemyDmg = int(math.Round(float64(enemyDmg) * 0.5))
			if enemyDmg < 1 {
				enemyDmg = 1
			}
			cs.PlayerDefending = false
		}
		p.Stats.Hp -= enemyDmg
		cs.Logs = append(cs.Logs, models.CombatLogEntry{
			Turn: cs.TurnCount, Message: fmt.Sprintf("%s attacks! You took %d DMG.", enemy.Name, enemyDmg),
			Type: models.CombatLogEnemyHit, Damage: enemyDmg,
		})

		if p.Stats.Hp <= 0 {
			result = s.defeat(ps, run)
			return nil
		}

		cs.TurnCount++
		result = &CombatResult{Combat: cs.Clone()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// victory closes combat with boosted rewards. The payout skips the daily
// income cap: fights carry their own risk already.
func (s *CombatService) victory(ps *PlayerState, run *models.MissionRun) *CombatResult {
	p := ps.Player
	cs := run.CombatState
	cs.IsActive = false

	m := models.FindMission(run.MissionID)
	masteryMult := MasteryMultiplier(p, m.ID)
	money := int(math.Round(float64(m.BaseReward) * 1.2 * masteryMult))
	exp := int(math.Round(float64(m.BaseXp) * 1.5 * masteryMult))

	heatBefore := p.Stats.Heat
	p.Wallet += money
	p.Xp += exp
	p.Stats.Heat += 10

	lvl := CheckLevelUp(p)

	run.Success = true
	run.Narrative = fmt.Sprintf("Defeated %s.", cs.Enemy.Name)
	run.XpGained = exp
	run.GangGained = money
	run.HeatChange = 10
	ps.RecordHeat(heatBefore, fmt.Sprintf("COMBAT_%s_VICTORY", m.ID), run.Narrative)

	msg := "Target down."
	if lvl.LeveledUp {
		msg += fmt.Sprintf(" LEVEL UP! Reached level %d.", p.Level)
	}
	return &CombatResult{
		Combat: cs.Clone(),
		Outcome: &models.MissionOutcome{
			Success:   true,
			Narrative: fmt.Sprintf("Target neutralized. The %s lies defeated. You secure the objective and vanish.", cs.Enemy.Name),
			Rewards:   models.MissionRewards{Money: money, Exp: exp},
			Penalties: models.MissionPenalties{HeatGain: 10},
			MissionID: run.MissionID,
		},
		Message: msg,
	}
}

// defeat closes combat with the player at 0 hp, a 20% wallet med-evac fee and
// a heat spike.
func (s *CombatService) defeat(ps *PlayerState, run *models.MissionRun) *CombatResult {
	p := ps.Player
	cs := run.CombatState
	cs.IsActive = false

	p.Stats.Hp = 0
	moneyLoss := int(float64(p.Wallet) * 0.2)
	heatBefore := p.Stats.Heat
	p.Wallet -= moneyLoss
	p.Stats.Heat += 20

	run.Success = false
	run.Narrative = "KIA (Almost)"
	run.HeatChange = 20
	ps.RecordHeat(heatBefore, fmt.Sprintf("COMBAT_%s_DEFEAT", run.MissionID), run.Narrative)

	return &CombatResult{
		Combat: cs.Clone(),
		Outcome: &models.MissionOutcome{
			Success:   false,
			Narrative: fmt.Sprintf("CRITICAL FAILURE. You were taken down by the %s. Med-evac cost you $%d.", cs.Enemy.Name, moneyLoss),
			Penalties: models.MissionPenalties{HpLoss: 100, HeatGain: 20},
			MissionID: run.MissionID,
		},
		Message: "You went down hard.",
	}
}
