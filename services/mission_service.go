package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"syndicate-engine/models"
)

// User-facing validation failures. Handlers surface the text verbatim.
var (
	ErrUnknownMission      = errors.New("unknown mission")
	ErrUnknownRun          = errors.New("run not found")
	ErrOperationInProgress = errors.New("Operation in progress.")
	ErrLevelTooLow         = errors.New("Level too low.")
	ErrNoEnergy            = errors.New("No Energy.")
	ErrCooldownActive      = errors.New("Cooldown active.")
	ErrAlreadyResolved     = errors.New("Operation already resolved.")
	ErrBribeFunds          = errors.New("Insufficient funds for bribe.")
)

// Decision ids accepted by Resolve. Anything else falls back to balanced.
const (
	decisionAggressive = "aggressive"
	decisionBalanced   = "balanced"
	decisionStealth    = "stealth"
	decisionBribe      = "bribe"
	decisionTech       = "tech"
)

const bribeCost = 200

// DailyIncomeCap limits mission payouts over a rolling 24h window.
const DailyIncomeCap = 5000

// Cooldown per mission type after any resolution, win or lose.
func cooldownFor(t models.MissionType) time.Duration {
	switch t {
	case models.MissionSideJob:
		return 5 * time.Minute
	case models.MissionContract:
		return 30 * time.Minute
	default:
		return 15 * time.Minute
	}
}

// MissionService drives the start -> scenario -> resolve lifecycle.
type MissionService struct {
	Store     *Store
	Dice      *Dice
	Narrative *NarrativeClient
}

func NewMissionService(store *Store, dice *Dice, narrative *NarrativeClient) *MissionService {
	return &MissionService{Store: store, Dice: dice, Narrative: narrative}
}

// OddsEstimate is the pre-mission breakdown shown on the briefing screen.
// Penalties come from the same function the resolve path uses, so the
// preview can never disagree with the real outcome.
type OddsEstimate struct {
	Factors   MissionFactors          `json:"factors"`
	Chance    float64                 `json:"chance"`
	Penalties models.MissionPenalties `json:"penalties"`
}

// Estimate computes success odds and worst-case penalties without mutating
// anything.
func (s *MissionService) Estimate(playerID, missionID string) (*OddsEstimate, error) {
	m := models.FindMission(missionID)
	if m == nil {
		return nil, ErrUnknownMission
	}
	var est *OddsEstimate
	err := s.Store.View(playerID, func(ps *PlayerState) {
		est = &OddsEstimate{
			Factors:   GetMissionFactors(ps.Player, m),
			Chance:    CalculateMissionOdds(ps.Player, m, 0),
			Penalties: FailurePenalties(ps.Player, m, 1.0),
		}
	})
	if err != nil {
		return nil, err
	}
	return est, nil
}

// Start validates eligibility, deducts energy and opens a pending run.
// A player holds at most one open run at a time.
func (s *MissionService) Start(playerID, missionID string) (string, error) {
	m := models.FindMission(missionID)
	if m == nil {
		return "", ErrUnknownMission
	}
	var runID string
	err := s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		if ps.OpenRun() != nil {
			return ErrOperationInProgress
		}
		p := ps.Player
		if p.Level < m.MinLevel {
			return ErrLevelTooLow
		}
		if p.Stats.Enr < m.CostEnr {
			return ErrNoEnergy
		}
		if until, ok := p.MissionCooldowns[m.Type]; ok && until > time.Now().UnixMilli() {
			return ErrCooldownActive
		}

		p.Stats.Enr -= m.CostEnr
		run := &models.MissionRun{
			ID:        uuid.NewString(),
			PlayerID:  p.ID,
			MissionID: m.ID,
			Narrative: models.RunNarrativePending,
			Timestamp: time.Now().UnixMilli(),
		}
		ps.Runs = append(ps.Runs, run)
		runID = run.ID
		return nil
	})
	return runID, err
}

// GetScenario returns the briefing for an open run. The second return value
// is the live combat snapshot when the run has already escalated.
func (s *MissionService) GetScenario(playerID, runID string) (*models.MissionScenario, *models.CombatState, error) {
	var (
		scenario *models.MissionScenario
		combat   *models.CombatState
	)
	err := s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		run := ps.FindRun(runID)
		if run == nil {
			return ErrUnknownRun
		}
		if !run.Open() {
			return ErrAlreadyResolved
		}
		if run.CombatState != nil && run.CombatState.IsActive {
			scenario = &models.MissionScenario{Narrative: "COMBAT IN PROGRESS", Objectives: run.Objectives}
			combat = run.CombatState.Clone()
			return nil
		}

		m := models.FindMission(run.MissionID)
		if m == nil {
			return ErrUnknownMission
		}
		p := ps.Player
		briefing := s.Narrative.MissionBriefing(p, m)
		if len(run.Objectives) == 0 {
			run.Objectives = m.Objectives
			if len(briefing.Objectives) > 0 {
				run.Objectives = briefing.Objectives
			}
		}

		scenario = &models.MissionScenario{
			Narrative:  briefing.Narrative,
			Objectives: run.Objectives,
			Choices:    buildChoices(p),
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return scenario, combat, nil
}

// buildChoices assembles the decision list: two universal approaches plus at
// most one specialist option unlocked by profession or stats.
func buildChoices(p *models.Player) []models.MissionDecision {
	totals := CalculateTotalStats(p)
	choices := []models.MissionDecision{
		{ID: decisionAggressive, Label: "Direct Assault", Description: "Kick the door in. Guaranteed to get loud.", Type: models.DecisionAggressive},
		{ID: decisionBalanced, Label: "Standard Protocol", Description: "Work the plan as briefed.", Type: models.DecisionBalanced},
	}
	if p.Profession == models.ProfessionHacker || totals.CInt > 30 {
		choices = append(choices, models.MissionDecision{
			ID: decisionTech, Label: "Cyberwarfare",
			Description: "Subvert their systems first. Pays off if your cyber-int is sharp.",
			Type:        models.DecisionTech,
		})
	} else if p.Profession == models.ProfessionFixer || p.Wallet > 500 {
		choices = append(choices, models.MissionDecision{
			ID: decisionBribe, Label: "Grease Palms",
			Description: "Pay off the right people. Quiet, but not cheap.",
			Type:        models.DecisionDiplomatic, Cost: bribeCost,
		})
	} else if p.Profession == models.ProfessionSmuggler || totals.Def > 30 {
		choices = append(choices, models.MissionDecision{
			ID: decisionStealth, Label: "Ghost Entry",
			Description: "Slip in unseen. Slower odds, far less heat.",
			Type:        models.DecisionStealth,
		})
	}
	return choices
}

// ResolveResult carries either a terminal outcome or the combat state that
// interrupted resolution.
type ResolveResult struct {
	Outcome *models.MissionOutcome `json:"outcome,omitempty"`
	Combat  *models.CombatState    `json:"combat,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Resolve settles an open run with the chosen approach. Calling it again
// while combat is active returns the combat snapshot unchanged.
func (s *MissionService) Resolve(playerID, runID, decisionID string) (*ResolveResult, error) {
	var result *ResolveResult
	err := s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		run := ps.FindRun(runID)
		if run == nil {
			return ErrUnknownRun
		}
		if run.CombatState != nil && run.CombatState.IsActive {
			result = &ResolveResult{Combat: run.CombatState.Clone(), Message: "Combat in progress."}
			return nil
		}
		if !run.Open() {
			return ErrAlreadyResolved
		}
		m := models.FindMission(run.MissionID)
		if m == nil {
			return ErrUnknownMission
		}
		p := ps.Player

		// Decision modifiers.
		successBonus := 0.0
		heatMod := 1.0
		triggerCombat := false
		suppressCombat := false
		switch decisionID {
		case decisionStealth:
			successBonus = -0.1
			heatMod = 0.5
		case decisionBribe:
			if p.Wallet < bribeCost {
				return ErrBribeFunds
			}
			p.Wallet -= bribeCost
			successBonus = 0.2
			heatMod = 0.2
			suppressCombat = true
		case decisionTech:
			if CalculateTotalStats(p).CInt > 20 {
				successBonus = 0.15
			} else {
				successBonus = -0.05
			}
		case decisionAggressive:
			triggerCombat = true
		}

		chance := CalculateMissionOdds(p, m, successBonus)
		roll := s.Dice.Float64()

		escalate := triggerCombat ||
			m.Risk == models.RiskExtreme ||
			(m.Risk == models.RiskHigh && s.Dice.Float64() > 0.5) ||
			(!triggerCombat && roll > chance && roll < chance+0.15)
		if suppressCombat {
			escalate = false
		}

		if escalate {
			enemy := s.spawnEnemy(m, p.Level)
			run.CombatState = &models.CombatState{
				IsActive:  true,
				TurnCount: 1,
				Enemy:     enemy,
				Logs: []models.CombatLogEntry{{
					Turn:    1,
					Message: fmt.Sprintf("Hostile contact! %s engages you.", enemy.Name),
					Type:    models.CombatLogInfo,
				}},
			}
			run.Narrative = "COMBAT_STARTED"
			result = &ResolveResult{Combat: run.CombatState.Clone(), Message: "Hostile contact!"}
			return nil
		}

		success := roll <= chance
		masteryMult := MasteryMultiplier(p, m.ID)

		var money, exp, hpLoss, heatGain int
		capReached := false
		if success {
			diffMult := 1.0
			if m.Difficulty <= 3 {
				diffMult = 0.8
			} else if m.Difficulty >= 7 {
				diffMult = 1.3
			}
			riskMult := 1.0
			switch m.Risk {
			case models.RiskLow:
				riskMult = 0.9
			case models.RiskHigh:
				riskMult = 1.4
			}
			luckBonus := 1 + Clamp(float64(p.Stats.Lck)/300, 0, 0.15)

			money = int(math.Round(float64(m.BaseReward) * diffMult * riskMult * luckBonus * masteryMult))
			exp = int(math.Round(float64(m.BaseXp) * diffMult * (1 + float64(p.Level)/200) * masteryMult))

			if p.Faction == models.FactionIronWolves {
				money = int(float64(money) * 1.1)
			}
			if p.Profession == models.ProfessionFixer {
				money = int(float64(money) * 1.2)
			}
			for _, c := range p.Crew {
				if c.IsActive && c.Trait == models.TraitScavenger {
					money = int(float64(money) * 1.05)
				}
			}
			for _, id := range p.UnlockedSkills {
				sk := models.FindSkill(id)
				if sk != nil && sk.Effect.Type == models.EffectMissionBonus && sk.Effect.Target == models.TargetMoneyReward {
					money = int(float64(money) * (1 + sk.Effect.Value))
				}
			}

			heatGain = SuccessHeatGain(p, m, heatMod)

			income := ps.DailyIncome(24 * time.Hour)
			if income >= DailyIncomeCap {
				money = 0
				capReached = true
			} else if income+money > DailyIncomeCap {
				money = DailyIncomeCap - income
				capReached = true
			}
		} else {
			exp = int(float64(m.BaseXp) * 0.1)
			pen := FailurePenalties(p, m, heatMod)
			hpLoss = pen.HpLoss
			heatGain = pen.HeatGain
		}

		heatBefore := p.Stats.Heat
		p.Wallet += money
		p.Xp += exp
		p.Stats.Hp -= hpLoss
		if p.Stats.Hp < 0 {
			p.Stats.Hp = 0
		}
		p.Stats.Heat += heatGain

		masteryMsg := ApplyMastery(p, m, success)
		p.MissionCooldowns[m.Type] = time.Now().Add(cooldownFor(m.Type)).UnixMilli()
		lvl := CheckLevelUp(p)

		narrative := s.Narrative.MissionNarrative(p, m, success)
		run.Success = success
		run.XpGained = exp
		run.GangGained = money
		run.HpChange = -hpLoss
		run.HeatChange = heatGain
		run.Narrative = narrative

		reason := fmt.Sprintf("MISSION_%s_FAIL", m.ID)
		if success {
			reason = fmt.Sprintf("MISSION_%s_SUCCESS", m.ID)
		}
		ps.RecordHeat(heatBefore, reason, narrative)

		msg := "Operation Failed."
		if success {
			msg = "Contract Fulfilled."
		}
		if lvl.LeveledUp {
			msg += fmt.Sprintf(" LEVEL UP! Reached level %d.", p.Level)
		}
		msg += masteryMsg

		result = &ResolveResult{
			Outcome: &models.MissionOutcome{
				Success:    success,
				Narrative:  narrative,
				Rewards:    models.MissionRewards{Money: money, Exp: exp},
				Penalties:  models.MissionPenalties{HpLoss: hpLoss, HeatGain: heatGain},
				MissionID:  m.ID,
				Objectives: run.Objectives,
				CapReached: capReached,
			},
			Message: msg,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// spawnEnemy draws a random district-local template (falling back to the
// generic catalog tail) and scales it to the player's level.
func (s *MissionService) spawnEnemy(m *models.Mission, level int) models.Enemy {
	var pool []models.Enemy
	for _, e := range models.EnemyCatalog {
		if e.District == m.District {
			pool = append(pool, e)
		}
	}
	var enemy models.Enemy
	if len(pool) == 0 {
		enemy = models.EnemyCatalog[len(models.EnemyCatalog)-1]
	} else {
		enemy = pool[s.Dice.Intn(len(pool))]
	}

	mult := 1 + float64(level)*0.1
	enemy.ID = uuid.NewString()
	enemy.Hp = int(math.Round(float64(enemy.Hp) * mult))
	enemy.MaxHp = int(math.Round(float64(enemy.MaxHp) * mult))
	enemy.Atk = int(math.Round(float64(enemy.Atk) * mult))
	enemy.Def = int(math.Round(float64(enemy.Def) * mult))
	return enemy
}
