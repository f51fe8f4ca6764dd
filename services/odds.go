package services

import (
	"math"

	"syndicate-engine/models"
)

// Odds bounds: no mission is ever certain or impossible.
const (
	OddsFloor   = 0.05
	OddsCeiling = 0.95
)

// MissionFactors is the per-stat breakdown of a success probability.
// Heat is stored negative (it is a penalty).
type MissionFactors struct {
	Base   float64 `json:"base"`
	Atk    float64 `json:"atk"`
	Def    float64 `json:"def"`
	Crew   float64 `json:"crew"`
	Lck    float64 `json:"lck"`
	Heat   float64 `json:"heat"`
	Skills float64 `json:"skills"`
}

// Sum folds the factors into a raw (unclamped) probability.
func (f MissionFactors) Sum() float64 {
	return f.Base + f.Atk + f.Def + f.Crew + f.Lck + f.Skills + f.Heat
}

// BaseHeatForRisk maps a risk tier to its baseline heat gain.
func BaseHeatForRisk(risk models.RiskTier) int {
	switch risk {
	case models.RiskLow:
		return 5
	case models.RiskMedium:
		return 10
	case models.RiskHigh:
		return 15
	case models.RiskExtreme:
		return 25
	}
	return 5
}

// GetMissionFactors computes the independently clamped odds factors for a
// player/mission pair.
func GetMissionFactors(p *models.Player, m *models.Mission) MissionFactors {
	totals := CalculateTotalStats(p)
	return MissionFactors{
		Base:   m.BaseSuccessChance,
		Atk:    Clamp(float64(totals.Atk)/100, 0, 0.30),
		Def:    Clamp(float64(totals.Def)/120, 0, 0.20),
		Crew:   Clamp(float64(totals.CrewPower)/150, 0, 0.25),
		Lck:    Clamp(float64(p.Stats.Lck)/200, 0, 0.10),
		Heat:   -Clamp(float64(p.Stats.Heat)/200, 0, 0.30),
		Skills: missionBonusSum(p, models.TargetSuccessChance),
	}
}

// CalculateMissionOdds folds the factors plus a decision bonus into the final
// success probability, clamped to [0.05, 0.95].
func CalculateMissionOdds(p *models.Player, m *models.Mission, successBonus float64) float64 {
	return Clamp(GetMissionFactors(p, m).Sum()+successBonus, OddsFloor, OddsCeiling)
}

// FailurePenalties is the single source of truth for what a failed resolution
// costs. The odds estimate and the actual resolve path both call it, so the
// two can never drift apart. heatMod is the decision heat multiplier
// (1.0 when estimating, before any decision is known).
func FailurePenalties(p *models.Player, m *models.Mission, heatMod float64) models.MissionPenalties {
	totals := CalculateTotalStats(p)

	hpLoss := int(math.Round((5 + float64(m.CostEnr)*0.8) - float64(totals.Def)/5))
	if hpLoss < 1 {
		hpLoss = 1
	}

	heatGain := int(math.Round(float64(5+BaseHeatForRisk(m.Risk)) * heatMod))
	if p.Stats.Heat > 50 {
		heatGain += 5
	}
	heatGain = applyCrewHeatTraits(p, heatGain)
	heatGain = applyHeatReductionSkills(p, heatGain)
	if p.Faction == models.FactionCrimsonVeil {
		heatGain = int(float64(heatGain) * 0.9)
		hpLoss = int(float64(hpLoss) * 0.9)
	}

	return models.MissionPenalties{HpLoss: hpLoss, HeatGain: heatGain}
}

// SuccessHeatGain is the heat cost of a clean success: the risk baseline
// scaled by the decision modifier, then crew traits and heat skills.
func SuccessHeatGain(p *models.Player, m *models.Mission, heatMod float64) int {
	heatGain := int(math.Round(float64(BaseHeatForRisk(m.Risk)) * heatMod))
	heatGain = applyCrewHeatTraits(p, heatGain)
	return applyHeatReductionSkills(p, heatGain)
}

// Ex-Corpo crew shave 5% each; Psycho crew add 1 flat each.
func applyCrewHeatTraits(p *models.Player, heatGain int) int {
	for _, c := range p.Crew {
		if !c.IsActive {
			continue
		}
		switch c.Trait {
		case models.TraitExCorpo:
			heatGain = int(float64(heatGain) * 0.95)
		case models.TraitPsycho:
			heatGain++
		}
	}
	return heatGain
}

func applyHeatReductionSkills(p *models.Player, heatGain int) int {
	for _, id := range p.UnlockedSkills {
		s := models.FindSkill(id)
		if s != nil && s.Effect.Type == models.EffectMissionBonus && s.Effect.Target == models.TargetHeatReduction {
			heatGain = int(float64(heatGain) * (1 - s.Effect.Value))
		}
	}
	return heatGain
}
