package services

import "syndicate-engine/models"

// Totals are the aggregated combat/utility stats: base + active crew +
// equipment bonuses + flat-stat skills. CrewPower feeds mission odds only.
type Totals struct {
	Atk       int `json:"atk"`
	Def       int `json:"def"`
	CInt      int `json:"c_int"`
	CrewPower int `json:"crew_power"`
}

// Clamp bounds val to [min, max].
func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// CalculateTotalStats aggregates a player's effective stats. Pure function of
// the current player state; recomputed on every call because equipment, crew
// and skills can change between reads.
func CalculateTotalStats(p *models.Player) Totals {
	var crewAtk, crewDef int
	for _, c := range p.Crew {
		if !c.IsActive {
			continue
		}
		crewAtk += c.Atk
		crewDef += c.Def
	}

	var weaponAtk, armorDef, gadgetInt int
	if p.Equipment.Weapon != nil {
		weaponAtk = p.Equipment.Weapon.Bonus
	}
	if p.Equipment.Armor != nil {
		armorDef = p.Equipment.Armor.Bonus
	}
	if p.Equipment.Gadget != nil {
		gadgetInt = p.Equipment.Gadget.Bonus
	}

	var skillAtk, skillDef, skillInt int
	for _, id := range p.UnlockedSkills {
		s := models.FindSkill(id)
		if s == nil || s.Effect.Type != models.EffectStatFlat {
			continue
		}
		switch s.Effect.Target {
		case models.TargetAtk:
			skillAtk += int(s.Effect.Value)
		case models.TargetDef:
			skillDef += int(s.Effect.Value)
		case models.TargetCInt:
			skillInt += int(s.Effect.Value)
		}
	}

	return Totals{
		Atk:       p.Stats.Atk + crewAtk + weaponAtk + skillAtk,
		Def:       p.Stats.Def + crewDef + armorDef + skillDef,
		CInt:      p.Stats.CInt + gadgetInt + skillInt,
		CrewPower: crewAtk + crewDef,
	}
}

// missionBonusSum totals unlocked MISSION_BONUS skill values for one target.
func missionBonusSum(p *models.Player, target string) float64 {
	var sum float64
	for _, id := range p.UnlockedSkills {
		s := models.FindSkill(id)
		if s != nil && s.Effect.Type == models.EffectMissionBonus && s.Effect.Target == target {
			sum += s.Effect.Value
		}
	}
	return sum
}
