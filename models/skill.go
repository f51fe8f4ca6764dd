package models

// SkillEffectType distinguishes flat stat grants from mission-roll bonuses.
type SkillEffectType string

const (
	EffectStatFlat     SkillEffectType = "STAT_FLAT"
	EffectMissionBonus SkillEffectType = "MISSION_BONUS"
)

// Skill effect targets. Stat targets name a PlayerStats field; mission targets
// name a roll adjustment.
const (
	TargetAtk           = "atk"
	TargetDef           = "def"
	TargetCInt          = "c_int"
	TargetLck           = "lck"
	TargetMaxHp         = "max_hp"
	TargetMaxEnr        = "max_enr"
	TargetMaxSta        = "max_sta"
	TargetSuccessChance = "success_chance"
	TargetMoneyReward   = "money_reward"
	TargetHeatReduction = "heat_reduction"
)

// SkillEffect is a tagged adjustment applied either once at unlock (STAT_FLAT)
// or on every mission roll (MISSION_BONUS).
type SkillEffect struct {
	Type   SkillEffectType `json:"type"`
	Target string          `json:"target"`
	Value  float64         `json:"value"`
}

// Skill is a static catalog entry in one of the three trees.
type Skill struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Tree               string       `json:"tree"` // COMBAT, OPERATIONS, PROFESSION
	Description        string       `json:"description"`
	Cost               int          `json:"cost"`
	Effect             SkillEffect  `json:"effect"`
	RequiredProfession ProfessionID `json:"required_profession,omitempty"`
}

// SkillCatalog is the static skill tree, read-only at runtime.
var SkillCatalog = []Skill{
	{ID: "c_assault", Name: "Assault", Tree: "COMBAT", Description: "Raw damage training. +5 ATK.", Cost: 1, Effect: SkillEffect{Type: EffectStatFlat, Target: TargetAtk, Value: 5}},
	{ID: "c_fortification", Name: "Fortification", Tree: "COMBAT", Description: "Defense and damage mitigation. +5 DEF.", Cost: 1, Effect: SkillEffect{Type: EffectStatFlat, Target: TargetDef, Value: 5}},
	{ID: "c_tactics", Name: "Tactics", Tree: "COMBAT", Description: "Battle positioning. +5 Max Stamina.", Cost: 1, Effect: SkillEffect{Type: EffectStatFlat, Target: TargetMaxSta, Value: 5}},
	{ID: "o_infiltration", Name: "Infiltration", Tree: "OPERATIONS", Description: "Stealth mastery. +5% Mission Success Chance.", Cost: 1, Effect: SkillEffect{Type: EffectMissionBonus, Target: TargetSuccessChance, Value: 0.05}},
	{ID: "o_acquisition", Name: "Acquisition", Tree: "OPERATIONS", Description: "Better looting. +5% Cash Rewards.", Cost: 1, Effect: SkillEffect{Type: EffectMissionBonus, Target: TargetMoneyReward, Value: 0.05}},
	{ID: "o_influence", Name: "Influence", Tree: "OPERATIONS", Description: "NPC relations. -5% Heat Accumulation.", Cost: 1, Effect: SkillEffect{Type: EffectMissionBonus, Target: TargetHeatReduction, Value: 0.05}},
	{ID: "p_bone_breaker", Name: "Bone Breaker", Tree: "PROFESSION", RequiredProfession: ProfessionEnforcer, Description: "The Enforcer's signature. +15 ATK.", Cost: 1, Effect: SkillEffect{Type: EffectStatFlat, Target: TargetAtk, Value: 15}},
	{ID: "p_system_breach", Name: "System Breach", Tree: "PROFESSION", RequiredProfession: ProfessionHacker, Description: "The Hacker's signature. +15 Crypto-Intel.", Cost: 1, Effect: SkillEffect{Type: EffectStatFlat, Target: TargetCInt, Value: 15}},
	{ID: "p_know_a_guy", Name: "I Know A Guy", Tree: "PROFESSION", RequiredProfession: ProfessionFixer, Description: "The Fixer's signature. +15 Luck.", Cost: 1, Effect: SkillEffect{Type: EffectStatFlat, Target: TargetLck, Value: 15}},
	{ID: "p_ghost_protocol", Name: "Ghost Protocol", Tree: "PROFESSION", RequiredProfession: ProfessionSmuggler, Description: "The Smuggler's signature. +15 DEF.", Cost: 1, Effect: SkillEffect{Type: EffectStatFlat, Target: TargetDef, Value: 15}},
}

// FindSkill looks up a catalog skill by id.
func FindSkill(id string) *Skill {
	for i := range SkillCatalog {
		if SkillCatalog[i].ID == id {
			return &SkillCatalog[i]
		}
	}
	return nil
}
