package services

import (
	"fmt"
	"math"

	"github.com/gosimple/slug"

	"syndicate-engine/models"
)

// RequiredXp returns the XP needed to clear the given level.
func RequiredXp(level int) int {
	return int(math.Round(100 * math.Pow(float64(level), 1.4)))
}

// LevelUpResult summarizes what a level-up check granted.
type LevelUpResult struct {
	LeveledUp    bool
	LevelsGained int
	SkillPoints  int
}

// CheckLevelUp consumes banked XP, looping so a single large grant cascades
// through multiple levels. Each level grants +2 ATK, +2 DEF, +5 Max HP,
// +2 Max ENR, +1 Max STA, a skill point every 5th level, and a full refill of
// hp/energy/stamina. Leaves xp < RequiredXp(level) on return.
func CheckLevelUp(p *models.Player) LevelUpResult {
	var res LevelUpResult
	for p.Xp >= RequiredXp(p.Level) {
		p.Xp -= RequiredXp(p.Level)
		p.Level++
		p.Stats.Atk += 2
		p.Stats.Def += 2
		p.Stats.MaxHp += 5
		p.Stats.MaxEnr += 2
		p.Stats.MaxSta += 1
		if p.Level%5 == 0 {
			p.SkillPoints++
			res.SkillPoints++
		}
		res.LeveledUp = true
		res.LevelsGained++
	}
	if res.LeveledUp {
		p.Stats.Hp = p.Stats.MaxHp
		p.Stats.Enr = p.Stats.MaxEnr
		p.Stats.Sta = p.Stats.MaxSta
	}
	return res
}

// MasteryReward is the one-time permanent grant for fully mastering a mission.
type MasteryReward struct {
	Stat  string
	Value int
	Label string
}

// MasteryRewardFor keys the permanent reward by mission category, checked in
// priority order.
func MasteryRewardFor(m *models.Mission) MasteryReward {
	switch {
	case m.Type == models.MissionStory:
		return MasteryReward{Stat: "max_hp", Value: 20, Label: "Titan Heart (+20 Max HP)"}
	case m.Risk == models.RiskExtreme:
		return MasteryReward{Stat: "atk", Value: 3, Label: "Apex Predator (+3 ATK)"}
	case m.Risk == models.RiskHigh:
		return MasteryReward{Stat: "atk", Value: 2, Label: "Street King (+2 ATK)"}
	case m.Type == models.MissionContract:
		return MasteryReward{Stat: "def", Value: 2, Label: "Iron Skin (+2 DEF)"}
	default:
		return MasteryReward{Stat: "max_enr", Value: 2, Label: "Endurance (+2 Max ENR)"}
	}
}

// MasteryBadgeCode derives the badge code from the mission title.
func MasteryBadgeCode(m *models.Mission) string {
	return "master-" + slug.Make(m.Title)
}

// MasteryMultiplier is the standing reward bonus once a mission is mastered.
func MasteryMultiplier(p *models.Player, missionID string) float64 {
	if p.MissionMastery[missionID] >= 100 {
		return 1.25
	}
	return 1.0
}

// ApplyMastery advances mastery for one resolution (+5 success, +2 failure,
// capped at 100). On the exact transition to 100 it grants the permanent
// reward and badge once, returning a display suffix for the outcome message.
func ApplyMastery(p *models.Player, m *models.Mission, success bool) string {
	current := p.MissionMastery[m.ID]
	if current >= 100 {
		if success {
			return " (Mastery Bonus Active: +25% Reward)"
		}
		return ""
	}

	gain := 2
	if success {
		gain = 5
	}
	updated := current + gain
	if updated > 100 {
		updated = 100
	}
	p.MissionMastery[m.ID] = updated

	if updated < 100 {
		return ""
	}

	reward := MasteryRewardFor(m)
	switch reward.Stat {
	case "max_hp":
		p.Stats.MaxHp += reward.Value
		p.Stats.Hp += reward.Value
		if p.Stats.Hp > p.Stats.MaxHp {
			p.Stats.Hp = p.Stats.MaxHp
		}
	case "atk":
		p.Stats.Atk += reward.Value
	case "def":
		p.Stats.Def += reward.Value
	case "max_enr":
		p.Stats.MaxEnr += reward.Value
		p.Stats.Enr += reward.Value
		if p.Stats.Enr > p.Stats.MaxEnr {
			p.Stats.Enr = p.Stats.MaxEnr
		}
	}

	badge := MasteryBadgeCode(m)
	if !p.HasBadge(badge) {
		p.Badges = append(p.Badges, badge)
	}
	return fmt.Sprintf(" MASTERY UNLOCKED: %s", reward.Label)
}
