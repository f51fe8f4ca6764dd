package models

// FactionID identifies one of the four starting syndicates.
type FactionID string

const (
	FactionIronWolves   FactionID = "IRON_WOLVES"
	FactionJadeSerpents FactionID = "JADE_SERPENTS"
	FactionCrimsonVeil  FactionID = "CRIMSON_VEIL"
	FactionChromeSaints FactionID = "CHROME_SAINTS"
)

// ProfessionID identifies the player's fixed profession.
type ProfessionID string

const (
	ProfessionEnforcer ProfessionID = "ENFORCER"
	ProfessionHacker   ProfessionID = "HACKER"
	ProfessionFixer    ProfessionID = "FIXER"
	ProfessionSmuggler ProfessionID = "SMUGGLER"
)

// PlayerStats holds the base combat/utility stats. Derived totals
// (equipment, crew, skills) are computed on demand, never stored here.
type PlayerStats struct {
	Atk    int `json:"atk"`
	Def    int `json:"def"`
	Hp     int `json:"hp"`
	MaxHp  int `json:"max_hp"`
	Enr    int `json:"enr"`
	MaxEnr int `json:"max_enr"`
	Sta    int `json:"sta"`
	MaxSta int `json:"max_sta"`
	Lck    int `json:"lck"`
	CInt   int `json:"c_int"`
	Heat   int `json:"heat"`
}

// CrewMember is a hired operative. Only active members contribute to
// aggregated stats and upkeep.
type CrewMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Atk      int    `json:"atk"`
	Def      int    `json:"def"`
	Cost     int    `json:"cost"`
	Upkeep   int    `json:"upkeep"`
	Trait    string `json:"trait,omitempty"`
	TraitDesc string `json:"trait_desc,omitempty"`
	IsActive bool   `json:"is_active"`
}

// Equipment holds at most one item per slot.
type Equipment struct {
	Weapon *Item `json:"weapon"`
	Armor  *Item `json:"armor"`
	Gadget *Item `json:"gadget"`
}

// Player is the sole mutable aggregate root. Identity fields are fixed at
// creation; everything else is mutated by engine operations.
type Player struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Faction    FactionID    `json:"faction"`
	Profession ProfessionID `json:"profession"`

	Level int `json:"level"`
	Xp    int `json:"xp"`

	Stats  PlayerStats `json:"stats"`
	Wallet int         `json:"wallet"`
	Day    int         `json:"day"`

	Crew      []CrewMember `json:"crew"`
	Inventory []Item       `json:"inventory"`
	Equipment Equipment    `json:"equipment"`

	SkillPoints    int      `json:"skill_points"`
	UnlockedSkills []string `json:"unlocked_skills"`

	// Mission type -> epoch ms when the next attempt of that type is allowed.
	MissionCooldowns map[MissionType]int64 `json:"mission_cooldowns"`
	// Mission id -> mastery percent, 0-100, never decreases.
	MissionMastery map[string]int `json:"mission_mastery"`

	CurrentNews string `json:"current_news"`

	LoginStreak   int      `json:"login_streak"`
	LastLoginDate string   `json:"last_login_date"` // YYYY-MM-DD
	Badges        []string `json:"badges"`
}

// HasBadge reports whether the badge was already granted (badges are append-only).
func (p *Player) HasBadge(code string) bool {
	for _, b := range p.Badges {
		if b == code {
			return true
		}
	}
	return false
}

// Slot returns a pointer to the slot matching an item type,
// or nil for types that cannot be equipped.
func (e *Equipment) Slot(t ItemType) **Item {
	switch t {
	case ItemTypeWeapon:
		return &e.Weapon
	case ItemTypeArmor:
		return &e.Armor
	case ItemTypeGadget:
		return &e.Gadget
	}
	return nil
}
