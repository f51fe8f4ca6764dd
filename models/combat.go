package models

// EnemyType is flavor only; it does not change combat math.
type EnemyType string

const (
	EnemyHuman  EnemyType = "HUMAN"
	EnemyMech   EnemyType = "MECH"
	EnemyCyborg EnemyType = "CYBORG"
)

// Enemy is the scaled opponent snapshot embedded in a combat state.
type Enemy struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Hp       int       `json:"hp"`
	MaxHp    int       `json:"max_hp"`
	Atk      int       `json:"atk"`
	Def      int       `json:"def"`
	Type     EnemyType `json:"type"`
	District District  `json:"district,omitempty"`
}

// CombatLogType tags a combat log entry for the UI.
type CombatLogType string

const (
	CombatLogInfo      CombatLogType = "INFO"
	CombatLogPlayerHit CombatLogType = "PLAYER_HIT"
	CombatLogEnemyHit  CombatLogType = "ENEMY_HIT"
	CombatLogFailure   CombatLogType = "FAILURE"
)

// CombatLogEntry is one line of the ordered combat log.
type CombatLogEntry struct {
	Turn    int           `json:"turn"`
	Message string        `json:"message"`
	Type    CombatLogType `json:"type"`
	Damage  int           `json:"damage,omitempty"`
}

// CombatAction is a player command for one combat round.
type CombatAction string

const (
	ActionAttack CombatAction = "ATTACK"
	ActionHeavy  CombatAction = "HEAVY"
	ActionDefend CombatAction = "DEFEND"
	ActionFlee   CombatAction = "FLEE"
)

// CombatState is the turn-based sub-state of a MissionRun. It is owned by its
// parent run and goes inactive exactly once, on victory, defeat or escape.
type CombatState struct {
	IsActive        bool             `json:"is_active"`
	TurnCount       int              `json:"turn_count"`
	Enemy           Enemy            `json:"enemy"`
	Logs            []CombatLogEntry `json:"logs"`
	PlayerDefending bool             `json:"player_defending"`
}

// Clone returns a deep copy so callers never observe in-place mutation of a
// live combat state.
func (cs *CombatState) Clone() *CombatState {
	out := *cs
	out.Logs = make([]CombatLogEntry, len(cs.Logs))
	copy(out.Logs, cs.Logs)
	return &out
}

// EnemyCatalog holds per-district enemy templates. The final entry has no
// district and serves as the generic fallback.
var EnemyCatalog = []Enemy{
	{Name: "Dockyard Enforcer", Hp: 80, MaxHp: 80, Atk: 15, Def: 5, Type: EnemyHuman, District: DistrictDocks},
	{Name: "Neon Triad Assassin", Hp: 100, MaxHp: 100, Atk: 25, Def: 10, Type: EnemyHuman, District: DistrictNeonRow},
	{Name: "Scavenger Bot", Hp: 150, MaxHp: 150, Atk: 10, Def: 20, Type: EnemyMech, District: DistrictFurnace},
	{Name: "Corporate Sec-Guard", Hp: 120, MaxHp: 120, Atk: 20, Def: 15, Type: EnemyHuman, District: DistrictGildedHeights},
	{Name: "Sprawl Ganger", Hp: 90, MaxHp: 90, Atk: 18, Def: 8, Type: EnemyHuman, District: DistrictSprawl},
	{Name: "Security Drone", Hp: 60, MaxHp: 60, Atk: 30, Def: 5, Type: EnemyMech, District: DistrictCircuitBay},
	{Name: "Mob Hitman", Hp: 140, MaxHp: 140, Atk: 35, Def: 12, Type: EnemyHuman, District: DistrictOldTown},
	{Name: "Mutant Scav", Hp: 180, MaxHp: 180, Atk: 40, Def: 5, Type: EnemyHuman, District: DistrictUndercity},
	{Name: "Elite Corpguard", Hp: 200, MaxHp: 200, Atk: 45, Def: 25, Type: EnemyCyborg, District: DistrictCorporatePlaza},
	{Name: "Black Ops Agent", Hp: 250, MaxHp: 250, Atk: 60, Def: 20, Type: EnemyHuman, District: DistrictShadows},
	{Name: "Fed Cyborg", Hp: 300, MaxHp: 300, Atk: 70, Def: 40, Type: EnemyCyborg, District: DistrictGovernment},
	{Name: "AI Defense Avatar", Hp: 500, MaxHp: 500, Atk: 100, Def: 50, Type: EnemyMech, District: DistrictNexus},
	{Name: "Street Thug", Hp: 50, MaxHp: 50, Atk: 10, Def: 0, Type: EnemyHuman},
}
