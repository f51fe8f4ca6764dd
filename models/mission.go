package models

// MissionType drives the per-type cooldown after a resolution.
type MissionType string

const (
	MissionStory    MissionType = "STORY"
	MissionSideJob  MissionType = "SIDE_JOB"
	MissionContract MissionType = "CONTRACT"
)

// RiskTier scales heat gain, escalation chance and reward multipliers.
type RiskTier string

const (
	RiskLow     RiskTier = "Low"
	RiskMedium  RiskTier = "Medium"
	RiskHigh    RiskTier = "High"
	RiskExtreme RiskTier = "Extreme"
)

type District string

const (
	DistrictDocks          District = "The Docks"
	DistrictNeonRow        District = "Neon Row"
	DistrictFurnace        District = "The Furnace"
	DistrictGildedHeights  District = "Gilded Heights"
	DistrictSprawl         District = "The Sprawl"
	DistrictCircuitBay     District = "Circuit Bay"
	DistrictOldTown        District = "Old Town"
	DistrictUndercity      District = "The Undercity"
	DistrictCorporatePlaza District = "Corporate Plaza"
	DistrictShadows        District = "The Shadows"
	DistrictGovernment     District = "Government District"
	DistrictNexus          District = "The Nexus"
)

// DistrictMeta is display metadata for a district.
type DistrictMeta struct {
	ID          District `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// Mission is a static catalog entry, immutable during a run.
type Mission struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	District          District    `json:"district"`
	MinLevel          int         `json:"min_level"`
	Type              MissionType `json:"type"`
	Difficulty        int         `json:"difficulty"` // 1-10
	Risk              RiskTier    `json:"risk"`
	CostEnr           int         `json:"cost_enr"`
	BaseReward        int         `json:"base_reward"`
	BaseXp            int         `json:"base_xp"`
	Objectives        []string    `json:"objectives"`
	BaseSuccessChance float64     `json:"base_success_chance"`
}

// RunNarrativePending marks a MissionRun that has been started but not resolved.
const RunNarrativePending = "PENDING"

// MissionRun is one attempt's audit record. It is terminal once Narrative is
// no longer PENDING and any embedded combat is inactive.
type MissionRun struct {
	ID          string       `json:"id"`
	PlayerID    string       `json:"player_id"`
	MissionID   string       `json:"mission_id"`
	Success     bool         `json:"success"`
	XpGained    int          `json:"xp_gained"`
	GangGained  int          `json:"gang_gained"`
	HpChange    int          `json:"hp_change"`
	HeatChange  int          `json:"heat_change"`
	Narrative   string       `json:"narrative"`
	Timestamp   int64        `json:"timestamp"` // epoch ms
	Objectives  []string     `json:"objectives,omitempty"`
	CombatState *CombatState `json:"combat_state,omitempty"`
}

// Open reports whether the run still serializes new mission attempts:
// either pending resolution or mid-combat.
func (r *MissionRun) Open() bool {
	return r.Narrative == RunNarrativePending || (r.CombatState != nil && r.CombatState.IsActive)
}

// MissionRewards / MissionPenalties are the two halves of an outcome.
type MissionRewards struct {
	Money int `json:"money"`
	Exp   int `json:"exp"`
}

type MissionPenalties struct {
	HpLoss   int `json:"hp_loss"`
	HeatGain int `json:"heat_gain"`
}

// MissionOutcome is the terminal result returned to the caller.
type MissionOutcome struct {
	Success    bool             `json:"success"`
	Narrative  string           `json:"narrative"`
	Rewards    MissionRewards   `json:"rewards"`
	Penalties  MissionPenalties `json:"penalties"`
	MissionID  string           `json:"mission_id"`
	Objectives []string         `json:"objectives,omitempty"`
	CapReached bool             `json:"cap_reached,omitempty"`
}

// DecisionType categorizes a briefing choice.
type DecisionType string

const (
	DecisionAggressive DecisionType = "AGGRESSIVE"
	DecisionBalanced   DecisionType = "BALANCED"
	DecisionStealth    DecisionType = "STEALTH"
	DecisionDiplomatic DecisionType = "DIPLOMATIC"
	DecisionTech       DecisionType = "TECH"
)

// MissionDecision is one selectable approach in a scenario briefing.
type MissionDecision struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Type        DecisionType `json:"type"`
	Cost        int          `json:"cost,omitempty"`
}

// MissionScenario is the briefing shown between start and resolve.
type MissionScenario struct {
	Narrative  string            `json:"narrative"`
	Choices    []MissionDecision `json:"choices"`
	Objectives []string          `json:"objectives"`
}

// HeatEvent is an append-only audit entry for heat deltas. Diagnostics only;
// never read back into gameplay logic.
type HeatEvent struct {
	ID         string `json:"id"`
	PlayerID   string `json:"player_id"`
	HeatBefore int    `json:"heat_before"`
	HeatAfter  int    `json:"heat_after"`
	Reason     string `json:"reason"`
	Narrative  string `json:"narrative"`
	Timestamp  int64  `json:"timestamp"`
}

// DistrictCatalog is static and read-only at runtime.
var DistrictCatalog = []DistrictMeta{
	{ID: DistrictDocks, Name: "The Docks", Description: "Smuggling operations in a fog-drenched industrial port."},
	{ID: DistrictNeonRow, Name: "Neon Row", Description: "Entertainment & vice. Blinding neon signs and crowded streets."},
	{ID: DistrictFurnace, Name: "The Furnace", Description: "Industrial sabotage sector. Molten metal and heavy machinery."},
	{ID: DistrictGildedHeights, Name: "Gilded Heights", Description: "High society heists. Sleek corporate skyscrapers."},
	{ID: DistrictSprawl, Name: "The Sprawl", Description: "Street gang warfare. Endless blocks of decaying mega-towers."},
	{ID: DistrictCircuitBay, Name: "Circuit Bay", Description: "Tech crimes hub. Server farms and drone traffic."},
	{ID: DistrictOldTown, Name: "Old Town", Description: "Traditional mob ops. Speakeasies and classic crime."},
	{ID: DistrictUndercity, Name: "The Undercity", Description: "Black market deals. Subterranean ruins."},
	{ID: DistrictCorporatePlaza, Name: "Corporate Plaza", Description: "White collar crime. Glass towers and boardrooms."},
	{ID: DistrictShadows, Name: "The Shadows", Description: "Espionage sector. Restricted zones."},
	{ID: DistrictGovernment, Name: "Government District", Description: "Political corruption. Brutalist architecture."},
	{ID: DistrictNexus, Name: "The Nexus", Description: "Endgame content. The central AI core."},
}

// MissionCatalog is the static mission pool, read-only at runtime.
var MissionCatalog = []Mission{
	{ID: "m_docks_1", Title: "Container Raid", Description: "Smuggle contraband off a cargo ship.", District: DistrictDocks, MinLevel: 1, Type: MissionSideJob, Difficulty: 1, Risk: RiskLow, CostEnr: 5, BaseReward: 100, BaseXp: 50, Objectives: []string{"Locate Container 404", "Bypass electronic lock", "Extract goods undetected"}, BaseSuccessChance: 0.85},
	{ID: "m_docks_2", Title: "Union Bribe", Description: "Ensure the dock workers look the other way.", District: DistrictDocks, MinLevel: 3, Type: MissionStory, Difficulty: 2, Risk: RiskLow, CostEnr: 10, BaseReward: 250, BaseXp: 100, Objectives: []string{"Identify Union Rep", "Deliver 'package'", "Secure silence"}, BaseSuccessChance: 0.80},
	{ID: "m_neon_1", Title: "Club Protection", Description: "Collect dues from the \"Velvet Lounge\".", District: DistrictNeonRow, MinLevel: 5, Type: MissionSideJob, Difficulty: 4, Risk: RiskMedium, CostEnr: 8, BaseReward: 400, BaseXp: 150, Objectives: []string{"Intimidate Manager", "Neutralize bouncer intervention", "Collect weekly dues"}, BaseSuccessChance: 0.65},
	{ID: "m_neon_2", Title: "VIP Extraction", Description: "Get a high-profile target out of a rival club.", District: DistrictNeonRow, MinLevel: 8, Type: MissionContract, Difficulty: 5, Risk: RiskHigh, CostEnr: 25, BaseReward: 800, BaseXp: 300, Objectives: []string{"Infiltrate VIP Lounge", "Secure Target", "Escape via back alley"}, BaseSuccessChance: 0.50},
	{ID: "m_furn_1", Title: "Factory Sabotage", Description: "Disable the automated assembly line.", District: DistrictFurnace, MinLevel: 10, Type: MissionStory, Difficulty: 6, Risk: RiskHigh, CostEnr: 15, BaseReward: 1200, BaseXp: 500, Objectives: []string{"Plant EMP charge", "Hack security mainframe", "Evacuate before detonation"}, BaseSuccessChance: 0.45},
	{ID: "m_gilded_1", Title: "Penthouse Heist", Description: "Crack a CEO's safe during a gala.", District: DistrictGildedHeights, MinLevel: 15, Type: MissionSideJob, Difficulty: 7, Risk: RiskHigh, CostEnr: 12, BaseReward: 2000, BaseXp: 800, Objectives: []string{"Bypass biometric scans", "Blend in with guests", "Crack the vault"}, BaseSuccessChance: 0.40},
	{ID: "m_sprawl_1", Title: "Turf War", Description: "Defend a stash house from rival gangs.", District: DistrictSprawl, MinLevel: 20, Type: MissionContract, Difficulty: 7, Risk: RiskHigh, CostEnr: 35, BaseReward: 3000, BaseXp: 1200, Objectives: []string{"Fortify position", "Repel wave of attackers", "Secure the product"}, BaseSuccessChance: 0.35},
	{ID: "m_circuit_1", Title: "Data Center Hack", Description: "Steal proprietary algorithms.", District: DistrictCircuitBay, MinLevel: 25, Type: MissionSideJob, Difficulty: 8, Risk: RiskMedium, CostEnr: 15, BaseReward: 4500, BaseXp: 1500, Objectives: []string{"Infiltrate server farm", "Deploy ice-breaker virus", "Download petabytes"}, BaseSuccessChance: 0.30},
	{ID: "m_old_1", Title: "Don's Favor", Description: "Recover a stolen heirloom.", District: DistrictOldTown, MinLevel: 30, Type: MissionStory, Difficulty: 8, Risk: RiskMedium, CostEnr: 20, BaseReward: 6000, BaseXp: 2000, Objectives: []string{"Investigate pawn shops", "Interrogate fences", "Retrieve the item"}, BaseSuccessChance: 0.40},
	{ID: "m_under_1", Title: "Fungal Harvest", Description: "Collect rare bio-luminescent spores.", District: DistrictUndercity, MinLevel: 35, Type: MissionSideJob, Difficulty: 9, Risk: RiskHigh, CostEnr: 15, BaseReward: 8000, BaseXp: 2500, Objectives: []string{"Navigate toxic tunnels", "Avoid mutants", "Harvest spores"}, BaseSuccessChance: 0.25},
	{ID: "m_corp_1", Title: "Executive Extraction", Description: "Kidnap a high-value target.", District: DistrictCorporatePlaza, MinLevel: 40, Type: MissionContract, Difficulty: 9, Risk: RiskExtreme, CostEnr: 45, BaseReward: 12000, BaseXp: 3500, Objectives: []string{"Disable building security", "Sedate target", "Escape via air-car"}, BaseSuccessChance: 0.20},
	{ID: "m_shadow_1", Title: "Black Site Infiltration", Description: "Break into a government black site.", District: DistrictShadows, MinLevel: 45, Type: MissionStory, Difficulty: 10, Risk: RiskExtreme, CostEnr: 25, BaseReward: 18000, BaseXp: 5000, Objectives: []string{"Avoid thermal cameras", "Hack mainframe", "Wipe identity data"}, BaseSuccessChance: 0.15},
	{ID: "m_gov_1", Title: "Election Rigging", Description: "Ensure the \"right\" candidate wins.", District: DistrictGovernment, MinLevel: 50, Type: MissionSideJob, Difficulty: 10, Risk: RiskHigh, CostEnr: 15, BaseReward: 25000, BaseXp: 7000, Objectives: []string{"Hack voting machines", "Blackmail officials", "Plant evidence"}, BaseSuccessChance: 0.10},
	{ID: "m_nexus_1", Title: "Core Override", Description: "Seize control of the city AI.", District: DistrictNexus, MinLevel: 60, Type: MissionStory, Difficulty: 10, Risk: RiskExtreme, CostEnr: 30, BaseReward: 50000, BaseXp: 15000, Objectives: []string{"Breach the firewall", "Upload consciousness", "Become the city"}, BaseSuccessChance: 0.05},
}

// FindMission looks up a catalog mission by id.
func FindMission(id string) *Mission {
	for i := range MissionCatalog {
		if MissionCatalog[i].ID == id {
			return &MissionCatalog[i]
		}
	}
	return nil
}
