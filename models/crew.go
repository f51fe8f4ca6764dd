package models

// CrewTemplate defines hireable operative tiers.
type CrewTemplate struct {
	Name   string
	Type   string
	Atk    int
	Def    int
	Cost   int
	Upkeep int
}

// CrewTemplates is keyed by the hireable type name.
var CrewTemplates = map[string]CrewTemplate{
	"Thug":     {Name: "Street Thug", Type: "Thug", Atk: 5, Def: 0, Cost: 500, Upkeep: 10},
	"Soldier":  {Name: "Soldier", Type: "Soldier", Atk: 15, Def: 5, Cost: 2500, Upkeep: 25},
	"Enforcer": {Name: "Enforcer", Type: "Enforcer", Atk: 35, Def: 10, Cost: 10000, Upkeep: 50},
}

// CrewTrait is rolled once at hire time. Atk/Def are flat deltas; CostMult
// scales the hire price. Named traits are also referenced by mission and
// upkeep logic.
type CrewTrait struct {
	Name     string
	Desc     string
	Atk      int
	Def      int
	CostMult float64
}

// Trait names referenced outside the hire roll.
const (
	TraitExCorpo   = "Ex-Corpo"
	TraitScavenger = "Scavenger"
	TraitPsycho    = "Psycho"
	TraitReliable  = "Reliable"
)

// CrewTraitTable is a flat-weighted draw pool.
var CrewTraitTable = []CrewTrait{
	{Name: "Trigger Happy", Desc: "+5 ATK, -2 DEF", Atk: 5, Def: -2, CostMult: 1},
	{Name: "Meat Shield", Desc: "+10 DEF, -2 ATK", Atk: -2, Def: 10, CostMult: 1},
	{Name: TraitExCorpo, Desc: "Reduces Heat Gain by 5%, +10% Upkeep Cost", Atk: 0, Def: 0, CostMult: 1.1},
	{Name: TraitScavenger, Desc: "+5% Mission Cash", Atk: 0, Def: 0, CostMult: 1},
	{Name: TraitPsycho, Desc: "+8 ATK, Increases Heat Gain", Atk: 8, Def: 0, CostMult: 1},
	{Name: "Veteran", Desc: "+3 ATK, +3 DEF", Atk: 3, Def: 3, CostMult: 1.2},
	{Name: TraitReliable, Desc: "No Stat Changes. -10% Upkeep.", Atk: 0, Def: 0, CostMult: 0.9},
	{Name: "Rookie", Desc: "-2 ATK, -2 DEF. Cheap labor (-20% Cost).", Atk: -2, Def: -2, CostMult: 0.8},
}
