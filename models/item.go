package models

// ItemType determines the equipment slot (or consumable behavior).
type ItemType string

const (
	ItemTypeWeapon     ItemType = "WEAPON"
	ItemTypeArmor      ItemType = "ARMOR"
	ItemTypeGadget     ItemType = "GADGET"
	ItemTypeConsumable ItemType = "CONSUMABLE"
)

type ItemRarity string

const (
	RarityCommon    ItemRarity = "COMMON"
	RarityUncommon  ItemRarity = "UNCOMMON"
	RarityRare      ItemRarity = "RARE"
	RarityEpic      ItemRarity = "EPIC"
	RarityLegendary ItemRarity = "LEGENDARY"
)

// Item is either a catalog template (ID = template id) or an owned instance
// (ID = fresh uuid, TemplateID = catalog id). Bonus is ATK for weapons, DEF
// for armor, C-INT for gadgets and HP healed for consumables.
type Item struct {
	ID          string     `json:"id"`
	TemplateID  string     `json:"template_id,omitempty"`
	Name        string     `json:"name"`
	Type        ItemType   `json:"type"`
	Rarity      ItemRarity `json:"rarity"`
	Bonus       int        `json:"bonus"`
	Cost        int        `json:"cost"`
	Description string     `json:"description"`
}

// MarketTrend tags the direction of the latest price movement.
type MarketTrend string

const (
	TrendStable MarketTrend = "STABLE"
	TrendUp     MarketTrend = "UP"
	TrendDown   MarketTrend = "DOWN"
)

// MarketItem is a catalog item with a fluctuating street price.
type MarketItem struct {
	Item
	CurrentPrice int         `json:"current_price"`
	Trend        MarketTrend `json:"trend"`
	TrendValue   float64     `json:"trend_value"`
}

// MarketState is the shared black-market snapshot, refreshed on a schedule.
type MarketState struct {
	Items      []MarketItem `json:"items"`
	LastUpdate int64        `json:"last_update"`
	News       string       `json:"news"`
}

// ItemCatalog is the static item template pool, read-only at runtime.
var ItemCatalog = []Item{
	{ID: "w_knuckles", Name: "Brass Knuckles", Type: ItemTypeWeapon, Rarity: RarityCommon, Bonus: 5, Cost: 250, Description: "+5 ATK. Basic melee."},
	{ID: "w_baton", Name: "Stun Baton", Type: ItemTypeWeapon, Rarity: RarityUncommon, Bonus: 8, Cost: 450, Description: "+8 ATK. Non-lethal option."},
	{ID: "w_pistol", Name: "Tanto 9mm", Type: ItemTypeWeapon, Rarity: RarityUncommon, Bonus: 12, Cost: 600, Description: "+12 ATK. Reliable sidearm."},
	{ID: "w_shotgun", Name: "Street Sweeper", Type: ItemTypeWeapon, Rarity: RarityRare, Bonus: 20, Cost: 1500, Description: "+20 ATK. Close quarters dominance."},
	{ID: "w_rifle", Name: "Arasaka AR", Type: ItemTypeWeapon, Rarity: RarityEpic, Bonus: 30, Cost: 3200, Description: "+30 ATK. Military grade precision."},
	{ID: "w_smg", Name: "Tommy's Revenge", Type: ItemTypeWeapon, Rarity: RarityLegendary, Bonus: 45, Cost: 5000, Description: "+45 ATK. \"Spray & Pray\"."},
	{ID: "a_vest", Name: "Kevlar Vest", Type: ItemTypeArmor, Rarity: RarityCommon, Bonus: 8, Cost: 400, Description: "+8 DEF. Standard issue."},
	{ID: "a_jacket", Name: "Synth-Leather Jacket", Type: ItemTypeArmor, Rarity: RarityUncommon, Bonus: 12, Cost: 800, Description: "+12 DEF. Stylish protection."},
	{ID: "a_dermal", Name: "Subdermal Plating", Type: ItemTypeArmor, Rarity: RarityEpic, Bonus: 15, Cost: 1200, Description: "+15 DEF. Military grade."},
	{ID: "c_stim", Name: "Adrenaline Shot", Type: ItemTypeConsumable, Rarity: RarityCommon, Bonus: 30, Cost: 75, Description: "Heals 30 HP."},
	{ID: "c_nano", Name: "Nanite Injector", Type: ItemTypeConsumable, Rarity: RarityRare, Bonus: 60, Cost: 200, Description: "Heals 60 HP rapidly."},
	{ID: "g_deck", Name: "Script Kiddie Deck", Type: ItemTypeGadget, Rarity: RarityCommon, Bonus: 5, Cost: 300, Description: "+5 C-INT. Entry level cyberdeck."},
	{ID: "g_jammer", Name: "Signal Jammer", Type: ItemTypeGadget, Rarity: RarityUncommon, Bonus: 8, Cost: 600, Description: "+8 C-INT. Blocks local comms."},
}

// FindItemTemplate looks up a catalog item by template id.
func FindItemTemplate(id string) *Item {
	for i := range ItemCatalog {
		if ItemCatalog[i].ID == id {
			return &ItemCatalog[i]
		}
	}
	return nil
}
