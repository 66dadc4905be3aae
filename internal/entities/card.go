// Package entities holds the data types shared by the game packages: cards,
// inventory items, profiles, guilds and chat messages.
package entities

// Coordinate is a WGS84 position in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Category is the card family
type Category string

// Card categories
const (
	CategoryCreature Category = "Creature"
	CategorySpell    Category = "Spell"
	CategoryArtifact Category = "Artifact"
)

// Categories lists every category in generation order
var Categories = []Category{CategoryCreature, CategorySpell, CategoryArtifact}

// Rarity is a card rarity tier
type Rarity string

// Rarity tiers, lowest first
const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Rarities lists every tier, lowest first
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Card is a collectible placed on the map. Collected is append-only:
// once a claimant is recorded it stays.
type Card struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  Category        `json:"type"`
	Rarity    Rarity          `json:"rarity"`
	Power     int             `json:"power"`
	Location  Coordinate      `json:"location"`
	Collected map[string]bool `json:"collected,omitempty"`
}

// Position implements geo.Located
func (c *Card) Position() Coordinate {
	return c.Location
}

// CollectedBy reports whether uid already claimed the card
func (c *Card) CollectedBy(uid string) bool {
	return c.Collected[uid]
}

// EffectKind is what a played card does
type EffectKind string

// Effect kinds
const (
	EffectDamage EffectKind = "damage"
	EffectHeal   EffectKind = "heal"
)

// Effect is the battle effect of an inventory item
type Effect struct {
	Kind  EffectKind `json:"type"`
	Value int        `json:"value"`
}

// InventoryItem is a card owned by one account. Items are never mutated
// after they are granted.
type InventoryItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"type"`
	Rarity      Rarity   `json:"rarity,omitempty"`
	Attack      int      `json:"attack"`
	Defense     int      `json:"defense"`
	Description string   `json:"description,omitempty"`
	ManaCost    *int     `json:"manaCost,omitempty"`
	Effect      *Effect  `json:"effect,omitempty"`
}

// Cost returns the mana cost, 1 when unset
func (i *InventoryItem) Cost() int {
	if i.ManaCost != nil {
		return *i.ManaCost
	}
	return 1
}

// BattleEffect returns the explicit effect, or one derived from the stats:
// attack deals damage, otherwise defense heals. Nil means the card does
// nothing beyond spending mana.
func (i *InventoryItem) BattleEffect() *Effect {
	if i.Effect != nil {
		return i.Effect
	}
	switch {
	case i.Attack > 0:
		return &Effect{Kind: EffectDamage, Value: i.Attack}
	case i.Defense > 0:
		return &Effect{Kind: EffectHeal, Value: i.Defense}
	}
	return nil
}
