package testutils

import (
	"fmt"

	"github.com/geocards/geocards-api/internal/entities"
)

// Test identities
const (
	TestUserID = "user_1"
	TestEmail  = "player@example.com"
)

// MoscowCenter is the default field center
var MoscowCenter = entities.Coordinate{Lat: 55.7558, Lng: 37.6173}

// DamageItem returns an inventory item that deals damage for cost mana
func DamageItem(id string, cost, damage int) *entities.InventoryItem {
	return &entities.InventoryItem{
		ID:       id,
		Name:     "Bolt " + id,
		Category: entities.CategorySpell,
		Attack:   damage,
		ManaCost: &cost,
		Effect:   &entities.Effect{Kind: entities.EffectDamage, Value: damage},
	}
}

// HealItem returns an inventory item that heals for cost mana
func HealItem(id string, cost, heal int) *entities.InventoryItem {
	return &entities.InventoryItem{
		ID:       id,
		Name:     "Salve " + id,
		Category: entities.CategoryArtifact,
		Defense:  heal,
		ManaCost: &cost,
		Effect:   &entities.Effect{Kind: entities.EffectHeal, Value: heal},
	}
}

// Inventory builds n one-mana damage items named item_1..item_n
func Inventory(n int) []*entities.InventoryItem {
	out := make([]*entities.InventoryItem, n)
	for i := range out {
		out[i] = DamageItem(fmt.Sprintf("item_%d", i+1), 1, 1)
	}
	return out
}

// FieldCard returns an uncollected card at loc
func FieldCard(id string, loc entities.Coordinate, power int) *entities.Card {
	return &entities.Card{
		ID:       id,
		Name:     "Card " + id,
		Category: entities.CategoryCreature,
		Rarity:   entities.RarityCommon,
		Power:    power,
		Location: loc,
	}
}
