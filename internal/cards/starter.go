package cards

import "github.com/geocards/geocards-api/internal/entities"

// StarterItems returns the inventory granted on registration. The ids are
// fixed so a second grant overwrites instead of duplicating.
func StarterItems() map[string]*entities.InventoryItem {
	items := []*entities.InventoryItem{
		{
			ID:          "starter1",
			Name:        "Brave Warrior",
			Category:    entities.CategoryCreature,
			Rarity:      entities.RarityCommon,
			Attack:      2,
			Defense:     2,
			Description: "Starter card. A loyal companion at the start of the road.",
		},
		{
			ID:          "starter2",
			Name:        "Fireball",
			Category:    entities.CategorySpell,
			Rarity:      entities.RarityCommon,
			Attack:      3,
			Defense:     0,
			Description: "Starter card. A basic fire spell.",
		},
		{
			ID:          "starter3",
			Name:        "Wooden Shield",
			Category:    entities.CategoryArtifact,
			Rarity:      entities.RarityCommon,
			Attack:      0,
			Defense:     3,
			Description: "Starter card. Simple but dependable protection.",
		},
		{
			ID:          "starter4",
			Name:        "Mage Apprentice",
			Category:    entities.CategoryCreature,
			Rarity:      entities.RarityCommon,
			Attack:      1,
			Defense:     3,
			Description: "Starter card. A novice mage with great potential.",
		},
	}

	out := make(map[string]*entities.InventoryItem, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}
