package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geocards/geocards-api/internal/entities"
)

func TestInventoryItem_BattleEffect(t *testing.T) {
	three := 3
	testCases := []struct {
		name   string
		item   entities.InventoryItem
		cost   int
		effect *entities.Effect
	}{
		{
			name:   "attack derives damage",
			item:   entities.InventoryItem{Attack: 2, Defense: 2},
			cost:   1,
			effect: &entities.Effect{Kind: entities.EffectDamage, Value: 2},
		},
		{
			name:   "defense only derives heal",
			item:   entities.InventoryItem{Defense: 3},
			cost:   1,
			effect: &entities.Effect{Kind: entities.EffectHeal, Value: 3},
		},
		{
			name:   "explicit values win",
			item:   entities.InventoryItem{Attack: 5, ManaCost: &three, Effect: &entities.Effect{Kind: entities.EffectHeal, Value: 1}},
			cost:   3,
			effect: &entities.Effect{Kind: entities.EffectHeal, Value: 1},
		},
		{
			name: "no stats no effect",
			item: entities.InventoryItem{},
			cost: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.cost, tc.item.Cost())
			assert.Equal(t, tc.effect, tc.item.BattleEffect())
		})
	}
}
