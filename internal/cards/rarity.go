package cards

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
)

// Weight is one row of a RarityTable
type Weight struct {
	Rarity entities.Rarity
	Weight int
}

// RarityTable is a named weighted distribution over rarities
type RarityTable struct {
	Name    string
	Weights []Weight
}

// NormalRarity is used for field cards: every tier equally likely
var NormalRarity = RarityTable{
	Name: "normal",
	Weights: []Weight{
		{Rarity: entities.RarityCommon, Weight: 1},
		{Rarity: entities.RarityRare, Weight: 1},
		{Rarity: entities.RarityEpic, Weight: 1},
		{Rarity: entities.RarityLegendary, Weight: 1},
	},
}

// BoostedRarity is used for battle rewards. The weights are tuning knobs.
var BoostedRarity = RarityTable{
	Name: "boosted",
	Weights: []Weight{
		{Rarity: entities.RarityCommon, Weight: 10},
		{Rarity: entities.RarityRare, Weight: 40},
		{Rarity: entities.RarityEpic, Weight: 35},
		{Rarity: entities.RarityLegendary, Weight: 15},
	},
}

// Total returns the sum of all weights
func (t RarityTable) Total() int {
	total := 0
	for _, w := range t.Weights {
		total += w.Weight
	}
	return total
}

// Pick draws one rarity
func (t RarityTable) Pick(roller dice.Roller) (entities.Rarity, error) {
	total := t.Total()
	if total <= 0 {
		return "", errors.Internalf("rarity table %s has no weight", t.Name)
	}

	roll, err := roller.Roll(total)
	if err != nil {
		return "", errors.Wrap(err, "failed to roll rarity")
	}

	for _, w := range t.Weights {
		if roll <= w.Weight {
			return w.Rarity, nil
		}
		roll -= w.Weight
	}
	return t.Weights[len(t.Weights)-1].Rarity, nil
}

// Tier returns 0 for Common up to 3 for Legendary
func Tier(r entities.Rarity) int {
	for i, candidate := range entities.Rarities {
		if candidate == r {
			return i
		}
	}
	return 0
}
