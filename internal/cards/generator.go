// Package cards generates the collectible content of the game: the field
// of map cards, battle rewards and the starter inventory.
package cards

import (
	"fmt"
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
)

const (
	// FieldSpreadDegrees bounds card placement around the field center,
	// roughly 500 m at Moscow's latitude.
	FieldSpreadDegrees = 0.005

	// DefaultFieldSize is how many cards a fresh field gets
	DefaultFieldSize = 10

	// MaxPower is the top of the 1..MaxPower card power range
	MaxPower = 10

	// offsetSteps is the resolution of the placement grid per axis
	offsetSteps = 10_000
)

// DefaultCenter is used when no player position is known
var DefaultCenter = entities.Coordinate{Lat: 55.7558, Lng: 37.6173}

// Config holds the dependencies for the generator
type Config struct {
	Roller      dice.Roller
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Generator creates cards and inventory items
type Generator struct {
	roller dice.Roller
	idGen  idgen.Generator
}

// NewGenerator creates a generator
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Generator{roller: cfg.Roller, idGen: cfg.IDGenerator}, nil
}

// Field generates count uncollected cards spread around center
func (g *Generator) Field(center entities.Coordinate, count int) ([]*entities.Card, error) {
	if count < 0 {
		return nil, errors.InvalidArgumentf("count must not be negative, got %d", count)
	}

	out := make([]*entities.Card, 0, count)
	for i := 0; i < count; i++ {
		category, err := g.category()
		if err != nil {
			return nil, err
		}
		rarity, err := NormalRarity.Pick(g.roller)
		if err != nil {
			return nil, err
		}
		power, err := g.roller.Roll(MaxPower)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll power")
		}
		dLat, err := g.offset()
		if err != nil {
			return nil, err
		}
		dLng, err := g.offset()
		if err != nil {
			return nil, err
		}

		out = append(out, &entities.Card{
			ID:       g.idGen.Generate(),
			Name:     fmt.Sprintf("%s #%d", category, i+1),
			Category: category,
			Rarity:   rarity,
			Power:    power,
			Location: entities.Coordinate{
				Lat: center.Lat + dLat,
				Lng: center.Lng + dLng,
			},
		})
	}
	return out, nil
}

// Reward generates a battle reward from the boosted rarity table. Higher
// tiers get higher stats.
func (g *Generator) Reward() (*entities.InventoryItem, error) {
	category, err := g.category()
	if err != nil {
		return nil, err
	}
	rarity, err := BoostedRarity.Pick(g.roller)
	if err != nil {
		return nil, err
	}
	tier := Tier(rarity)

	attack, err := g.roller.Roll(3)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll attack")
	}
	defense, err := g.roller.Roll(3)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll defense")
	}

	item := &entities.InventoryItem{
		ID:          g.idGen.Generate(),
		Name:        fmt.Sprintf("%s %s", rarity, category),
		Category:    category,
		Rarity:      rarity,
		Attack:      attack + tier,
		Defense:     defense - 1 + tier,
		Description: "Battle reward.",
	}

	switch category {
	case entities.CategorySpell:
		item.Defense = 0
	case entities.CategoryArtifact:
		item.Attack = 0
	}

	return item, nil
}

func (g *Generator) category() (entities.Category, error) {
	roll, err := g.roller.Roll(len(entities.Categories))
	if err != nil {
		return "", errors.Wrap(err, "failed to roll category")
	}
	return entities.Categories[roll-1], nil
}

// offset returns a uniform value in [-FieldSpreadDegrees, FieldSpreadDegrees]
func (g *Generator) offset() (float64, error) {
	roll, err := g.roller.Roll(offsetSteps + 1)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll placement")
	}
	frac := float64(roll-1)/offsetSteps*2 - 1
	return frac * FieldSpreadDegrees, nil
}

// LevelForExperience is floor(sqrt(xp/100)) + 1
func LevelForExperience(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}
