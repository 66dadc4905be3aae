package cards_test

import (
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/suite"

	"github.com/geocards/geocards-api/internal/cards"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/geo"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
	"github.com/geocards/geocards-api/internal/testutils"
)

type GeneratorTestSuite struct {
	suite.Suite
	roller *testutils.ScriptedRoller
	gen    *cards.Generator
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (s *GeneratorTestSuite) SetupTest() {
	s.roller = testutils.NewScriptedRoller()
	var err error
	s.gen, err = cards.NewGenerator(&cards.Config{
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("card"),
	})
	s.Require().NoError(err)
}

func (s *GeneratorTestSuite) TestNewGenerator_Validation() {
	_, err := cards.NewGenerator(&cards.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *GeneratorTestSuite) TestField_Scripted() {
	// category, rarity, power, lat offset, lng offset
	s.roller.Push(2, 4, 7, 1, 10_001)

	field, err := s.gen.Field(testutils.MoscowCenter, 1)
	s.Require().NoError(err)
	s.Require().Len(field, 1)

	c := field[0]
	s.Equal("card_1", c.ID)
	s.Equal(entities.CategorySpell, c.Category)
	s.Equal("Spell #1", c.Name)
	s.Equal(entities.RarityLegendary, c.Rarity)
	s.Equal(7, c.Power)
	s.InDelta(testutils.MoscowCenter.Lat-cards.FieldSpreadDegrees, c.Location.Lat, 1e-12)
	s.InDelta(testutils.MoscowCenter.Lng+cards.FieldSpreadDegrees, c.Location.Lng, 1e-12)
	s.Empty(c.Collected)
}

func (s *GeneratorTestSuite) TestField_RandomStaysInBounds() {
	gen, err := cards.NewGenerator(&cards.Config{
		Roller:      dice.DefaultRoller,
		IDGenerator: idgen.NewUUID("card"),
	})
	s.Require().NoError(err)

	field, err := gen.Field(cards.DefaultCenter, cards.DefaultFieldSize)
	s.Require().NoError(err)
	s.Len(field, cards.DefaultFieldSize)

	for _, c := range field {
		s.LessOrEqual(c.Power, cards.MaxPower)
		s.GreaterOrEqual(c.Power, 1)
		s.LessOrEqual(c.Location.Lat, cards.DefaultCenter.Lat+cards.FieldSpreadDegrees)
		s.GreaterOrEqual(c.Location.Lat, cards.DefaultCenter.Lat-cards.FieldSpreadDegrees)
		s.Less(geo.DistanceMeters(cards.DefaultCenter, c.Location), 800.0)
	}
}

func (s *GeneratorTestSuite) TestField_NegativeCount() {
	_, err := s.gen.Field(cards.DefaultCenter, -1)
	s.True(errors.IsInvalidArgument(err))
}

func (s *GeneratorTestSuite) TestReward() {
	testCases := []struct {
		name     string
		rolls    []int
		category entities.Category
		rarity   entities.Rarity
		attack   int
		defense  int
	}{
		{
			name:     "legendary creature",
			rolls:    []int{1, 100, 3, 3},
			category: entities.CategoryCreature,
			rarity:   entities.RarityLegendary,
			attack:   6,
			defense:  5,
		},
		{
			name:     "common spell has no defense",
			rolls:    []int{2, 10, 1, 3},
			category: entities.CategorySpell,
			rarity:   entities.RarityCommon,
			attack:   1,
			defense:  0,
		},
		{
			name:     "rare artifact has no attack",
			rolls:    []int{3, 11, 2, 2},
			category: entities.CategoryArtifact,
			rarity:   entities.RarityRare,
			attack:   0,
			defense:  2,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.roller.Push(tc.rolls...)

			item, err := s.gen.Reward()
			s.Require().NoError(err)
			s.Equal(tc.category, item.Category)
			s.Equal(tc.rarity, item.Rarity)
			s.Equal(tc.attack, item.Attack)
			s.Equal(tc.defense, item.Defense)
		})
	}
}

func (s *GeneratorTestSuite) TestRarityTables() {
	s.Equal(4, cards.NormalRarity.Total())
	s.Equal(100, cards.BoostedRarity.Total())

	// boosted table makes Common the least likely tier
	for _, w := range cards.BoostedRarity.Weights[1:] {
		s.Greater(w.Weight, cards.BoostedRarity.Weights[0].Weight)
	}

	s.roller.Push(50)
	r, err := cards.BoostedRarity.Pick(s.roller)
	s.Require().NoError(err)
	s.Equal(entities.RarityRare, r)
	s.Equal(100, s.roller.Sizes[len(s.roller.Sizes)-1])
}

func (s *GeneratorTestSuite) TestStarterItems() {
	items := cards.StarterItems()
	s.Len(items, 4)

	fireball := items["starter2"]
	s.Require().NotNil(fireball)
	s.Equal(3, fireball.Attack)
	s.Equal(1, fireball.Cost())
	s.Equal(&entities.Effect{Kind: entities.EffectDamage, Value: 3}, fireball.BattleEffect())

	shield := items["starter3"]
	s.Equal(&entities.Effect{Kind: entities.EffectHeal, Value: 3}, shield.BattleEffect())
}

func (s *GeneratorTestSuite) TestLevelForExperience() {
	testCases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{-5, 1},
	}

	for _, tc := range testCases {
		s.Equal(tc.level, cards.LevelForExperience(tc.xp), "xp=%d", tc.xp)
	}
}
