package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/geo"
)

type GeoTestSuite struct {
	suite.Suite
}

func TestGeoSuite(t *testing.T) {
	suite.Run(t, new(GeoTestSuite))
}

func card(id string, lat, lng float64) *entities.Card {
	return &entities.Card{ID: id, Location: entities.Coordinate{Lat: lat, Lng: lng}}
}

func (s *GeoTestSuite) TestDistanceMeters() {
	testCases := []struct {
		name     string
		a, b     entities.Coordinate
		expected float64
		delta    float64
	}{
		{
			name:     "same point",
			a:        entities.Coordinate{Lat: 55.7558, Lng: 37.6173},
			b:        entities.Coordinate{Lat: 55.7558, Lng: 37.6173},
			expected: 0,
			delta:    1e-9,
		},
		{
			name:     "one degree diagonal at the equator",
			a:        entities.Coordinate{Lat: 0, Lng: 0},
			b:        entities.Coordinate{Lat: 1, Lng: 1},
			expected: 157_249,
			delta:    5,
		},
		{
			name:     "one degree of longitude at the equator",
			a:        entities.Coordinate{Lat: 0, Lng: 0},
			b:        entities.Coordinate{Lat: 0, Lng: 1},
			expected: 111_195,
			delta:    1,
		},
		{
			name:     "antipodes",
			a:        entities.Coordinate{Lat: 0, Lng: 0},
			b:        entities.Coordinate{Lat: 0, Lng: 180},
			expected: math.Pi * geo.EarthRadiusMeters,
			delta:    1e-6,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.InDelta(tc.expected, geo.DistanceMeters(tc.a, tc.b), tc.delta)
		})
	}
}

func (s *GeoTestSuite) TestDistanceMeters_NaNPropagates() {
	d := geo.DistanceMeters(entities.Coordinate{Lat: math.NaN()}, entities.Coordinate{})
	s.True(math.IsNaN(d))
}

func (s *GeoTestSuite) TestWithinRadius_OriginExample() {
	near := card("near", 0, 0)
	far := card("far", 1, 1)

	got := geo.WithinRadius(entities.Coordinate{}, 100, []*entities.Card{near, far})

	s.Equal([]*entities.Card{near}, got)
}

func (s *GeoTestSuite) TestWithinRadius_KeepsInputOrder() {
	center := entities.Coordinate{Lat: 55.7558, Lng: 37.6173}
	items := []*entities.Card{
		card("c", 55.7559, 37.6173),
		card("x", 55.80, 37.6173),
		card("a", 55.7558, 37.6174),
	}

	got := geo.WithinRadius(center, 100, items)

	s.Require().Len(got, 2)
	s.Equal("c", got[0].ID)
	s.Equal("a", got[1].ID)
}

func (s *GeoTestSuite) TestWithinRadius_NaNNeverMatches() {
	got := geo.WithinRadius(entities.Coordinate{}, math.Inf(1), []*entities.Card{card("bad", math.NaN(), 0)})
	s.Empty(got)
}

func coordinate(t *rapid.T, label string) entities.Coordinate {
	return entities.Coordinate{
		Lat: rapid.Float64Range(-90, 90).Draw(t, label+"_lat"),
		Lng: rapid.Float64Range(-180, 180).Draw(t, label+"_lng"),
	}
}

func TestDistanceMeters_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := coordinate(t, "a")
		b := coordinate(t, "b")

		assert.Zero(t, geo.DistanceMeters(a, a))
		assert.InDelta(t, geo.DistanceMeters(a, b), geo.DistanceMeters(b, a), 1e-6)
		assert.GreaterOrEqual(t, geo.DistanceMeters(a, b), 0.0)
		assert.LessOrEqual(t, geo.DistanceMeters(a, b), math.Pi*geo.EarthRadiusMeters+1e-6)
	})
}

func TestWithinRadius_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		center := coordinate(t, "center")
		radius := rapid.Float64Range(0, 50_000).Draw(t, "radius")
		n := rapid.IntRange(0, 20).Draw(t, "n")

		items := make([]*entities.Card, n)
		for i := range items {
			items[i] = &entities.Card{ID: string(rune('a' + i)), Location: entities.Coordinate{
				Lat: center.Lat + rapid.Float64Range(-0.5, 0.5).Draw(t, "dlat"),
				Lng: center.Lng + rapid.Float64Range(-0.5, 0.5).Draw(t, "dlng"),
			}}
		}

		got := geo.WithinRadius(center, radius, items)

		kept := make(map[string]bool, len(got))
		for _, c := range got {
			kept[c.ID] = true
		}
		for _, c := range items {
			inside := geo.DistanceMeters(center, c.Location) <= radius
			if inside != kept[c.ID] {
				t.Fatalf("card %s: inside=%v kept=%v", c.ID, inside, kept[c.ID])
			}
		}
	})
}
