package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geocards/geocards-api/internal/pkg/idgen"
)

func TestSequential(t *testing.T) {
	g := idgen.NewSequential("card")
	assert.Equal(t, "card_1", g.Generate())
	assert.Equal(t, "card_2", g.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUID(t *testing.T) {
	g := idgen.NewUUID("battle")
	a, b := g.Generate(), g.Generate()

	assert.True(t, strings.HasPrefix(a, "battle_"))
	assert.NotEqual(t, a, b)
	assert.Len(t, idgen.NewUUID("").Generate(), 36)
}
