package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

func TestCryptoSource_Intn(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := src.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestRollRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := dice.RollRange(src, 5, 15)
		assert.GreaterOrEqual(t, v, 5)
		assert.LessOrEqual(t, v, 15)
	}
}

func TestRollRange_DegenerateRange(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Equal(t, 7, dice.RollRange(src, 7, 7))
}

func TestRollRange_Property_WithinBounds(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		min := rapid.IntRange(0, 100).Draw(rt, "min")
		max := rapid.IntRange(0, 100).Draw(rt, "max")
		v := dice.RollRange(src, min, max)
		lo, hi := min, max
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}
