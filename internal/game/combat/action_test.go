package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func TestActionKind_String(t *testing.T) {
	assert.Equal(t, "attack", combat.ActionAttack.String())
	assert.Equal(t, "defend", combat.ActionDefend.String())
	assert.Equal(t, "cast", combat.ActionCast.String())
	assert.Equal(t, "unknown", combat.ActionUnknown.String())
	assert.Equal(t, "unknown", combat.ActionKind(99).String())
}

func TestParseActionKind(t *testing.T) {
	assert.Equal(t, combat.ActionAttack, combat.ParseActionKind("attack"))
	assert.Equal(t, combat.ActionDefend, combat.ParseActionKind("defend"))
	assert.Equal(t, combat.ActionCast, combat.ParseActionKind("cast"))
	assert.Equal(t, combat.ActionUnknown, combat.ParseActionKind("dance"))
	assert.Equal(t, combat.ActionUnknown, combat.ParseActionKind(""))
}

func TestParseActionKind_RoundTripsKnownKinds(t *testing.T) {
	for _, k := range []combat.ActionKind{combat.ActionAttack, combat.ActionDefend, combat.ActionCast} {
		assert.Equal(t, k, combat.ParseActionKind(k.String()))
	}
}
