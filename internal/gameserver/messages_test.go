package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func TestCombatActionData_Action_Attack(t *testing.T) {
	data := CombatActionData{
		ActionType: "attack",
		TargetID:   "goblin",
		ActionData: &ActionParams{Damage: 12},
	}
	action, err := data.Action()
	require.NoError(t, err)
	assert.Equal(t, combat.ActionAttack, action.Kind)
	assert.Equal(t, "goblin", action.TargetID)
	assert.Equal(t, 12, action.Attack.Damage)
}

func TestCombatActionData_Action_Defend(t *testing.T) {
	data := CombatActionData{
		ActionType: "defend",
		ActionData: &ActionParams{Value: 8, Duration: 3},
	}
	action, err := data.Action()
	require.NoError(t, err)
	assert.Equal(t, combat.ActionDefend, action.Kind)
	assert.Equal(t, 8, action.Defend.Magnitude)
	assert.Equal(t, 3, action.Defend.Duration)
}

func TestCombatActionData_Action_Cast(t *testing.T) {
	data := CombatActionData{
		ActionType: "cast",
		TargetID:   "goblin",
		ActionData: &ActionParams{SpellID: "fireball", ManaCost: 15, Damage: 18},
	}
	action, err := data.Action()
	require.NoError(t, err)
	assert.Equal(t, combat.ActionCast, action.Kind)
	assert.Equal(t, "fireball", action.Cast.SpellID)
	assert.Equal(t, 15, action.Cast.ManaCost)
	assert.Equal(t, 18, action.Cast.Amount)
}

func TestCombatActionData_Action_CastHealingAmount(t *testing.T) {
	data := CombatActionData{
		ActionType: "cast",
		TargetID:   "ally",
		ActionData: &ActionParams{SpellID: "heal", ManaCost: 20, Healing: 14},
	}
	action, err := data.Action()
	require.NoError(t, err)
	assert.Equal(t, 14, action.Cast.Amount)
}

func TestCombatActionData_Action_NoParams(t *testing.T) {
	action, err := CombatActionData{ActionType: "attack", TargetID: "goblin"}.Action()
	require.NoError(t, err)
	assert.Zero(t, action.Attack.Damage)
}

func TestCombatActionData_Action_UnknownType(t *testing.T) {
	_, err := CombatActionData{ActionType: "dance"}.Action()
	require.Error(t, err)
	assert.ErrorIs(t, err, combat.ErrUnknownActionKind)
}
