package npc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

func snapshotParticipant(id, kind string, health int) combat.ParticipantSnapshot {
	return combat.ParticipantSnapshot{
		ID:          id,
		DisplayName: id,
		Kind:        kind,
		Stats:       entity.Stats{Health: health, MaxHealth: 100},
	}
}

func TestWeakestTargetPolicy_PicksLowestHealthOpponent(t *testing.T) {
	snap := combat.Snapshot{Participants: []combat.ParticipantSnapshot{
		snapshotParticipant("goblin", "ai", 60),
		snapshotParticipant("hero", "human", 80),
		snapshotParticipant("mage", "human", 35),
	}}

	action, ok := WeakestTargetPolicy{}.ChooseAction("goblin", snap)
	require.True(t, ok)
	assert.Equal(t, combat.ActionAttack, action.Kind)
	assert.Equal(t, "mage", action.TargetID)
}

func TestWeakestTargetPolicy_IgnoresDefeated(t *testing.T) {
	snap := combat.Snapshot{Participants: []combat.ParticipantSnapshot{
		snapshotParticipant("goblin", "ai", 60),
		snapshotParticipant("hero", "human", 80),
		snapshotParticipant("mage", "human", 0),
	}}

	action, ok := WeakestTargetPolicy{}.ChooseAction("goblin", snap)
	require.True(t, ok)
	assert.Equal(t, "hero", action.TargetID)
}

func TestWeakestTargetPolicy_TieResolvesToEarliest(t *testing.T) {
	snap := combat.Snapshot{Participants: []combat.ParticipantSnapshot{
		snapshotParticipant("hero", "human", 50),
		snapshotParticipant("mage", "human", 50),
		snapshotParticipant("goblin", "ai", 60),
	}}

	action, ok := WeakestTargetPolicy{}.ChooseAction("goblin", snap)
	require.True(t, ok)
	assert.Equal(t, "hero", action.TargetID)
}

func TestWeakestTargetPolicy_NoLivingOpponents(t *testing.T) {
	snap := combat.Snapshot{Participants: []combat.ParticipantSnapshot{
		snapshotParticipant("goblin", "ai", 60),
		snapshotParticipant("hero", "human", 0),
	}}

	_, ok := WeakestTargetPolicy{}.ChooseAction("goblin", snap)
	assert.False(t, ok)
}

func TestWeakestTargetPolicy_UnknownActor(t *testing.T) {
	snap := combat.Snapshot{Participants: []combat.ParticipantSnapshot{
		snapshotParticipant("hero", "human", 80),
	}}

	_, ok := WeakestTargetPolicy{}.ChooseAction("ghost", snap)
	assert.False(t, ok)
}

func TestWeakestTargetPolicy_WorksForHumanActors(t *testing.T) {
	snap := combat.Snapshot{Participants: []combat.ParticipantSnapshot{
		snapshotParticipant("hero", "human", 80),
		snapshotParticipant("goblin", "ai", 60),
		snapshotParticipant("imp", "ai", 20),
	}}

	action, ok := WeakestTargetPolicy{}.ChooseAction("hero", snap)
	require.True(t, ok)
	assert.Equal(t, "imp", action.TargetID)
}
