package npc

import (
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Policy decides the next action for one AI participant from a session
// snapshot. Implementations must not retain or mutate the snapshot.
type Policy interface {
	// ChooseAction returns the action actorID should take next, or
	// ok=false when no sensible action exists (e.g. no living opponents).
	ChooseAction(actorID string, snap combat.Snapshot) (combat.Action, bool)
}

// WeakestTargetPolicy attacks the living opposing participant with the
// lowest current health. Ties resolve to the earliest participant in
// snapshot order, which is fixed at session creation.
type WeakestTargetPolicy struct{}

// ChooseAction implements Policy.
//
// Postcondition: When ok is true the returned action is an attack against a
// living participant of the opposite faction.
func (WeakestTargetPolicy) ChooseAction(actorID string, snap combat.Snapshot) (combat.Action, bool) {
	var self *combat.ParticipantSnapshot
	for i := range snap.Participants {
		if snap.Participants[i].ID == actorID {
			self = &snap.Participants[i]
			break
		}
	}
	if self == nil {
		return combat.Action{}, false
	}

	var target *combat.ParticipantSnapshot
	for i := range snap.Participants {
		p := &snap.Participants[i]
		if p.Kind == self.Kind || p.Stats.Health <= 0 {
			continue
		}
		if target == nil || p.Stats.Health < target.Stats.Health {
			target = p
		}
	}
	if target == nil {
		return combat.Action{}, false
	}

	return combat.Action{Kind: combat.ActionAttack, TargetID: target.ID}, true
}
