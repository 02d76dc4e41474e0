package combat

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

// ActionResult describes the resolved outcome of one action.
//
// Success is false only for soft action failures (e.g. insufficient energy
// for a cast); admission errors never produce a result at all.
type ActionResult struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message,omitempty"`
	Damage       int                  `json:"damage,omitempty"`
	Healing      int                  `json:"healing,omitempty"`
	TargetHealth int                  `json:"targetHealth"`
	EnergyUsed   int                  `json:"energyUsed,omitempty"`
	BuffApplied  *entity.StatusEffect `json:"buffApplied,omitempty"`
}

// ActionRecord is one immutable combat log entry. Records are append-only
// and never mutated after insertion; the log is the authoritative combat
// history delivered to clients.
type ActionRecord struct {
	ActorID    string       `json:"actorId"`
	ActionKind string       `json:"actionKind"`
	TargetID   string       `json:"targetId"`
	Result     ActionResult `json:"result"`
	Timestamp  time.Time    `json:"timestamp"`
}
