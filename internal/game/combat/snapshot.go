package combat

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

// ActionPointSnapshot is the client-facing view of one participant's action
// point gate.
type ActionPointSnapshot struct {
	// Capacity is the total slot count.
	Capacity int `json:"capacity"`
	// Available lists the indices of currently usable slots.
	Available []int `json:"available"`
	// Progress is each slot's recharge fraction in [0, 1].
	Progress []float64 `json:"progress"`
}

// ParticipantSnapshot is an immutable copy of one participant's state.
type ParticipantSnapshot struct {
	ID           string                `json:"id"`
	DisplayName  string                `json:"displayName"`
	Kind         string                `json:"kind"`
	Stats        entity.Stats          `json:"stats"`
	Buffs        []entity.StatusEffect `json:"buffs"`
	Debuffs      []entity.StatusEffect `json:"debuffs"`
	ActionPoints ActionPointSnapshot   `json:"actionPoints"`
}

// Snapshot is the authoritative session view broadcast to clients. It shares
// no memory with the live session.
type Snapshot struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Participants []ParticipantSnapshot `json:"participants"`
	Log          []ActionRecord        `json:"log"`
	StartedAt    time.Time             `json:"startedAt"`
	EndedAt      *time.Time            `json:"endedAt,omitempty"`
	Winner       string                `json:"winner,omitempty"`
}

// Snapshot returns a deep copy of the current session state.
//
// Postcondition: Mutating the returned value does not affect the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.now())
}

func (s *Session) snapshotLocked(now time.Time) Snapshot {
	snap := Snapshot{
		ID:           s.id,
		Status:       s.status.String(),
		Participants: make([]ParticipantSnapshot, 0, len(s.participants)),
		Log:          append([]ActionRecord(nil), s.log...),
		StartedAt:    s.startedAt,
		Winner:       string(s.winner),
	}
	if !s.endedAt.IsZero() {
		ended := s.endedAt
		snap.EndedAt = &ended
	}
	for _, p := range s.participants {
		snap.Participants = append(snap.Participants, ParticipantSnapshot{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Kind:        p.Kind.String(),
			Stats:       p.Stats,
			Buffs:       append([]entity.StatusEffect(nil), p.Buffs...),
			Debuffs:     append([]entity.StatusEffect(nil), p.Debuffs...),
			ActionPoints: ActionPointSnapshot{
				Capacity:  p.Clock.Capacity(),
				Available: p.Clock.AvailableSlots(now),
				Progress:  p.Clock.RechargeProgress(now),
			},
		})
	}
	return snap
}
