package combat

import (
	"errors"

	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

// Admission errors. Each is reported synchronously to the requesting actor
// only; the session mutates nothing and stays active.
var (
	// ErrSessionNotActive is returned when an action targets a completed session.
	ErrSessionNotActive = errors.New("combat session is not active")
	// ErrActorNotFound is returned when the acting participant is not in the session.
	ErrActorNotFound = errors.New("actor not found in combat session")
	// ErrTargetNotFound is returned when the target participant is not in the session.
	ErrTargetNotFound = errors.New("target not found in combat session")
	// ErrTargetDefeated is returned when the target has no health remaining.
	ErrTargetDefeated = errors.New("target is already defeated")
	// ErrIllegalTarget is returned when the action's targeting rule forbids
	// the resolved target.
	ErrIllegalTarget = errors.New("illegal target for action")
	// ErrUnknownActionKind is returned for an unrecognised action kind.
	ErrUnknownActionKind = errors.New("unknown action kind")
	// ErrNoActionPointAvailable is returned when every action point slot of
	// the actor is still recharging.
	ErrNoActionPointAvailable = entity.ErrNoActionPointAvailable
)

// IsAdmissionError reports whether err belongs to the admission taxonomy:
// a synchronous rejection that mutated no session state.
func IsAdmissionError(err error) bool {
	for _, sentinel := range []error{
		ErrSessionNotActive,
		ErrActorNotFound,
		ErrTargetNotFound,
		ErrTargetDefeated,
		ErrIllegalTarget,
		ErrUnknownActionKind,
		ErrNoActionPointAvailable,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
