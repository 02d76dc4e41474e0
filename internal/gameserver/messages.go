// Package gameserver wires the room and combat domain to the websocket
// boundary: the message protocol, the combat orchestration service, and the
// gateway that carries both.
package gameserver

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/entity"
	"github.com/cory-johannsen/skirmish/internal/game/room"
)

// Server-to-client event names.
const (
	EventPlayerJoined  = "playerJoined"
	EventPlayerLeft    = "playerLeft"
	EventCombatStarted = "combatStarted"
	EventCombatUpdate  = "combatUpdate"
	EventCombatEnded   = "combatEnded"
	EventCombatError   = "combatError"
)

// Client-to-server message types.
const (
	MessageJoin           = "join"
	MessageLeave          = "leave"
	MessageInitiateCombat = "initiateCombat"
	MessageCombatAction   = "combatAction"
)

// ClientMessage is the envelope for every client-to-server message.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage is the envelope for every server-to-client event.
type ServerMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// JoinData is the payload of a "join" message.
type JoinData struct {
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
	// Stats optionally overrides the default stat block.
	Stats *entity.Stats `json:"stats,omitempty"`
}

// TargetSpec names one opponent for a new encounter. Player members of the
// room always participate; NPC specs cause a spawn.
type TargetSpec struct {
	// Type is "player" or "npc".
	Type string `json:"type"`
	// ID identifies a player target; ignored for NPCs.
	ID string `json:"id,omitempty"`
	// Template names a registered NPC template; empty uses the default.
	Template string `json:"template,omitempty"`
	// Name optionally overrides the spawned NPC's display name.
	Name string `json:"name,omitempty"`
	// Stats optionally overrides the spawned NPC's stat block.
	Stats *entity.Stats `json:"stats,omitempty"`
}

// InitiateCombatData is the payload of an "initiateCombat" message.
type InitiateCombatData struct {
	Targets []TargetSpec `json:"targets"`
}

// ActionParams carries the optional tuning fields of a combat action.
type ActionParams struct {
	Damage   int    `json:"damage,omitempty"`
	Value    int    `json:"value,omitempty"`
	Duration int    `json:"duration,omitempty"`
	SpellID  string `json:"spellId,omitempty"`
	ManaCost int    `json:"manaCost,omitempty"`
	Healing  int    `json:"healing,omitempty"`
}

// CombatActionData is the payload of a "combatAction" message.
type CombatActionData struct {
	ActionType string        `json:"actionType"`
	TargetID   string        `json:"targetId"`
	ActionData *ActionParams `json:"actionData,omitempty"`
}

// Action maps the wire payload onto the typed combat action.
//
// Postcondition: Returns combat.ErrUnknownActionKind (wrapped) for action
// types outside attack/defend/cast.
func (d CombatActionData) Action() (combat.Action, error) {
	kind := combat.ParseActionKind(d.ActionType)
	if kind == combat.ActionUnknown {
		return combat.Action{}, fmt.Errorf("%w: %q", combat.ErrUnknownActionKind, d.ActionType)
	}

	action := combat.Action{Kind: kind, TargetID: d.TargetID}
	params := d.ActionData
	if params == nil {
		return action, nil
	}

	switch kind {
	case combat.ActionAttack:
		action.Attack = combat.AttackParams{Damage: params.Damage}
	case combat.ActionDefend:
		action.Defend = combat.DefendParams{Magnitude: params.Value, Duration: params.Duration}
	case combat.ActionCast:
		amount := params.Damage
		if params.Healing > 0 {
			amount = params.Healing
		}
		action.Cast = combat.CastParams{SpellID: params.SpellID, ManaCost: params.ManaCost, Amount: amount}
	}
	return action, nil
}

// PlayerJoinedPayload is broadcast when a member joins a room.
type PlayerJoinedPayload struct {
	Player  room.Member   `json:"player"`
	Members []room.Member `json:"members"`
}

// PlayerLeftPayload is broadcast when a member leaves a room.
type PlayerLeftPayload struct {
	PlayerID string        `json:"playerId"`
	Members  []room.Member `json:"members"`
}

// CombatStartedPayload is broadcast when an encounter begins.
type CombatStartedPayload struct {
	Combat combat.Snapshot `json:"combat"`
}

// CombatUpdatePayload is broadcast after every resolved action.
type CombatUpdatePayload struct {
	Record combat.ActionRecord `json:"record"`
	Combat combat.Snapshot     `json:"combat"`
}

// CombatEndedPayload is broadcast exactly once when an encounter completes.
type CombatEndedPayload struct {
	Combat combat.Snapshot `json:"combat"`
	Winner string          `json:"winner"`
}

// CombatErrorPayload is sent to a single member on a rejected request.
type CombatErrorPayload struct {
	Message string `json:"message"`
}
