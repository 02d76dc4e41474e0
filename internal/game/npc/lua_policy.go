package npc

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// LuaPolicy evaluates a sandboxed Lua script to choose NPC actions. The
// script must define a global function:
//
//	function choose(state) ... end
//
// where state carries the acting NPC under state.self and the full
// participant list under state.participants. choose returns a table with a
// "kind" field ("attack", "defend", or "cast") plus optional "target_id"
// and "spell_id" fields, or nil to skip the tick.
//
// Any script error, instruction-limit overrun, or malformed return value
// falls back to the wrapped policy, so a broken script degrades to default
// behavior instead of stalling the NPC.
type LuaPolicy struct {
	script    string
	instLimit int
	fallback  Policy
}

// NewLuaPolicy builds a policy from Lua source. The script is compiled once
// per evaluation inside a fresh sandboxed VM, so state never leaks between
// ticks.
//
// Precondition: script must be non-empty; fallback must be non-nil.
func NewLuaPolicy(script string, instLimit int, fallback Policy) (*LuaPolicy, error) {
	if script == "" {
		return nil, fmt.Errorf("npc.NewLuaPolicy: script must not be empty")
	}
	if fallback == nil {
		return nil, fmt.Errorf("npc.NewLuaPolicy: fallback must not be nil")
	}

	// Reject scripts that do not even compile, before any NPC ever ticks.
	probe := newSandboxedState(instLimit)
	defer probe.Close()
	if _, err := probe.LoadString(script); err != nil {
		return nil, fmt.Errorf("compiling policy script: %w", err)
	}

	return &LuaPolicy{script: script, instLimit: instLimit, fallback: fallback}, nil
}

// LoadLuaPolicy reads Lua source from path and builds a policy from it.
func LoadLuaPolicy(path string, instLimit int, fallback Policy) (*LuaPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy script %q: %w", path, err)
	}
	return NewLuaPolicy(string(data), instLimit, fallback)
}

// ChooseAction implements Policy.
func (lp *LuaPolicy) ChooseAction(actorID string, snap combat.Snapshot) (combat.Action, bool) {
	action, ok, err := lp.evaluate(actorID, snap)
	if err != nil {
		return lp.fallback.ChooseAction(actorID, snap)
	}
	return action, ok
}

// evaluate runs one scripted decision in a fresh sandboxed VM.
func (lp *LuaPolicy) evaluate(actorID string, snap combat.Snapshot) (combat.Action, bool, error) {
	L := newSandboxedState(lp.instLimit)
	defer L.Close()

	if err := L.DoString(lp.script); err != nil {
		return combat.Action{}, false, fmt.Errorf("loading policy script: %w", err)
	}

	choose := L.GetGlobal("choose")
	if choose.Type() != lua.LTFunction {
		return combat.Action{}, false, fmt.Errorf("policy script does not define choose()")
	}

	state, err := buildStateTable(L, actorID, snap)
	if err != nil {
		return combat.Action{}, false, err
	}

	if err := L.CallByParam(lua.P{Fn: choose, NRet: 1, Protect: true}, state); err != nil {
		return combat.Action{}, false, fmt.Errorf("calling choose(): %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	if ret == lua.LNil {
		return combat.Action{}, false, nil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return combat.Action{}, false, fmt.Errorf("choose() returned %s, want table or nil", ret.Type())
	}

	kind := combat.ParseActionKind(lua.LVAsString(tbl.RawGetString("kind")))
	if kind == combat.ActionUnknown {
		return combat.Action{}, false, fmt.Errorf("choose() returned unknown action kind")
	}
	action := combat.Action{
		Kind:     kind,
		TargetID: lua.LVAsString(tbl.RawGetString("target_id")),
	}
	if kind == combat.ActionCast {
		action.Cast.SpellID = lua.LVAsString(tbl.RawGetString("spell_id"))
	}
	return action, true, nil
}

// buildStateTable marshals the snapshot into the Lua table passed to choose().
func buildStateTable(L *lua.LState, actorID string, snap combat.Snapshot) (*lua.LTable, error) {
	state := L.NewTable()

	participants := L.NewTable()
	var self *lua.LTable
	for _, p := range snap.Participants {
		entry := L.NewTable()
		entry.RawSetString("id", lua.LString(p.ID))
		entry.RawSetString("name", lua.LString(p.DisplayName))
		entry.RawSetString("kind", lua.LString(p.Kind))
		entry.RawSetString("health", lua.LNumber(p.Stats.Health))
		entry.RawSetString("max_health", lua.LNumber(p.Stats.MaxHealth))
		entry.RawSetString("energy", lua.LNumber(p.Stats.Energy))
		entry.RawSetString("max_energy", lua.LNumber(p.Stats.MaxEnergy))
		entry.RawSetString("alive", lua.LBool(p.Stats.Health > 0))
		participants.Append(entry)
		if p.ID == actorID {
			self = entry
		}
	}
	if self == nil {
		return nil, fmt.Errorf("actor %q not in snapshot", actorID)
	}

	state.RawSetString("self", self)
	state.RawSetString("participants", participants)
	return state, nil
}
