package combat

// ActionKind identifies what a participant intends to do.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota // zero value; intentionally invalid
	ActionAttack
	ActionDefend
	ActionCast
)

// String returns the wire name of the ActionKind.
//
// Postcondition: returns "attack", "defend", "cast", or "unknown".
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionCast:
		return "cast"
	default:
		return "unknown"
	}
}

// ParseActionKind maps a wire name to an ActionKind.
//
// Postcondition: returns ActionUnknown for any unrecognised name.
func ParseActionKind(s string) ActionKind {
	switch s {
	case "attack":
		return ActionAttack
	case "defend":
		return ActionDefend
	case "cast":
		return ActionCast
	default:
		return ActionUnknown
	}
}

// AttackParams carries the attack variant's payload.
type AttackParams struct {
	// Damage overrides the catalog damage roll when > 0.
	Damage int
}

// DefendParams carries the defend variant's payload.
type DefendParams struct {
	// Magnitude overrides the defense buff strength when > 0.
	Magnitude int
	// Duration overrides the defense buff duration when > 0.
	Duration int
}

// CastParams carries the cast variant's payload.
type CastParams struct {
	// SpellID selects the spell; empty falls back to the default damage spell.
	SpellID string
	// ManaCost overrides the catalog energy cost when > 0.
	ManaCost int
	// Amount overrides the damage or healing roll when > 0.
	Amount int
}

// Action is the closed tagged variant a participant submits: exactly one of
// the per-kind payloads is meaningful, selected by Kind.
type Action struct {
	Kind     ActionKind
	TargetID string
	Attack   AttackParams
	Defend   DefendParams
	Cast     CastParams
}
