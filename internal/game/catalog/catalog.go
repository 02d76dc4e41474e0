// Package catalog holds the immutable table of action definitions: costs,
// targeting rules, and effect ranges. It is pure data consulted by the
// combat session; it never mutates combat state.
package catalog

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// TargetRule constrains who an action may legally be aimed at.
type TargetRule string

const (
	// TargetSelf restricts the action to the actor itself.
	TargetSelf TargetRule = "self"
	// TargetAlly permits living participants of the actor's own faction.
	TargetAlly TargetRule = "ally"
	// TargetEnemy permits living participants of the opposing faction.
	TargetEnemy TargetRule = "enemy"
	// TargetAny permits any living participant.
	TargetAny TargetRule = "any"
)

// Allows reports whether this rule permits an action aimed at the described
// target. targetAlive refers to the target having health > 0.
//
// Postcondition: TargetSelf returns true only when isSelf; all rules require
// targetAlive.
func (r TargetRule) Allows(isSelf, sameFaction, targetAlive bool) bool {
	if !targetAlive {
		return false
	}
	switch r {
	case TargetSelf:
		return isSelf
	case TargetAlly:
		return sameFaction
	case TargetEnemy:
		return !sameFaction
	case TargetAny:
		return true
	default:
		return false
	}
}

// Range is an inclusive [Min, Max] roll range.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Roll returns a uniformly random value within the range.
//
// Precondition: src must be non-nil.
// Postcondition: Min <= result <= Max.
func (r Range) Roll(src dice.Source) int {
	return dice.RollRange(src, r.Min, r.Max)
}

// EffectSpec describes a status effect granted by an action (e.g. the
// defend action's defense buff).
type EffectSpec struct {
	// Kind is the status effect kind, e.g. "defense".
	Kind string `yaml:"kind"`
	// Magnitude is the effect strength.
	Magnitude int `yaml:"magnitude"`
	// Duration is the effect lifetime in action ticks.
	Duration int `yaml:"duration"`
}

// Definition is one immutable action catalog entry.
type Definition struct {
	// ID uniquely identifies the action ("attack", "fireball", ...).
	ID string `yaml:"id"`
	// Kind is the dispatch category: "attack", "defend", or "cast".
	Kind string `yaml:"kind"`
	// Name is the display name.
	Name string `yaml:"name"`
	// Description is flavour text for clients.
	Description string `yaml:"description"`
	// EnergyCost is the energy spent when the action resolves.
	EnergyCost int `yaml:"energy_cost"`
	// Target is the targeting-legality rule.
	Target TargetRule `yaml:"target"`
	// BaseDamage is the damage roll range; nil for non-damaging actions.
	BaseDamage *Range `yaml:"base_damage,omitempty"`
	// Healing is the healing roll range; nil for non-healing actions.
	Healing *Range `yaml:"healing,omitempty"`
	// Effect is the status effect applied on resolution; nil for none.
	Effect *EffectSpec `yaml:"effect,omitempty"`
}

// Validate checks the definition's internal invariants.
//
// Postcondition: Returns nil iff the definition is well-formed.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("action id must not be empty")
	}
	switch d.Kind {
	case "attack", "defend", "cast":
	default:
		return fmt.Errorf("action %q: kind must be one of [attack, defend, cast], got %q", d.ID, d.Kind)
	}
	switch d.Target {
	case TargetSelf, TargetAlly, TargetEnemy, TargetAny:
	default:
		return fmt.Errorf("action %q: target must be one of [self, ally, enemy, any], got %q", d.ID, d.Target)
	}
	if d.EnergyCost < 0 {
		return fmt.Errorf("action %q: energy_cost must not be negative", d.ID)
	}
	for _, rng := range []*Range{d.BaseDamage, d.Healing} {
		if rng == nil {
			continue
		}
		if rng.Min < 0 || rng.Min > rng.Max {
			return fmt.Errorf("action %q: range must satisfy 0 <= min <= max, got [%d, %d]", d.ID, rng.Min, rng.Max)
		}
	}
	if d.Kind == "attack" && d.BaseDamage == nil {
		return fmt.Errorf("action %q: attack actions require base_damage", d.ID)
	}
	if d.Kind == "cast" && d.BaseDamage == nil && d.Healing == nil {
		return fmt.Errorf("action %q: cast actions require base_damage or healing", d.ID)
	}
	if d.Effect != nil && d.Effect.Duration < 1 {
		return fmt.Errorf("action %q: effect duration must be >= 1", d.ID)
	}
	return nil
}

// Catalog is an immutable, ordered collection of action definitions.
type Catalog struct {
	byID  map[string]*Definition
	order []string
}

// New builds a Catalog from defs, validating each entry.
//
// Precondition: defs must be non-empty.
// Postcondition: Returns a Catalog with the definitions in input order, or an
// error naming the first invalid or duplicate entry.
func New(defs []*Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("catalog requires at least one action definition")
	}
	c := &Catalog{byID: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate action id %q", d.ID)
		}
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return c, nil
}

// Get returns the definition with the given ID.
//
// Postcondition: Returns (def, true) if found, or (nil, false) otherwise.
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Actions returns the definitions in catalog order.
//
// Postcondition: Returns a non-nil slice; mutating it does not affect the catalog.
func (c *Catalog) Actions() []*Definition {
	out := make([]*Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Default returns the built-in base catalog: attack, defend, fireball, heal.
//
// Postcondition: Returns a non-nil valid Catalog.
func Default() *Catalog {
	c, err := New([]*Definition{
		{
			ID:          "attack",
			Kind:        "attack",
			Name:        "Attack",
			Description: "Basic attack that deals damage to a target",
			Target:      TargetEnemy,
			BaseDamage:  &Range{Min: 5, Max: 15},
		},
		{
			ID:          "defend",
			Kind:        "defend",
			Name:        "Defend",
			Description: "Take a defensive stance, reducing incoming damage",
			Target:      TargetSelf,
			Effect:      &EffectSpec{Kind: "defense", Magnitude: 5, Duration: 2},
		},
		{
			ID:          "fireball",
			Kind:        "cast",
			Name:        "Fireball",
			Description: "Cast a fireball that deals fire damage to a target",
			EnergyCost:  15,
			Target:      TargetEnemy,
			BaseDamage:  &Range{Min: 10, Max: 20},
		},
		{
			ID:          "heal",
			Kind:        "cast",
			Name:        "Heal",
			Description: "Cast a healing spell that restores health to a target",
			EnergyCost:  20,
			Target:      TargetAny,
			Healing:     &Range{Min: 10, Max: 20},
		},
	})
	if err != nil {
		panic("catalog: building default catalog: " + err.Error())
	}
	return c
}
