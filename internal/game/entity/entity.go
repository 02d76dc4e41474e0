// Package entity implements the mutable combat participant model: stats,
// status effects, and the per-actor action point clock. All mutation
// operations are pure with respect to everything except the receiver.
package entity

import "errors"

// ErrInsufficientEnergy is returned when an energy spend exceeds the
// participant's current energy.
var ErrInsufficientEnergy = errors.New("insufficient energy")

// Kind distinguishes human-controlled participants from AI-controlled ones.
type Kind int

const (
	KindHuman Kind = iota
	KindAI
)

// String returns "human" or "ai".
func (k Kind) String() string {
	if k == KindAI {
		return "ai"
	}
	return "human"
}

// EffectKind identifies a status effect's behaviour.
type EffectKind string

const (
	// EffectDefense reduces incoming damage by the effect's magnitude.
	EffectDefense EffectKind = "defense"
	// EffectDamageOverTime deals the effect's magnitude as damage each
	// action tick.
	EffectDamageOverTime EffectKind = "dot"
)

// StatusEffect is one active buff or debuff on a participant.
//
// Invariant: Remaining >= 1 while the effect is present; an effect with
// Remaining 1 is consumed this tick and then removed.
type StatusEffect struct {
	Kind      EffectKind `json:"kind"`
	Magnitude int        `json:"magnitude"`
	Remaining int        `json:"remaining"`
}

// Stats holds a participant's numeric combat attributes.
//
// Invariant: 0 <= Health <= MaxHealth; 0 <= Energy <= MaxEnergy.
type Stats struct {
	Health    int `json:"health" yaml:"health"`
	MaxHealth int `json:"maxHealth" yaml:"max_health"`
	Energy    int `json:"energy" yaml:"energy"`
	MaxEnergy int `json:"maxEnergy" yaml:"max_energy"`
	Strength  int `json:"strength" yaml:"strength"`
	Defense   int `json:"defense" yaml:"defense"`
	Speed     int `json:"speed" yaml:"speed"`
}

// DefaultStats returns the baseline stat block given to participants that
// join without explicit stats.
func DefaultStats() Stats {
	return Stats{
		Health:    100,
		MaxHealth: 100,
		Energy:    50,
		MaxEnergy: 50,
		Strength:  10,
		Defense:   5,
		Speed:     10,
	}
}

// Participant is one combatant in a session. It is owned exclusively by the
// combat session for the lifetime of the encounter; no other component
// mutates it directly.
type Participant struct {
	// ID is the stable participant identifier; for humans it maps 1:1 to
	// the network identity.
	ID string
	// DisplayName is the name shown to clients.
	DisplayName string
	// Kind is the faction grouping: human or ai.
	Kind Kind
	// Stats is the mutable attribute block.
	Stats Stats
	// Buffs is the ordered list of active beneficial effects.
	Buffs []StatusEffect
	// Debuffs is the ordered list of active harmful effects.
	Debuffs []StatusEffect
	// Clock is the action point gate controlling how often this
	// participant may act.
	Clock *ActionPointClock
}

// IsAlive reports whether the participant has health remaining.
//
// Postcondition: Returns true iff Stats.Health > 0.
func (p *Participant) IsAlive() bool { return p.Stats.Health > 0 }

// DamageResult describes the outcome of one ApplyDamage call.
type DamageResult struct {
	// Dealt is the effective damage after defense and buffs.
	Dealt int `json:"damage"`
	// Health is the participant's health after the damage.
	Health int `json:"currentHealth"`
	// Defeated is true when the damage reduced health to zero.
	Defeated bool `json:"isDefeated"`
}

// ApplyDamage applies raw damage reduced by defense and any active defense
// buff. Effective damage never drops below 1, and health never drops below 0.
//
// Precondition: raw must be >= 0.
// Postcondition: 0 <= Stats.Health <= Stats.MaxHealth; result.Dealt >= 1.
func (p *Participant) ApplyDamage(raw int) DamageResult {
	dealt := raw - p.Stats.Defense*3/10 // floor(defense * 0.3)
	if dealt < 1 {
		dealt = 1
	}
	if m := p.defenseBuffMagnitude(); m > 0 {
		dealt -= m
		if dealt < 1 {
			dealt = 1
		}
	}

	p.Stats.Health -= dealt
	if p.Stats.Health < 0 {
		p.Stats.Health = 0
	}

	return DamageResult{
		Dealt:    dealt,
		Health:   p.Stats.Health,
		Defeated: p.Stats.Health == 0,
	}
}

// defenseBuffMagnitude returns the magnitude of the first active defense
// buff, or 0 if none is present.
func (p *Participant) defenseBuffMagnitude() int {
	for _, b := range p.Buffs {
		if b.Kind == EffectDefense {
			return b.Magnitude
		}
	}
	return 0
}

// HealResult describes the outcome of one ApplyHealing call.
type HealResult struct {
	// Healed is the health actually restored, capped at MaxHealth.
	Healed int `json:"healing"`
	// Health is the participant's health after healing.
	Health int `json:"currentHealth"`
}

// ApplyHealing restores up to raw health, capped at MaxHealth.
//
// Precondition: raw must be >= 0.
// Postcondition: Stats.Health <= Stats.MaxHealth; result.Healed <= raw.
func (p *Participant) ApplyHealing(raw int) HealResult {
	healed := raw
	if room := p.Stats.MaxHealth - p.Stats.Health; healed > room {
		healed = room
	}
	p.Stats.Health += healed
	return HealResult{Healed: healed, Health: p.Stats.Health}
}

// SpendEnergy deducts amount from the participant's energy.
//
// Precondition: amount must be >= 0.
// Postcondition: On success energy is reduced by amount; on
// ErrInsufficientEnergy the participant is unchanged.
func (p *Participant) SpendEnergy(amount int) error {
	if p.Stats.Energy < amount {
		return ErrInsufficientEnergy
	}
	p.Stats.Energy -= amount
	return nil
}

// RecoverEnergy restores up to amount energy, capped at MaxEnergy.
//
// Precondition: amount must be >= 0.
// Postcondition: Returns the energy actually recovered; Stats.Energy <= Stats.MaxEnergy.
func (p *Participant) RecoverEnergy(amount int) int {
	recovered := amount
	if room := p.Stats.MaxEnergy - p.Stats.Energy; recovered > room {
		recovered = room
	}
	p.Stats.Energy += recovered
	return recovered
}

// AddBuff appends a beneficial status effect.
//
// Precondition: e.Remaining must be >= 1.
func (p *Participant) AddBuff(e StatusEffect) {
	p.Buffs = append(p.Buffs, e)
}

// AddDebuff appends a harmful status effect.
//
// Precondition: e.Remaining must be >= 1.
func (p *Participant) AddDebuff(e StatusEffect) {
	p.Debuffs = append(p.Debuffs, e)
}

// TickResult describes the outcome of one TickStatusEffects call.
type TickResult struct {
	// EffectDamage is the raw damage-over-time total accumulated this tick,
	// before defense reduction.
	EffectDamage int `json:"damageFromEffects"`
	// Health is the participant's health after effect damage.
	Health int `json:"currentHealth"`
	// Buffs is the surviving buff list.
	Buffs []StatusEffect `json:"currentBuffs"`
	// Debuffs is the surviving debuff list.
	Debuffs []StatusEffect `json:"currentDebuffs"`
}

// TickStatusEffects advances all status effects by one action tick. The
// damage-over-time total is computed from the pre-decrement debuff list, so
// a debuff with Remaining 1 deals its final tick before expiring. Effects
// reaching 0 remaining are removed; accumulated damage is then applied via
// ApplyDamage.
//
// Postcondition: Every surviving effect has Remaining >= 1.
func (p *Participant) TickStatusEffects() TickResult {
	total := 0
	for _, d := range p.Debuffs {
		if d.Kind == EffectDamageOverTime {
			total += d.Magnitude
		}
	}

	p.Buffs = decrementEffects(p.Buffs)
	p.Debuffs = decrementEffects(p.Debuffs)

	if total > 0 {
		p.ApplyDamage(total)
	}

	return TickResult{
		EffectDamage: total,
		Health:       p.Stats.Health,
		Buffs:        append([]StatusEffect(nil), p.Buffs...),
		Debuffs:      append([]StatusEffect(nil), p.Debuffs...),
	}
}

// decrementEffects reduces each effect's remaining duration by one and drops
// effects that reach zero.
func decrementEffects(effects []StatusEffect) []StatusEffect {
	out := effects[:0]
	for _, e := range effects {
		if e.Remaining <= 1 {
			continue
		}
		e.Remaining--
		out = append(out, e)
	}
	return out
}
