package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

func newParticipant(stats entity.Stats) *entity.Participant {
	return &entity.Participant{
		ID:          "p1",
		DisplayName: "Alice",
		Kind:        entity.KindHuman,
		Stats:       stats,
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "human", entity.KindHuman.String())
	assert.Equal(t, "ai", entity.KindAI.String())
}

func TestParticipant_ApplyDamage_DefenseReduction(t *testing.T) {
	// defense 5 → floor(5*0.3) = 1 absorbed
	p := newParticipant(entity.Stats{Health: 100, MaxHealth: 100, Defense: 5})
	r := p.ApplyDamage(10)
	assert.Equal(t, 9, r.Dealt)
	assert.Equal(t, 91, r.Health)
	assert.False(t, r.Defeated)
}

func TestParticipant_ApplyDamage_NeverBelowOne(t *testing.T) {
	p := newParticipant(entity.Stats{Health: 100, MaxHealth: 100, Defense: 1000})
	p.AddBuff(entity.StatusEffect{Kind: entity.EffectDefense, Magnitude: 500, Remaining: 2})
	r := p.ApplyDamage(3)
	assert.Equal(t, 1, r.Dealt)
	assert.Equal(t, 99, r.Health)
}

func TestParticipant_ApplyDamage_DefenseBuff(t *testing.T) {
	// defense 10 → 3 absorbed; buff absorbs a further 5
	p := newParticipant(entity.Stats{Health: 50, MaxHealth: 50, Defense: 10})
	p.AddBuff(entity.StatusEffect{Kind: entity.EffectDefense, Magnitude: 5, Remaining: 2})
	r := p.ApplyDamage(20)
	assert.Equal(t, 12, r.Dealt)
	assert.Equal(t, 38, r.Health)
}

func TestParticipant_ApplyDamage_FloorsAtZeroHealth(t *testing.T) {
	p := newParticipant(entity.Stats{Health: 5, MaxHealth: 100})
	r := p.ApplyDamage(50)
	assert.Equal(t, 0, r.Health)
	assert.True(t, r.Defeated)
	assert.False(t, p.IsAlive())
}

func TestParticipant_ApplyDamage_Property_HealthClamped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxHealth := rapid.IntRange(1, 500).Draw(rt, "max_health")
		defense := rapid.IntRange(0, 100).Draw(rt, "defense")
		raw := rapid.IntRange(0, 1000).Draw(rt, "raw")
		p := newParticipant(entity.Stats{Health: maxHealth, MaxHealth: maxHealth, Defense: defense})
		r := p.ApplyDamage(raw)
		assert.GreaterOrEqual(rt, r.Dealt, 1)
		assert.GreaterOrEqual(rt, p.Stats.Health, 0)
		assert.LessOrEqual(rt, p.Stats.Health, maxHealth)
	})
}

func TestParticipant_ApplyHealing_CappedAtMax(t *testing.T) {
	p := newParticipant(entity.Stats{Health: 90, MaxHealth: 100})
	r := p.ApplyHealing(25)
	assert.Equal(t, 10, r.Healed)
	assert.Equal(t, 100, r.Health)

	r = p.ApplyHealing(5)
	assert.Equal(t, 0, r.Healed)
	assert.Equal(t, 100, r.Health)
}

func TestParticipant_SpendEnergy(t *testing.T) {
	p := newParticipant(entity.Stats{Health: 100, MaxHealth: 100, Energy: 10, MaxEnergy: 50})

	err := p.SpendEnergy(20)
	require.ErrorIs(t, err, entity.ErrInsufficientEnergy)
	assert.Equal(t, 10, p.Stats.Energy) // unchanged on failure

	require.NoError(t, p.SpendEnergy(10))
	assert.Equal(t, 0, p.Stats.Energy)
}

func TestParticipant_RecoverEnergy_CappedAtMax(t *testing.T) {
	p := newParticipant(entity.Stats{Energy: 45, MaxEnergy: 50})
	assert.Equal(t, 5, p.RecoverEnergy(20))
	assert.Equal(t, 50, p.Stats.Energy)
}

func TestParticipant_TickStatusEffects_DurationOneFiresThenExpires(t *testing.T) {
	p := newParticipant(entity.Stats{Health: 100, MaxHealth: 100})
	p.AddDebuff(entity.StatusEffect{Kind: entity.EffectDamageOverTime, Magnitude: 6, Remaining: 1})

	r := p.TickStatusEffects()
	assert.Equal(t, 6, r.EffectDamage) // final tick still dealt
	assert.Equal(t, 94, r.Health)
	assert.Empty(t, r.Debuffs)

	r = p.TickStatusEffects()
	assert.Equal(t, 0, r.EffectDamage)
	assert.Equal(t, 94, r.Health)
}

func TestParticipant_TickStatusEffects_DecrementsDurations(t *testing.T) {
	p := newParticipant(entity.Stats{Health: 100, MaxHealth: 100})
	p.AddBuff(entity.StatusEffect{Kind: entity.EffectDefense, Magnitude: 5, Remaining: 2})
	p.AddDebuff(entity.StatusEffect{Kind: entity.EffectDamageOverTime, Magnitude: 3, Remaining: 3})

	r := p.TickStatusEffects()
	require.Len(t, r.Buffs, 1)
	assert.Equal(t, 1, r.Buffs[0].Remaining)
	require.Len(t, r.Debuffs, 1)
	assert.Equal(t, 2, r.Debuffs[0].Remaining)

	r = p.TickStatusEffects()
	assert.Empty(t, r.Buffs)
	require.Len(t, r.Debuffs, 1)
	assert.Equal(t, 1, r.Debuffs[0].Remaining)
}

func TestParticipant_TickStatusEffects_DOTAppliesDefense(t *testing.T) {
	// Effect damage is routed through ApplyDamage, so defense reduces it.
	p := newParticipant(entity.Stats{Health: 100, MaxHealth: 100, Defense: 10})
	p.AddDebuff(entity.StatusEffect{Kind: entity.EffectDamageOverTime, Magnitude: 8, Remaining: 2})

	r := p.TickStatusEffects()
	assert.Equal(t, 8, r.EffectDamage)    // raw accumulated total
	assert.Equal(t, 95, p.Stats.Health)   // 8 - floor(10*0.3) = 5 dealt
}

func TestParticipant_TickStatusEffects_Property_SurvivorsHavePositiveRemaining(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := newParticipant(entity.Stats{Health: 1000, MaxHealth: 1000})
		n := rapid.IntRange(0, 8).Draw(rt, "debuffs")
		for i := 0; i < n; i++ {
			p.AddDebuff(entity.StatusEffect{
				Kind:      entity.EffectDamageOverTime,
				Magnitude: rapid.IntRange(1, 10).Draw(rt, "magnitude"),
				Remaining: rapid.IntRange(1, 5).Draw(rt, "remaining"),
			})
		}
		r := p.TickStatusEffects()
		for _, d := range r.Debuffs {
			assert.GreaterOrEqual(rt, d.Remaining, 1)
		}
	})
}
