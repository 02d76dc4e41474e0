package npc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

type fixedSrc int

func (f fixedSrc) Intn(n int) int { return int(f) % n }

func newDriverFixture(t *testing.T) (*combat.Session, *entity.Participant, *entity.Participant) {
	t.Helper()
	hero := &entity.Participant{
		ID:          "hero",
		DisplayName: "Hero",
		Kind:        entity.KindHuman,
		Stats:       entity.DefaultStats(),
		Clock:       entity.NewActionPointClock(3, 3*time.Second),
	}
	goblin := &entity.Participant{
		ID:          "goblin",
		DisplayName: "Goblin",
		Kind:        entity.KindAI,
		Stats:       entity.Stats{Health: 60, MaxHealth: 60, Energy: 20, MaxEnergy: 20},
		Clock:       entity.NewActionPointClock(3, 3*time.Second),
	}
	session, err := combat.NewSession("arena-1", []*entity.Participant{hero, goblin}, combat.Options{Source: fixedSrc(0)})
	require.NoError(t, err)
	return session, hero, goblin
}

func sessionSubmitter(s *combat.Session) Submitter {
	return SubmitterFunc(func(actorID string, action combat.Action) {
		_, _ = s.SubmitAction(actorID, action)
	})
}

func TestDriver_TickSubmitsAction(t *testing.T) {
	session, hero, _ := newDriverFixture(t)
	d := NewDriver("goblin", session, WeakestTargetPolicy{}, sessionSubmitter(session), time.Second, nil)

	require.True(t, d.Tick())

	snap := session.Snapshot()
	require.Len(t, snap.Log, 1)
	assert.Equal(t, "goblin", snap.Log[0].ActorID)
	assert.Equal(t, "attack", snap.Log[0].ActionKind)
	assert.Equal(t, "hero", snap.Log[0].TargetID)
	assert.Less(t, hero.Stats.Health, hero.Stats.MaxHealth)
}

func TestDriver_TickSkipsWhenGateClosed(t *testing.T) {
	session, _, goblin := newDriverFixture(t)
	now := time.Now()
	for i := 0; i < 3; i++ {
		_, err := goblin.Clock.ConsumeSlot(now)
		require.NoError(t, err)
	}

	submitted := false
	d := NewDriver("goblin", session, WeakestTargetPolicy{}, SubmitterFunc(func(string, combat.Action) {
		submitted = true
	}), time.Second, nil)

	assert.True(t, d.Tick())
	assert.False(t, submitted)
	assert.Empty(t, session.Snapshot().Log)
}

func TestDriver_TickSkipsWhenDefeated(t *testing.T) {
	session, _, goblin := newDriverFixture(t)
	goblin.ApplyDamage(200)

	submitted := false
	d := NewDriver("goblin", session, WeakestTargetPolicy{}, SubmitterFunc(func(string, combat.Action) {
		submitted = true
	}), time.Second, nil)

	assert.True(t, d.Tick())
	assert.False(t, submitted)
}

func TestDriver_TickStopsWhenSessionCompletes(t *testing.T) {
	session, _, _ := newDriverFixture(t)
	_, err := session.SubmitAction("hero", combat.Action{
		Kind:     combat.ActionAttack,
		TargetID: "goblin",
		Attack:   combat.AttackParams{Damage: 200},
	})
	require.NoError(t, err)
	require.Equal(t, combat.StatusCompleted, session.Status())

	d := NewDriver("goblin", session, WeakestTargetPolicy{}, sessionSubmitter(session), time.Second, nil)
	assert.False(t, d.Tick())
}

func TestDriver_StartAndStop(t *testing.T) {
	session, _, _ := newDriverFixture(t)
	d := NewDriver("goblin", session, WeakestTargetPolicy{}, sessionSubmitter(session), 5*time.Millisecond, nil)

	d.Start()
	d.Stop()
	d.Stop() // idempotent

	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestDriver_LoopExitsWhenSessionEnds(t *testing.T) {
	session, _, _ := newDriverFixture(t)
	d := NewDriver("goblin", session, WeakestTargetPolicy{}, sessionSubmitter(session), 5*time.Millisecond, nil)
	d.Start()
	defer d.Stop()

	_, err := session.SubmitAction("hero", combat.Action{
		Kind:     combat.ActionAttack,
		TargetID: "goblin",
		Attack:   combat.AttackParams{Damage: 200},
	})
	require.NoError(t, err)

	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not exit after session completed")
	}
}

func TestNewDriver_PanicsOnBadInput(t *testing.T) {
	session, _, _ := newDriverFixture(t)
	assert.Panics(t, func() {
		NewDriver("", session, WeakestTargetPolicy{}, sessionSubmitter(session), time.Second, nil)
	})
	assert.Panics(t, func() {
		NewDriver("goblin", session, WeakestTargetPolicy{}, sessionSubmitter(session), 0, nil)
	})
}
