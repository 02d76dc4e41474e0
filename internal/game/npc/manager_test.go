package npc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

func TestNewManager_SeedsDefaultTemplate(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	tmpl, ok := m.Template(DefaultTemplate().ID)
	require.True(t, ok)
	assert.Equal(t, DefaultTemplate().Name, tmpl.Name)
}

func TestNewManager_RejectsInvalidTemplate(t *testing.T) {
	_, err := NewManager(&Template{ID: "broken"})
	assert.Error(t, err)

	_, err = NewManager(nil)
	assert.Error(t, err)
}

func TestManager_Register(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	require.NoError(t, m.Register(validTemplate()))
	tmpl, ok := m.Template("goblin")
	require.True(t, ok)
	assert.Equal(t, "Goblin", tmpl.Name)

	assert.Error(t, m.Register(&Template{}))
	assert.Error(t, m.Register(nil))
}

func TestManager_TemplateIDs_Sorted(t *testing.T) {
	m, err := NewManager(validTemplate())
	require.NoError(t, err)

	ids := m.TemplateIDs()
	assert.Equal(t, []string{"goblin", "training-dummy"}, ids)
}

func TestManager_Spawn(t *testing.T) {
	m, err := NewManager(validTemplate())
	require.NoError(t, err)

	p := m.Spawn("goblin", 3, 3*time.Second)
	assert.Equal(t, entity.KindAI, p.Kind)
	assert.Equal(t, "Goblin", p.DisplayName)
	assert.Equal(t, 60, p.Stats.Health)
	assert.Contains(t, p.ID, "npc-goblin-")
	require.NotNil(t, p.Clock)
	assert.Equal(t, 3, p.Clock.Capacity())
	assert.Len(t, p.Clock.AvailableSlots(time.Now()), 3)
}

func TestManager_Spawn_UnknownFallsBackToDefault(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	p := m.Spawn("dragon", 3, 3*time.Second)
	assert.Equal(t, DefaultTemplate().Name, p.DisplayName)
	assert.Equal(t, DefaultTemplate().Stats, p.Stats)
}

func TestManager_Spawn_UniqueIDs(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	a := m.Spawn("", 3, 3*time.Second)
	b := m.Spawn("", 3, 3*time.Second)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestManager_Spawn_StatsAreIndependent(t *testing.T) {
	m, err := NewManager(validTemplate())
	require.NoError(t, err)

	a := m.Spawn("goblin", 3, 3*time.Second)
	b := m.Spawn("goblin", 3, 3*time.Second)

	a.ApplyDamage(30)
	assert.Equal(t, 60, b.Stats.Health)

	tmpl, _ := m.Template("goblin")
	assert.Equal(t, 60, tmpl.Stats.Health)
}
