package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

func member(id string) Member {
	return Member{ID: id, DisplayName: id, Stats: entity.DefaultStats()}
}

func testSession(t *testing.T) *combat.Session {
	t.Helper()
	p := &entity.Participant{
		ID:    "hero",
		Kind:  entity.KindHuman,
		Stats: entity.DefaultStats(),
		Clock: entity.NewActionPointClock(3, 3*time.Second),
	}
	s, err := combat.NewSession("s1", []*entity.Participant{p}, combat.Options{})
	require.NoError(t, err)
	return s
}

func TestRoom_JoinAndLeave(t *testing.T) {
	r := New("arena")
	require.NoError(t, r.Join(member("alice")))
	require.NoError(t, r.Join(member("bob")))

	assert.Equal(t, 2, r.Len())
	m, ok := r.Member("alice")
	require.True(t, ok)
	assert.Equal(t, "alice", m.DisplayName)

	assert.True(t, r.Leave("alice"))
	assert.False(t, r.Leave("alice"))
	assert.Equal(t, 1, r.Len())
	_, ok = r.Member("alice")
	assert.False(t, ok)
}

func TestRoom_JoinRejectsDuplicateAndEmptyID(t *testing.T) {
	r := New("arena")
	require.NoError(t, r.Join(member("alice")))
	assert.Error(t, r.Join(member("alice")))
	assert.Error(t, r.Join(Member{}))
	assert.Equal(t, 1, r.Len())
}

func TestRoom_MembersPreserveJoinOrder(t *testing.T) {
	r := New("arena")
	for _, id := range []string{"carol", "alice", "bob"} {
		require.NoError(t, r.Join(member(id)))
	}
	require.True(t, r.Leave("alice"))
	require.NoError(t, r.Join(member("dave")))

	members := r.Members()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"carol", "bob", "dave"}, ids)
}

func TestRoom_SessionLifecycle(t *testing.T) {
	r := New("arena")
	assert.Nil(t, r.Session())

	s := testSession(t)
	require.NoError(t, r.AttachSession(s))
	assert.Same(t, s, r.Session())

	// Only one encounter at a time.
	assert.Error(t, r.AttachSession(testSession(t)))

	r.ClearSession()
	assert.Nil(t, r.Session())
	require.NoError(t, r.AttachSession(testSession(t)))
}

func TestRoom_AttachSessionRejectsNil(t *testing.T) {
	assert.Error(t, New("arena").AttachSession(nil))
}

func TestNew_PanicsOnEmptyID(t *testing.T) {
	assert.Panics(t, func() { New("") })
}
