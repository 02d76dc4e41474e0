// Package room implements the ephemeral room model: the membership boundary
// that scopes a combat session and the broadcast fan-out to its members.
// Rooms exist only while members occupy them; nothing is persisted.
package room

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

// Member is one connected player in a room. The room holds only identity and
// the stat block the player will bring into combat; live combat state lives
// in the session's participants.
type Member struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"displayName"`
	Stats       entity.Stats `json:"stats"`
}

// Broadcaster delivers events to room members. The transport gateway
// implements this; game code never touches connections directly.
type Broadcaster interface {
	// Broadcast sends an event to every member of the room.
	Broadcast(roomID, event string, payload any)
	// NotifyError sends an error message to a single member.
	NotifyError(memberID, message string)
}

// Room is one ephemeral gathering of players. At most one combat session is
// attached at a time. All methods are safe for concurrent use.
type Room struct {
	id string

	mu      sync.RWMutex
	order   []string
	members map[string]Member
	session *combat.Session
}

// New creates an empty room.
//
// Precondition: id must be non-empty.
func New(id string) *Room {
	if id == "" {
		panic("room.New: id must not be empty")
	}
	return &Room{
		id:      id,
		members: make(map[string]Member),
	}
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Join adds a member. Join order is preserved and later used as participant
// order when combat starts.
//
// Precondition: m.ID must be non-empty.
// Postcondition: Returns an error iff a member with the same ID is present.
func (r *Room) Join(m Member) error {
	if m.ID == "" {
		return fmt.Errorf("room %q: member id must not be empty", r.id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID]; ok {
		return fmt.Errorf("room %q: member %q already joined", r.id, m.ID)
	}
	r.members[m.ID] = m
	r.order = append(r.order, m.ID)
	return nil
}

// Leave removes a member.
//
// Postcondition: Returns true iff the member was present.
func (r *Room) Leave(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Member returns the member with the given ID.
//
// Postcondition: Returns (m, true) if present, or the zero Member and false.
func (r *Room) Member(id string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	return m, ok
}

// Members returns a snapshot of the membership in join order.
func (r *Room) Members() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Member, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.members[id])
	}
	return out
}

// Len returns the current member count.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// AttachSession binds an active combat session to the room.
//
// Postcondition: Returns an error iff another session is already attached.
func (r *Room) AttachSession(s *combat.Session) error {
	if s == nil {
		return fmt.Errorf("room %q: session must not be nil", r.id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil {
		return fmt.Errorf("room %q: combat already in progress", r.id)
	}
	r.session = s
	return nil
}

// Session returns the attached combat session, or nil.
func (r *Room) Session() *combat.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session
}

// ClearSession detaches the combat session, making the room eligible for a
// new encounter. Safe to call when no session is attached.
func (r *Room) ClearSession() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = nil
}
