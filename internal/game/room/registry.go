package room

import (
	"sort"
	"sync"
)

// Registry provides thread-safe access to all live rooms, indexed by ID.
// Rooms are created on first use and removed when the last member leaves.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room with the given ID, creating it if absent.
//
// Precondition: id must be non-empty.
func (r *Registry) GetOrCreate(id string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[id]; ok {
		return existing
	}
	rm := New(id)
	r.rooms[id] = rm
	return rm
}

// Get returns the room with the given ID.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (r *Registry) Get(id string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[id]
	return rm, ok
}

// Remove deletes the room with the given ID.
//
// Postcondition: Returns true iff the room existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return false
	}
	delete(r.rooms, id)
	return true
}

// RemoveIfEmpty deletes the room iff it has no members. Used after a leave
// so empty rooms do not accumulate.
//
// Postcondition: Returns true iff the room was removed.
func (r *Registry) RemoveIfEmpty(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[id]
	if !ok || rm.Len() > 0 {
		return false
	}
	delete(r.rooms, id)
	return true
}

// IDs returns the live room IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
