package npc

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

// Manager holds the template registry and spawns live AI participants from
// it. All methods are safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewManager creates a Manager seeded with the given templates plus the
// default template. Explicit templates with the default's ID take precedence.
//
// Precondition: every template must be non-nil and valid.
func NewManager(templates ...*Template) (*Manager, error) {
	m := &Manager{templates: make(map[string]*Template, len(templates)+1)}
	m.templates[DefaultTemplate().ID] = DefaultTemplate()
	for _, tmpl := range templates {
		if tmpl == nil {
			return nil, fmt.Errorf("npc.NewManager: template must not be nil")
		}
		if err := tmpl.Validate(); err != nil {
			return nil, err
		}
		m.templates[tmpl.ID] = tmpl
	}
	return m, nil
}

// Register adds or replaces a template.
//
// Precondition: tmpl must be non-nil and valid.
func (m *Manager) Register(tmpl *Template) error {
	if tmpl == nil {
		return fmt.Errorf("npc.Manager.Register: tmpl must not be nil")
	}
	if err := tmpl.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[tmpl.ID] = tmpl
	return nil
}

// Template returns the registered template with the given ID.
//
// Postcondition: Returns (tmpl, true) if found, or (nil, false) otherwise.
func (m *Manager) Template(id string) (*Template, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tmpl, ok := m.templates[id]
	return tmpl, ok
}

// TemplateIDs returns the registered template IDs in sorted order.
func (m *Manager) TemplateIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.templates))
	for id := range m.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Spawn creates a live AI participant from the named template. An unknown or
// empty template ID falls back to the default template.
//
// Precondition: capacity >= 1 and interval > 0.
// Postcondition: Returns a participant with a unique ID, the template's stat
// block, and a fresh action point clock with every slot available.
func (m *Manager) Spawn(templateID string, capacity int, interval time.Duration) *entity.Participant {
	tmpl, ok := m.Template(templateID)
	if !ok {
		tmpl = DefaultTemplate()
	}
	return &entity.Participant{
		ID:          fmt.Sprintf("npc-%s-%s", tmpl.ID, uuid.NewString()[:8]),
		DisplayName: tmpl.Name,
		Kind:        entity.KindAI,
		Stats:       tmpl.Stats,
		Clock:       entity.NewActionPointClock(capacity, interval),
	}
}
