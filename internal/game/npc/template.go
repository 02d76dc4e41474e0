// Package npc provides NPC template definitions, spawning, and the behavior
// drivers that act for AI participants on independent timers.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

// Template defines a reusable NPC archetype loaded from YAML.
type Template struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Stats       entity.Stats `yaml:"stats"`
	// Policy optionally names a registered behavior policy; empty uses the
	// manager's default.
	Policy string `yaml:"policy"`
}

// DefaultTemplate returns the baseline hostile NPC used when combat is
// initiated without explicit targets.
func DefaultTemplate() *Template {
	return &Template{
		ID:          "training-dummy",
		Name:        "Training Dummy",
		Description: "A battered practice target that fights back, feebly.",
		Stats: entity.Stats{
			Health:    100,
			MaxHealth: 100,
			Energy:    30,
			MaxEnergy: 30,
		},
	}
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty and the stat block
// describes a living participant; returns an error on the first violation.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.Stats.MaxHealth < 1 {
		return fmt.Errorf("npc template %q: max_health must be >= 1", t.ID)
	}
	if t.Stats.Health < 1 || t.Stats.Health > t.Stats.MaxHealth {
		return fmt.Errorf("npc template %q: health must be in [1, max_health]", t.ID)
	}
	if t.Stats.Energy < 0 || t.Stats.Energy > t.Stats.MaxEnergy {
		return fmt.Errorf("npc template %q: energy must be in [0, max_energy]", t.ID)
	}
	if t.Stats.Strength < 0 || t.Stats.Defense < 0 || t.Stats.Speed < 0 {
		return fmt.Errorf("npc template %q: ability scores must be >= 0", t.ID)
	}
	return nil
}

// LoadTemplateFromBytes parses a single NPC template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
