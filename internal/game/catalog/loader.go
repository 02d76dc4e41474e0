package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for catalog files.
type yamlCatalogFile struct {
	Actions []*Definition `yaml:"actions"`
}

// LoadFromFile reads a catalog YAML file of the form:
//
//	actions:
//	  - id: attack
//	    kind: attack
//	    target: enemy
//	    base_damage: {min: 5, max: 15}
//
// Precondition: path must reference a readable YAML file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %q: %w", path, err)
	}

	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file %q: %w", path, err)
	}

	c, err := New(file.Actions)
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", path, err)
	}
	return c, nil
}
