// Package manifest loads YAML capability manifests for the funcast CLI.
// A manifest describes types, their declared mechanisms per kind and each
// callable's declared return shape; the CLI synthesizes callables of
// those shapes and lints the resolution of every declared pair.
package manifest

import (
	"fmt"
	"os"

	"github.com/funvibe/funcast/internal/kind"
	"gopkg.in/yaml.v3"
)

// Capability is one declared (kind, mechanisms, return shape) record.
type Capability struct {
	Kind       string   `yaml:"kind"`
	Mechanisms []string `yaml:"mechanisms"`
	// Returns is the callable's declared return type. "any" defers the
	// shape check to call time. Defaults to the kind's canonical shape.
	Returns string `yaml:"returns"`
	// Distinct declares a separate callable per mechanism instead of
	// one shared callable, to lint conflict reporting.
	Distinct bool `yaml:"distinct"`
}

// Type is one user-defined type in the manifest.
type Type struct {
	Name         string       `yaml:"name"`
	Capabilities []Capability `yaml:"capabilities"`
}

// Manifest is the root document.
type Manifest struct {
	Types []Type `yaml:"types"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if len(m.Types) == 0 {
		return nil, fmt.Errorf("manifest: no types declared")
	}
	seen := make(map[string]bool)
	for _, t := range m.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("manifest: type with empty name")
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("manifest: type %q declared twice", t.Name)
		}
		seen[t.Name] = true
		for _, c := range t.Capabilities {
			k, ok := kind.FromName(c.Kind)
			if !ok {
				return nil, fmt.Errorf("manifest: type %q: unknown kind %q", t.Name, c.Kind)
			}
			if !k.Declarable() {
				return nil, fmt.Errorf("manifest: type %q: kind %s has no direct mechanism (declare Element and Length)", t.Name, k)
			}
			if len(c.Mechanisms) == 0 {
				return nil, fmt.Errorf("manifest: type %q: kind %s declares no mechanisms", t.Name, k)
			}
			for _, mech := range c.Mechanisms {
				if mech != "method" && mech != "marker" {
					return nil, fmt.Errorf("manifest: type %q: unknown mechanism %q", t.Name, mech)
				}
			}
			if c.Returns != "" {
				if _, ok := returnTypes[c.Returns]; !ok {
					return nil, fmt.Errorf("manifest: type %q: unknown return type %q", t.Name, c.Returns)
				}
			}
		}
	}
	return &m, nil
}
