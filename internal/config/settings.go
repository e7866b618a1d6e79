package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the optional engine configuration the CLI reads alongside
// a manifest. Hosts embedding the library configure the same things
// through engine options instead.
type Settings struct {
	// StrictBool disables the truthy default: an object with no Bool
	// declaration fails instead of coercing to true.
	StrictBool bool `yaml:"strict_bool"`
}

// LoadSettings reads a YAML settings file. A missing path yields the
// zero settings.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

// IsManifestFile checks if a path has a recognized manifest extension.
func IsManifestFile(path string) bool {
	for _, ext := range ManifestFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
