package config

import (
	"fmt"
	"os"

	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"gopkg.in/yaml.v3"
)

// LoadProfileFile overlays the YAML document at path onto base. Keys absent
// from the document keep base's values; a top-level "base" key selects a
// different built-in profile to start from.
func LoadProfileFile(path string, base reporting.Profile) (reporting.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reporting.Profile{}, fmt.Errorf("read profile file: %w", err)
	}
	return ParseProfile(data, base)
}

// ParseProfile is LoadProfileFile on an in-memory document.
func ParseProfile(data []byte, base reporting.Profile) (reporting.Profile, error) {
	var header struct {
		Base string `yaml:"base"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return reporting.Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if header.Base != "" {
		p, err := reporting.ProfileByName(header.Base)
		if err != nil {
			return reporting.Profile{}, fmt.Errorf("parse profile: %w", err)
		}
		base = p
	}

	// Unknown keys, including "base", are ignored by the decoder.
	p := base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return reporting.Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return reporting.Profile{}, fmt.Errorf("invalid profile: %w", err)
	}
	return p, nil
}
