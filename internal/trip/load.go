package trip

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads and validates a trip profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trip file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse trip file %s: %w", path, err)
	}

	// Fixed items supplied by the user are immutable downstream regardless
	// of how the file spelled it.
	for i := range p.FixedSchedules {
		p.FixedSchedules[i].UserFixed = true
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trip profile: %w", err)
	}
	return &p, nil
}
