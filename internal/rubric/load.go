package rubric

import (
	"errors"

	"iga/internal/domain"
)

// LoadConfig assembles a Config from an optional YAML profile and an optional
// style file. An empty path or a missing file falls back to the defaults; any
// other error, including a malformed file, is returned.
func LoadConfig(profilePath, stylePath string) (*Config, error) {
	cfg := Default()

	if profilePath != "" {
		p, err := LoadProfile(profilePath)
		switch {
		case err == nil:
			cfg.Rubric = p.Rubric
			cfg.Weights = p.Weights
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	if stylePath != "" {
		st, err := LoadStyle(stylePath)
		switch {
		case err == nil:
			cfg.Style = st
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
