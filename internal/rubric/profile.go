package rubric

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"iga/internal/domain"
)

var profileKeys = []string{"rubric", "weights"}

// Profile is a named rubric and weights pair stored as YAML:
//
//	rubric:
//	  grammar: 5
//	  key: ~
//	  ...
//	weights:
//	  grammar: 1
//	  ...
type Profile struct {
	Rubric  Rubric
	Weights Weights
}

// LoadProfile reads a YAML grading profile. Both sections follow the same
// exact key-set rules as their JSON forms.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mapFSError("reading profile", path, err)
	}
	p, err := DecodeProfile(data)
	if err != nil {
		return nil, fmt.Errorf("loading profile %s: %w", path, err)
	}
	return p, nil
}

// DecodeProfile parses YAML profile content.
func DecodeProfile(data []byte) (*Profile, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding profile: %v", domain.ErrParse, err)
	}

	raw := make(map[string]json.RawMessage, len(doc))
	for k, v := range doc {
		section, err := json.Marshal(v)
		if err != nil {
			return nil, &domain.ConfigError{Kind: "profile", Reason: fmt.Sprintf("%s: %v", k, err)}
		}
		raw[k] = section
	}
	if err := checkKeys("profile", profileKeys, raw); err != nil {
		return nil, err
	}

	r, err := DecodeRubric(raw["rubric"])
	if err != nil {
		return nil, err
	}
	w, err := DecodeWeights(raw["weights"])
	if err != nil {
		return nil, err
	}
	return &Profile{Rubric: r, Weights: w}, nil
}

// MarshalYAML renders the profile with explicit nulls for ungraded entries.
func (p *Profile) MarshalYAML() (any, error) {
	toMap := func(v any) (map[string]any, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		return m, json.Unmarshal(data, &m)
	}
	r, err := toMap(p.Rubric)
	if err != nil {
		return nil, err
	}
	w, err := toMap(p.Weights)
	if err != nil {
		return nil, err
	}
	return map[string]any{"rubric": r, "weights": w}, nil
}
