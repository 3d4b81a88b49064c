// Package rubric defines the grading configuration: per-category point caps
// (Rubric), per-category tuning values (Weights), and the expected document
// formatting (Style). A nil field means the corresponding check is not graded.
package rubric

import (
	"encoding/json"
	"fmt"
	"sort"

	"iga/internal/domain"
)

// Category names one of the six graded areas.
type Category string

const (
	CategoryGrammar   Category = "grammar"
	CategoryKey       Category = "key"
	CategoryLength    Category = "length"
	CategoryFormat    Category = "format"
	CategoryModel     Category = "model"
	CategoryReference Category = "reference"
)

// Categories lists every category in grading order.
var Categories = []Category{
	CategoryGrammar, CategoryKey, CategoryLength, CategoryFormat, CategoryModel, CategoryReference,
}

// Rubric holds the maximum points each category may deduct.
type Rubric struct {
	Grammar   *float64 `json:"grammar"`
	Key       *float64 `json:"key"`
	Length    *float64 `json:"length"`
	Format    *float64 `json:"format"`
	Model     *float64 `json:"model"`
	Reference *float64 `json:"reference"`
}

// RubricKeys is the exact key set of a serialized Rubric.
var RubricKeys = []string{"grammar", "key", "length", "format", "model", "reference"}

// Cap returns the point cap for c, or nil when c is not graded.
func (r Rubric) Cap(c Category) *float64 {
	switch c {
	case CategoryGrammar:
		return r.Grammar
	case CategoryKey:
		return r.Key
	case CategoryLength:
		return r.Length
	case CategoryFormat:
		return r.Format
	case CategoryModel:
		return r.Model
	case CategoryReference:
		return r.Reference
	default:
		return nil
	}
}

// Weights holds the thresholds and per-violation penalties used inside each
// category's formula.
type Weights struct {
	Grammar         *float64 `json:"grammar"`
	AllowedMistakes *int     `json:"allowed_mistakes"`
	KeyMax          *int     `json:"key_max"`
	KeyMin          *int     `json:"key_min"`
	WordMin         *int     `json:"word_min"`
	WordMax         *int     `json:"word_max"`
	PageMin         *int     `json:"page_min"`
	PageMax         *int     `json:"page_max"`
	Format          *float64 `json:"format"`
	Reference       *float64 `json:"reference"`
}

// WeightsKeys is the exact key set of serialized Weights.
var WeightsKeys = []string{
	"grammar", "allowed_mistakes", "key_max", "key_min", "word_min",
	"word_max", "page_min", "page_max", "format", "reference",
}

// DecodeRubric parses a JSON object whose key set must equal RubricKeys.
func DecodeRubric(data []byte) (Rubric, error) {
	var r Rubric
	if err := decodeExact("rubric", RubricKeys, data, &r); err != nil {
		return Rubric{}, err
	}
	return r, r.validate()
}

// DecodeWeights parses a JSON object whose key set must equal WeightsKeys.
func DecodeWeights(data []byte) (Weights, error) {
	var w Weights
	if err := decodeExact("weights", WeightsKeys, data, &w); err != nil {
		return Weights{}, err
	}
	return w, w.validate()
}

// RubricFromMap builds a Rubric from a generic mapping such as a decoded form.
func RubricFromMap(m map[string]any) (Rubric, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return Rubric{}, &domain.ConfigError{Kind: "rubric", Reason: err.Error()}
	}
	return DecodeRubric(data)
}

// WeightsFromMap builds Weights from a generic mapping.
func WeightsFromMap(m map[string]any) (Weights, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return Weights{}, &domain.ConfigError{Kind: "weights", Reason: err.Error()}
	}
	return DecodeWeights(data)
}

func (r Rubric) validate() error {
	for i, c := range Categories {
		if v := r.Cap(c); v != nil && *v < 0 {
			return &domain.ConfigError{Kind: "rubric", Reason: fmt.Sprintf("%s must be non-negative", RubricKeys[i])}
		}
	}
	return nil
}

func (w Weights) validate() error {
	floats := map[string]*float64{"grammar": w.Grammar, "format": w.Format, "reference": w.Reference}
	for _, k := range []string{"grammar", "format", "reference"} {
		if v := floats[k]; v != nil && *v < 0 {
			return &domain.ConfigError{Kind: "weights", Reason: k + " must be non-negative"}
		}
	}
	ints := []struct {
		key string
		v   *int
	}{
		{"allowed_mistakes", w.AllowedMistakes}, {"key_max", w.KeyMax}, {"key_min", w.KeyMin},
		{"word_min", w.WordMin}, {"word_max", w.WordMax}, {"page_min", w.PageMin}, {"page_max", w.PageMax},
	}
	for _, f := range ints {
		if f.v != nil && *f.v < 0 {
			return &domain.ConfigError{Kind: "weights", Reason: f.key + " must be non-negative"}
		}
	}
	return nil
}

// decodeExact unmarshals data into dst after checking that the top-level key
// set matches keys exactly.
func decodeExact(kind string, keys []string, data []byte, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrParse, kind, err)
	}
	if err := checkKeys(kind, keys, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &domain.ConfigError{Kind: kind, Reason: err.Error()}
	}
	return nil
}

func checkKeys(kind string, keys []string, raw map[string]json.RawMessage) error {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	var missing, unexpected []string
	for _, k := range keys {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range raw {
		if _, ok := want[k]; !ok {
			unexpected = append(unexpected, k)
		}
	}
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	return &domain.ConfigError{Kind: kind, Missing: missing, Unexpected: unexpected}
}
