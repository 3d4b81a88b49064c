package rubric

import "iga/internal/domain"

// Config is one immutable grading configuration. Values handed out by Store
// are shared between goroutines and must not be modified.
type Config struct {
	Rubric  Rubric
	Weights Weights
	Style   Style
}

// Validate checks that every graded category has the weights its formula needs.
func (c *Config) Validate() error {
	r, w := c.Rubric, c.Weights
	if err := r.validate(); err != nil {
		return err
	}
	if err := w.validate(); err != nil {
		return err
	}
	if err := c.Style.validate(); err != nil {
		return err
	}
	if r.Grammar != nil && w.Grammar == nil {
		return &domain.ConfigError{Kind: "weights", Reason: "grammar weight is required when grammar is graded"}
	}
	if r.Key != nil {
		if w.KeyMax == nil || w.KeyMin == nil {
			return &domain.ConfigError{Kind: "weights", Reason: "key_max and key_min are required when keywords are graded"}
		}
		if *w.KeyMax <= *w.KeyMin {
			return &domain.ConfigError{Kind: "weights", Reason: "key_max must be greater than key_min"}
		}
	}
	if r.Format != nil && w.Format == nil {
		return &domain.ConfigError{Kind: "weights", Reason: "format weight is required when format is graded"}
	}
	if r.Reference != nil && w.Reference == nil {
		return &domain.ConfigError{Kind: "weights", Reason: "reference weight is required when references are graded"}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	return &Config{
		Rubric:  c.Rubric.Clone(),
		Weights: c.Weights.Clone(),
		Style:   c.Style.Clone(),
	}
}

// Clone returns a deep copy of r.
func (r Rubric) Clone() Rubric {
	return Rubric{
		Grammar:   clonePtr(r.Grammar),
		Key:       clonePtr(r.Key),
		Length:    clonePtr(r.Length),
		Format:    clonePtr(r.Format),
		Model:     clonePtr(r.Model),
		Reference: clonePtr(r.Reference),
	}
}

// Clone returns a deep copy of w.
func (w Weights) Clone() Weights {
	return Weights{
		Grammar:         clonePtr(w.Grammar),
		AllowedMistakes: clonePtr(w.AllowedMistakes),
		KeyMax:          clonePtr(w.KeyMax),
		KeyMin:          clonePtr(w.KeyMin),
		WordMin:         clonePtr(w.WordMin),
		WordMax:         clonePtr(w.WordMax),
		PageMin:         clonePtr(w.PageMin),
		PageMax:         clonePtr(w.PageMax),
		Format:          clonePtr(w.Format),
		Reference:       clonePtr(w.Reference),
	}
}

// Float and Int return pointers for literal configuration values.
func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

// DefaultRubric grades every category out of five points.
func DefaultRubric() Rubric {
	return Rubric{
		Grammar:   Float(5),
		Key:       Float(5),
		Length:    Float(5),
		Format:    Float(5),
		Model:     Float(5),
		Reference: Float(5),
	}
}

// DefaultWeights returns the stock thresholds for a 300 to 800 word essay.
func DefaultWeights() Weights {
	return Weights{
		Grammar:         Float(1),
		AllowedMistakes: Int(3),
		KeyMax:          Int(3),
		KeyMin:          Int(0),
		WordMin:         Int(300),
		WordMax:         Int(800),
		PageMin:         Int(1),
		PageMax:         Int(4),
		Format:          Float(5),
		Reference:       Float(5),
	}
}

// DefaultStyle is double-spaced 12pt Times New Roman on US Letter with
// one inch margins.
func DefaultStyle() Style {
	return Style{
		Font:          Fonts{"Times New Roman", "Calibri Math"},
		Size:          Float(12),
		LineSpacing:   Float(2),
		AfterSpacing:  Float(0),
		BeforeSpacing: Float(0),
		PageWidth:     Float(8.5),
		PageHeight:    Float(11),
		LeftMargin:    Float(1),
		BottomMargin:  Float(1),
		RightMargin:   Float(1),
		TopMargin:     Float(1),
		Header:        Float(0),
		Footer:        Float(0),
		Gutter:        Float(0),
		Indent:        Float(1),
	}
}

// Default returns a fresh Config built from the stock defaults.
func Default() *Config {
	return &Config{Rubric: DefaultRubric(), Weights: DefaultWeights(), Style: DefaultStyle()}
}
