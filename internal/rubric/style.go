package rubric

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"iga/internal/atomicfile"
	"iga/internal/domain"
)

// Fonts is the list of allowed font names. It decodes from either a JSON
// array or a single string.
type Fonts []string

func (f *Fonts) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*f = Fonts{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("font must be a string or list of strings: %w", err)
	}
	*f = many
	return nil
}

// Contains reports whether name is one of the allowed fonts.
func (f Fonts) Contains(name string) bool {
	for _, n := range f {
		if n == name {
			return true
		}
	}
	return false
}

// Style is the expected formatting of a submitted document. Sizes are in
// points, spacing in lines (line) or points (after/before), page geometry
// and indent in inches.
type Style struct {
	Font          Fonts    `json:"font"`
	Size          *float64 `json:"size"`
	LineSpacing   *float64 `json:"line_spacing"`
	AfterSpacing  *float64 `json:"after_spacing"`
	BeforeSpacing *float64 `json:"before_spacing"`
	PageWidth     *float64 `json:"page_width"`
	PageHeight    *float64 `json:"page_height"`
	LeftMargin    *float64 `json:"left_margin"`
	BottomMargin  *float64 `json:"bottom_margin"`
	RightMargin   *float64 `json:"right_margin"`
	TopMargin     *float64 `json:"top_margin"`
	Header        *float64 `json:"header"`
	Footer        *float64 `json:"footer"`
	Gutter        *float64 `json:"gutter"`
	Indent        *float64 `json:"indent"`
}

// StyleKeys is the exact key set of a serialized Style.
var StyleKeys = []string{
	"font", "size", "line_spacing", "after_spacing", "before_spacing",
	"page_width", "page_height", "left_margin", "bottom_margin", "right_margin",
	"top_margin", "header", "footer", "gutter", "indent",
}

// DecodeStyle parses a JSON object whose key set must equal StyleKeys.
func DecodeStyle(data []byte) (Style, error) {
	var s Style
	if err := decodeExact("style", StyleKeys, data, &s); err != nil {
		return Style{}, err
	}
	return s, s.validate()
}

// StyleFromMap builds a Style from a generic mapping.
func StyleFromMap(m map[string]any) (Style, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return Style{}, &domain.ConfigError{Kind: "style", Reason: err.Error()}
	}
	return DecodeStyle(data)
}

func (s Style) numeric() map[string]*float64 {
	return map[string]*float64{
		"size": s.Size, "line_spacing": s.LineSpacing, "after_spacing": s.AfterSpacing,
		"before_spacing": s.BeforeSpacing, "page_width": s.PageWidth, "page_height": s.PageHeight,
		"left_margin": s.LeftMargin, "bottom_margin": s.BottomMargin, "right_margin": s.RightMargin,
		"top_margin": s.TopMargin, "header": s.Header, "footer": s.Footer, "gutter": s.Gutter,
		"indent": s.Indent,
	}
}

func (s Style) validate() error {
	nums := s.numeric()
	for _, k := range StyleKeys[1:] {
		if v := nums[k]; v != nil && *v < 0 {
			return &domain.ConfigError{Kind: "style", Reason: k + " must be non-negative"}
		}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s Style) Clone() Style {
	out := s
	if s.Font != nil {
		out.Font = append(Fonts{}, s.Font...)
	}
	out.Size = clonePtr(s.Size)
	out.LineSpacing = clonePtr(s.LineSpacing)
	out.AfterSpacing = clonePtr(s.AfterSpacing)
	out.BeforeSpacing = clonePtr(s.BeforeSpacing)
	out.PageWidth = clonePtr(s.PageWidth)
	out.PageHeight = clonePtr(s.PageHeight)
	out.LeftMargin = clonePtr(s.LeftMargin)
	out.BottomMargin = clonePtr(s.BottomMargin)
	out.RightMargin = clonePtr(s.RightMargin)
	out.TopMargin = clonePtr(s.TopMargin)
	out.Header = clonePtr(s.Header)
	out.Footer = clonePtr(s.Footer)
	out.Gutter = clonePtr(s.Gutter)
	out.Indent = clonePtr(s.Indent)
	return out
}

// LoadStyle reads a Style from a JSON file.
func LoadStyle(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, mapFSError("reading style file", path, err)
	}
	s, err := DecodeStyle(data)
	if err != nil {
		return Style{}, fmt.Errorf("loading style %s: %w", path, err)
	}
	return s, nil
}

// StoreStyle writes s to path as JSON. The file is replaced atomically, so a
// failed write leaves any previous content intact.
func StoreStyle(path string, s Style) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding style: %w", err)
	}
	return atomicfile.WriteFile(path, append(data, '\n'), 0o644)
}

func mapFSError(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w: %v", op, path, domain.ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %s: %w: %v", op, path, domain.ErrPermission, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
