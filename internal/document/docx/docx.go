// Package docx reads formatting facts out of a WordprocessingML (.docx)
// package: the default style, which fonts and spacings are actually used,
// paragraph indentation and margin consistency, word and page counts, and the
// plain text.
package docx

import (
	"fmt"
	"strings"
)

// Package part names.
const (
	PartDocument  = "word/document.xml"
	PartFontTable = "word/fontTable.xml"
	PartStyles    = "word/styles.xml"
	PartApp       = "docProps/app.xml"
)

// Unit divisors. Font sizes are stored in half-points, line spacing in 240ths
// of a line, paragraph spacing in twentieths of a point, and page geometry in
// twips (1440 per inch).
const (
	halfPointsPerPoint = 2
	lineUnitsPerLine   = 240
	twipsPerPoint      = 20
	twipsPerInch       = 1440

	// CanonicalIndent is a half-inch first-line indent, in twips.
	CanonicalIndent = 720
)

// Fallbacks for attributes missing from the document defaults.
const (
	FallbackFont        = "Times New Roman"
	FallbackSize        = 12.0
	FallbackLineSpacing = 1.0
)

// DefaultStyle is the document-wide style: run and paragraph defaults plus
// the page geometry of the body section. Sizes are in points, line spacing
// in lines, page geometry in inches.
type DefaultStyle struct {
	Font          string  `json:"font"`
	Size          float64 `json:"size"`
	LineSpacing   float64 `json:"line_spacing"`
	AfterSpacing  float64 `json:"after_spacing"`
	BeforeSpacing float64 `json:"before_spacing"`
	PageWidth     float64 `json:"page_width"`
	PageHeight    float64 `json:"page_height"`
	LeftMargin    float64 `json:"left_margin"`
	BottomMargin  float64 `json:"bottom_margin"`
	RightMargin   float64 `json:"right_margin"`
	TopMargin     float64 `json:"top_margin"`
	Header        float64 `json:"header"`
	Footer        float64 `json:"footer"`
	Gutter        float64 `json:"gutter"`
}

func (d DefaultStyle) String() string {
	return fmt.Sprintf("{font: %s, size: %g, line_spacing: %g, after_spacing: %g, before_spacing: %g, "+
		"page_width: %g, page_height: %g, left_margin: %g, bottom_margin: %g, right_margin: %g, "+
		"top_margin: %g, header: %g, footer: %g, gutter: %g}",
		d.Font, d.Size, d.LineSpacing, d.AfterSpacing, d.BeforeSpacing,
		d.PageWidth, d.PageHeight, d.LeftMargin, d.BottomMargin, d.RightMargin,
		d.TopMargin, d.Header, d.Footer, d.Gutter)
}

// FontUsage is a font and point size used by at least one run.
type FontUsage struct {
	Font string  `json:"font"`
	Size float64 `json:"size"`
}

// Spacing is a line/after/before spacing combination used by at least one
// paragraph.
type Spacing struct {
	Line   float64 `json:"line"`
	After  float64 `json:"after"`
	Before float64 `json:"before"`
}

// Snapshot is the observed formatting of one document.
type Snapshot struct {
	Default DefaultStyle `json:"default_style"`
	// Fonts and Spacings are deduplicated, in order of first use.
	Fonts     []FontUsage `json:"fonts"`
	Spacings  []Spacing   `json:"spacings"`
	FontTable []string    `json:"font_table"`
	// Indentation is in [0,1]: 1 when every paragraph has a half-inch first
	// line indent, 0.5 per paragraph with some other non-zero indent.
	Indentation float64 `json:"indentation"`
	// Margin is in [0,2]: the average number of non-zero left/right
	// paragraph indents per paragraph.
	Margin     float64 `json:"margin"`
	WordCount  int     `json:"word_count"`
	PageCount  int     `json:"page_count"`
	Paragraphs int     `json:"paragraphs"`
	Text       string  `json:"-"`
}

// FontTableString renders the font table for debug output.
func (s *Snapshot) FontTableString() string {
	return "[" + strings.Join(s.FontTable, ", ") + "]"
}
