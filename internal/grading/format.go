package grading

import (
	"fmt"
	"math"

	"iga/internal/document/docx"
	"iga/internal/feedback"
	"iga/internal/rubric"
)

const epsilon = 1e-9

func differs(a, b float64) bool {
	return math.Abs(a-b) > epsilon
}

// gradeFormat compares the observed document against the expected style.
// Each violation of a discrete rule costs one format weight; indentation and
// paragraph margins cost up to one weight in proportion to how far off they
// are. It only runs for documents that carry a style snapshot.
func gradeFormat(cfg *rubric.Config, snap *docx.Snapshot) CategoryResult {
	limit := cfg.Rubric.Format
	if limit == nil || snap == nil {
		return skipped(rubric.CategoryFormat)
	}
	st := cfg.Style
	w := *cfg.Weights.Format

	var (
		flags feedback.FormatFlags
		loss  float64
	)
	if st.Font != nil {
		for _, f := range snap.Fonts {
			if !st.Font.Contains(f.Font) {
				loss += w
				flags[feedback.FlagFont] = true
			}
		}
	}
	if st.Size != nil {
		for _, f := range snap.Fonts {
			if differs(f.Size, *st.Size) {
				loss += w
				flags[feedback.FlagSize] = true
			}
		}
	}

	spacing := []struct {
		want *float64
		got  func(docx.Spacing) float64
		flag feedback.FormatFlag
	}{
		{st.LineSpacing, func(s docx.Spacing) float64 { return s.Line }, feedback.FlagLineSpacing},
		{st.AfterSpacing, func(s docx.Spacing) float64 { return s.After }, feedback.FlagAfterSpacing},
		{st.BeforeSpacing, func(s docx.Spacing) float64 { return s.Before }, feedback.FlagBeforeSpacing},
	}
	for _, rule := range spacing {
		if rule.want == nil {
			continue
		}
		for _, s := range snap.Spacings {
			if differs(rule.got(s), *rule.want) {
				loss += w
				flags[rule.flag] = true
			}
		}
	}

	def := snap.Default
	page := []struct {
		want *float64
		got  float64
		flag feedback.FormatFlag
	}{
		{st.PageWidth, def.PageWidth, feedback.FlagPageWidth},
		{st.PageHeight, def.PageHeight, feedback.FlagPageHeight},
		{st.LeftMargin, def.LeftMargin, feedback.FlagLeftMargin},
		{st.BottomMargin, def.BottomMargin, feedback.FlagBottomMargin},
		{st.RightMargin, def.RightMargin, feedback.FlagRightMargin},
		{st.TopMargin, def.TopMargin, feedback.FlagTopMargin},
		{st.Header, def.Header, feedback.FlagHeader},
		{st.Footer, def.Footer, feedback.FlagFooter},
		{st.Gutter, def.Gutter, feedback.FlagGutter},
	}
	for _, rule := range page {
		if rule.want != nil && differs(rule.got, *rule.want) {
			loss += w
			flags[rule.flag] = true
		}
	}

	if st.Indent != nil {
		want, got := *st.Indent, snap.Indentation
		// An expected indent under 0.5 means "do not indent", so the penalty
		// grows with the indentation observed rather than the indentation
		// missing.
		if want < 0.5 {
			loss += clamp(w*(got-want)*2, 0, w)
		} else {
			loss += clamp(w*(want-got)*2, 0, w)
		}
		if differs(want, got) {
			flags[feedback.FlagIndent] = true
		}
	}
	if st.LeftMargin != nil && st.RightMargin != nil {
		loss += clamp(w*snap.Margin, 0, w)
		if snap.Margin != 0 {
			flags[feedback.FlagParagraphMargin] = true
		}
	}

	loss = min(loss, *limit)
	return CategoryResult{
		Category:   rubric.CategoryFormat,
		PointsLost: loss,
		Debug:      fmt.Sprintf("Default Style: %s\nFonts: %s\n", def, snap.FontTableString()),
		Feedback:   feedback.Format(flags),
	}
}
