package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"iga/internal/domain"
)

type run struct {
	font *string
	size *string
}

type paragraph struct {
	spacing *spacingAttr
	ind     map[string]string
	runs    []run
	text    strings.Builder
}

type body struct {
	paragraphs []*paragraph
	section    *sectionXML
}

// walkBody streams document.xml, collecting every paragraph (including those
// nested in tables and text boxes) and the body-level section properties.
func walkBody(data []byte) (*body, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	b := &body{}
	var (
		stack   []string
		open    []*paragraph
		sawBody bool
	)
	at := func(depth int) string {
		if len(stack) < depth {
			return ""
		}
		return stack[len(stack)-depth]
	}
	current := func() *paragraph {
		if len(open) == 0 {
			return nil
		}
		return open[len(open)-1]
	}
	currentRun := func() *run {
		p := current()
		if p == nil || len(p.runs) == 0 {
			return nil
		}
		return &p.runs[len(p.runs)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.FormatError{Part: PartDocument, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent, grand := at(1), at(2)
			switch t.Name.Local {
			case "body":
				sawBody = true
			case "sectPr":
				if parent == "body" {
					var s sectionXML
					if err := dec.DecodeElement(&s, &t); err != nil {
						return nil, &domain.FormatError{Part: PartDocument, Err: err}
					}
					b.section = &s
					continue
				}
			case "p":
				p := &paragraph{}
				b.paragraphs = append(b.paragraphs, p)
				open = append(open, p)
			case "spacing":
				if parent == "pPr" && grand == "p" {
					if p := current(); p != nil {
						p.spacing = &spacingAttr{
							Line:   attr(t, "line"),
							After:  attr(t, "after"),
							Before: attr(t, "before"),
						}
					}
				}
			case "ind":
				if parent == "pPr" && grand == "p" {
					if p := current(); p != nil {
						p.ind = map[string]string{}
						for _, a := range t.Attr {
							p.ind[a.Name.Local] = a.Value
						}
					}
				}
			case "r":
				if p := current(); p != nil {
					p.runs = append(p.runs, run{})
				}
			case "rFonts":
				if parent == "rPr" && grand == "r" {
					if r := currentRun(); r != nil {
						fa := fontsAttr{ASCII: attr(t, "ascii"), ASCIITheme: attr(t, "asciiTheme")}
						if name, ok := fa.name(); ok {
							r.font = &name
						}
					}
				}
			case "sz":
				if parent == "rPr" && grand == "r" {
					if r := currentRun(); r != nil {
						r.size = attr(t, "val")
					}
				}
			case "t":
				if parent == "r" {
					var s string
					if err := dec.DecodeElement(&s, &t); err != nil {
						return nil, &domain.FormatError{Part: PartDocument, Err: err}
					}
					if p := current(); p != nil {
						p.text.WriteString(s)
					}
					continue
				}
			case "tab":
				if parent == "r" {
					if p := current(); p != nil {
						p.text.WriteByte('\t')
					}
				}
			case "br", "cr":
				if parent == "r" {
					if p := current(); p != nil {
						p.text.WriteByte('\n')
					}
				}
			}
			stack = append(stack, t.Name.Local)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local == "p" && len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
	}

	if !sawBody {
		return nil, &domain.FormatError{Part: PartDocument, Err: errors.New("document has no body")}
	}
	return b, nil
}

// summarize fills the usage lists, the indentation and margin scores, and the
// text of snap. snap.Default must already be resolved.
func (b *body) summarize(snap *Snapshot) error {
	def := snap.Default
	defSpacing := Spacing{Line: def.LineSpacing, After: def.AfterSpacing, Before: def.BeforeSpacing}

	seenFont := map[FontUsage]struct{}{}
	seenSpacing := map[Spacing]struct{}{}
	var indent, margin float64
	texts := make([]string, 0, len(b.paragraphs))

	for _, p := range b.paragraphs {
		for _, r := range p.runs {
			fu := FontUsage{Font: def.Font, Size: def.Size}
			if r.font != nil {
				fu.Font = *r.font
			}
			if r.size != nil {
				v, err := number(PartDocument, "sz", *r.size)
				if err != nil {
					return err
				}
				fu.Size = v / halfPointsPerPoint
			}
			if _, ok := seenFont[fu]; !ok {
				seenFont[fu] = struct{}{}
				snap.Fonts = append(snap.Fonts, fu)
			}
		}

		sp, err := resolveSpacing(PartDocument, p.spacing, defSpacing)
		if err != nil {
			return err
		}
		if _, ok := seenSpacing[sp]; !ok {
			seenSpacing[sp] = struct{}{}
			snap.Spacings = append(snap.Spacings, sp)
		}

		pi, pm, err := p.indentation()
		if err != nil {
			return err
		}
		indent += pi
		margin += pm
		texts = append(texts, p.text.String())
	}

	if n := len(b.paragraphs); n > 0 {
		snap.Indentation = indent / float64(n)
		snap.Margin = margin / float64(n)
	}
	snap.Text = strings.Join(texts, "\n")
	return nil
}

// indentation scores one paragraph: first-line indent credit in {0, 0.5, 1}
// and the count of non-zero left/right indents in {0, 1, 2}.
func (p *paragraph) indentation() (indent, margin float64, err error) {
	if p.ind == nil {
		return 0, 0, nil
	}
	if raw, ok := p.ind["firstLine"]; ok {
		v, err := number(PartDocument, "ind firstLine", raw)
		if err != nil {
			return 0, 0, err
		}
		switch {
		case v == CanonicalIndent:
			indent = 1
		case v != 0:
			indent = 0.5
		}
	}
	for _, side := range [][2]string{{"left", "start"}, {"right", "end"}} {
		raw, ok := p.ind[side[0]]
		if !ok {
			raw, ok = p.ind[side[1]]
		}
		if !ok {
			continue
		}
		v, err := number(PartDocument, "ind "+side[0], raw)
		if err != nil {
			return 0, 0, err
		}
		if v != 0 {
			margin++
		}
	}
	return indent, margin, nil
}

func attr(t xml.StartElement, local string) *string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			v := a.Value
			return &v
		}
	}
	return nil
}
