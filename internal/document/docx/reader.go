package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"iga/internal/domain"
)

// maxPartSize bounds how much of a single part is decompressed.
const maxPartSize = 64 << 20

// Open reads the package at path.
func Open(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("opening %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return Read(f, info.Size())
}

// Parse reads a package held in memory.
func Parse(data []byte) (*Snapshot, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read reads a package from r.
func Read(r io.ReaderAt, size int64) (*Snapshot, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &domain.FormatError{Err: fmt.Errorf("not a zip container: %w", err)}
	}

	parts := map[string][]byte{}
	for _, name := range []string{PartDocument, PartFontTable, PartStyles, PartApp} {
		data, err := readPart(zr, name)
		if err != nil {
			return nil, err
		}
		parts[name] = data
	}

	def, err := readDefaults(parts[PartStyles])
	if err != nil {
		return nil, err
	}
	body, err := walkBody(parts[PartDocument])
	if err != nil {
		return nil, err
	}
	if err := body.section.apply(&def); err != nil {
		return nil, err
	}
	fonts, err := readFontTable(parts[PartFontTable])
	if err != nil {
		return nil, err
	}
	words, pages, err := readAppProperties(parts[PartApp])
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Default:    def,
		FontTable:  fonts,
		WordCount:  words,
		PageCount:  pages,
		Paragraphs: len(body.paragraphs),
	}
	if err := body.summarize(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, &domain.FormatError{Part: name, Err: errors.New("part not found")}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxPartSize))
	if err != nil {
		return nil, &domain.FormatError{Part: name, Err: err}
	}
	return data, nil
}

type valAttr struct {
	Val *string `xml:"val,attr"`
}

type fontsAttr struct {
	ASCII      *string `xml:"ascii,attr"`
	ASCIITheme *string `xml:"asciiTheme,attr"`
}

func (f *fontsAttr) name() (string, bool) {
	switch {
	case f == nil:
		return "", false
	case f.ASCII != nil:
		return *f.ASCII, true
	case f.ASCIITheme != nil:
		return *f.ASCIITheme, true
	default:
		return "", false
	}
}

type spacingAttr struct {
	Line   *string `xml:"line,attr"`
	After  *string `xml:"after,attr"`
	Before *string `xml:"before,attr"`
}

type stylesXML struct {
	DocDefaults *struct {
		RPrDefault *struct {
			RPr *struct {
				Fonts *fontsAttr `xml:"rFonts"`
				Size  *valAttr   `xml:"sz"`
			} `xml:"rPr"`
		} `xml:"rPrDefault"`
		PPrDefault *struct {
			PPr *struct {
				Spacing *spacingAttr `xml:"spacing"`
			} `xml:"pPr"`
		} `xml:"pPrDefault"`
	} `xml:"docDefaults"`
}

// readDefaults resolves the run and paragraph defaults from styles.xml,
// falling back to fixed values for anything the document leaves out.
func readDefaults(data []byte) (DefaultStyle, error) {
	var st stylesXML
	if err := xml.Unmarshal(data, &st); err != nil {
		return DefaultStyle{}, &domain.FormatError{Part: PartStyles, Err: err}
	}
	def := DefaultStyle{Font: FallbackFont, Size: FallbackSize, LineSpacing: FallbackLineSpacing}
	dd := st.DocDefaults
	if dd == nil {
		return def, nil
	}

	if dd.RPrDefault != nil && dd.RPrDefault.RPr != nil {
		rpr := dd.RPrDefault.RPr
		if name, ok := rpr.Fonts.name(); ok {
			def.Font = name
		}
		if rpr.Size != nil && rpr.Size.Val != nil {
			v, err := number(PartStyles, "sz", *rpr.Size.Val)
			if err != nil {
				return DefaultStyle{}, err
			}
			def.Size = v / halfPointsPerPoint
		}
	}
	if dd.PPrDefault != nil && dd.PPrDefault.PPr != nil && dd.PPrDefault.PPr.Spacing != nil {
		sp, err := resolveSpacing(PartStyles, dd.PPrDefault.PPr.Spacing, Spacing{
			Line: def.LineSpacing, After: def.AfterSpacing, Before: def.BeforeSpacing,
		})
		if err != nil {
			return DefaultStyle{}, err
		}
		def.LineSpacing, def.AfterSpacing, def.BeforeSpacing = sp.Line, sp.After, sp.Before
	}
	return def, nil
}

// resolveSpacing converts explicit spacing attributes, using fallback for any
// attribute that is absent.
func resolveSpacing(part string, sp *spacingAttr, fallback Spacing) (Spacing, error) {
	out := fallback
	if sp == nil {
		return out, nil
	}
	if sp.Line != nil {
		v, err := number(part, "spacing line", *sp.Line)
		if err != nil {
			return Spacing{}, err
		}
		out.Line = v / lineUnitsPerLine
	}
	if sp.After != nil {
		v, err := number(part, "spacing after", *sp.After)
		if err != nil {
			return Spacing{}, err
		}
		out.After = v / twipsPerPoint
	}
	if sp.Before != nil {
		v, err := number(part, "spacing before", *sp.Before)
		if err != nil {
			return Spacing{}, err
		}
		out.Before = v / twipsPerPoint
	}
	return out, nil
}

type sectionXML struct {
	PageSize *struct {
		W *string `xml:"w,attr"`
		H *string `xml:"h,attr"`
	} `xml:"pgSz"`
	PageMargin *struct {
		Top    *string `xml:"top,attr"`
		Right  *string `xml:"right,attr"`
		Bottom *string `xml:"bottom,attr"`
		Left   *string `xml:"left,attr"`
		Header *string `xml:"header,attr"`
		Footer *string `xml:"footer,attr"`
		Gutter *string `xml:"gutter,attr"`
	} `xml:"pgMar"`
}

// apply copies the required page geometry into def.
func (s *sectionXML) apply(def *DefaultStyle) error {
	if s == nil {
		return &domain.FormatError{Part: PartDocument, Err: errors.New("body has no section properties")}
	}
	if s.PageSize == nil {
		return &domain.FormatError{Part: PartDocument, Err: errors.New("section has no page size")}
	}
	if s.PageMargin == nil {
		return &domain.FormatError{Part: PartDocument, Err: errors.New("section has no page margins")}
	}
	fields := []struct {
		name string
		raw  *string
		dst  *float64
	}{
		{"pgSz w", s.PageSize.W, &def.PageWidth},
		{"pgSz h", s.PageSize.H, &def.PageHeight},
		{"pgMar left", s.PageMargin.Left, &def.LeftMargin},
		{"pgMar bottom", s.PageMargin.Bottom, &def.BottomMargin},
		{"pgMar right", s.PageMargin.Right, &def.RightMargin},
		{"pgMar top", s.PageMargin.Top, &def.TopMargin},
		{"pgMar header", s.PageMargin.Header, &def.Header},
		{"pgMar footer", s.PageMargin.Footer, &def.Footer},
		{"pgMar gutter", s.PageMargin.Gutter, &def.Gutter},
	}
	for _, f := range fields {
		if f.raw == nil {
			return &domain.FormatError{Part: PartDocument, Err: fmt.Errorf("missing attribute %s", f.name)}
		}
		v, err := number(PartDocument, f.name, *f.raw)
		if err != nil {
			return err
		}
		*f.dst = v / twipsPerInch
	}
	return nil
}

type fontTableXML struct {
	Fonts []struct {
		Name *string `xml:"name,attr"`
	} `xml:"font"`
}

func readFontTable(data []byte) ([]string, error) {
	var ft fontTableXML
	if err := xml.Unmarshal(data, &ft); err != nil {
		return nil, &domain.FormatError{Part: PartFontTable, Err: err}
	}
	names := make([]string, 0, len(ft.Fonts))
	for i, f := range ft.Fonts {
		if f.Name == nil {
			return nil, &domain.FormatError{Part: PartFontTable, Err: fmt.Errorf("font %d has no name", i)}
		}
		names = append(names, *f.Name)
	}
	return names, nil
}

type appXML struct {
	Words *string `xml:"Words"`
	Pages *string `xml:"Pages"`
}

func readAppProperties(data []byte) (words, pages int, err error) {
	var app appXML
	if err := xml.Unmarshal(data, &app); err != nil {
		return 0, 0, &domain.FormatError{Part: PartApp, Err: err}
	}
	if app.Words == nil || app.Pages == nil {
		return 0, 0, &domain.FormatError{Part: PartApp, Err: errors.New("missing Words or Pages")}
	}
	words, err = strconv.Atoi(strings.TrimSpace(*app.Words))
	if err != nil {
		return 0, 0, &domain.FormatError{Part: PartApp, Err: fmt.Errorf("Words: %w", err)}
	}
	pages, err = strconv.Atoi(strings.TrimSpace(*app.Pages))
	if err != nil {
		return 0, 0, &domain.FormatError{Part: PartApp, Err: fmt.Errorf("Pages: %w", err)}
	}
	return words, pages, nil
}

func number(part, name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &domain.FormatError{Part: part, Err: fmt.Errorf("attribute %s: %w", name, err)}
	}
	return v, nil
}
