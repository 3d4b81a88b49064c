// Package docxtest builds small .docx packages in memory for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Run is a text run. Zero Font or Size inherit the document defaults; Size is
// in half-points.
type Run struct {
	Text string
	Font string
	Size int
}

// Paragraph is a body paragraph. Nil indent or spacing fields are omitted.
type Paragraph struct {
	Runs      []Run
	FirstLine *int
	Left      *int
	Right     *int
	Line      *int
	After     *int
	Before    *int
}

// Doc describes a package. Dimensions are in twips, sizes in half-points.
type Doc struct {
	Paragraphs []Paragraph

	DefaultFont string
	DefaultSize int
	DefaultLine int
	// NoDocDefaults omits the docDefaults element from styles.xml.
	NoDocDefaults bool

	PageWidth, PageHeight                                  int
	Left, Right, Top, Bottom, Header, Footer, GutterMargin int
	// NoSection omits the body-level sectPr.
	NoSection bool

	FontTable []string
	Words     int
	Pages     int

	// Omit lists part names to leave out of the package.
	Omit []string
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Standard returns a Letter-sized, one-inch-margin, double-spaced 12pt Times
// New Roman document with one indented paragraph per text.
func Standard(texts ...string) Doc {
	d := Doc{
		DefaultFont: "Times New Roman",
		DefaultSize: 24,
		DefaultLine: 480,
		PageWidth:   12240, PageHeight: 15840,
		Left: 1440, Right: 1440, Top: 1440, Bottom: 1440,
		FontTable: []string{"Times New Roman", "Calibri"},
		Pages:     1,
	}
	for _, t := range texts {
		d.Paragraphs = append(d.Paragraphs, Paragraph{
			Runs:      []Run{{Text: t}},
			FirstLine: Int(720),
		})
		d.Words += len(strings.Fields(t))
	}
	return d
}

// Bytes renders the package.
func (d Doc) Bytes() []byte {
	parts := map[string]string{
		"word/document.xml":  d.document(),
		"word/styles.xml":    d.styles(),
		"word/fontTable.xml": d.fontTable(),
		"docProps/app.xml":   d.app(),
	}
	omit := map[string]bool{}
	for _, o := range d.Omit {
		omit[o] = true
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"word/document.xml", "word/styles.xml", "word/fontTable.xml", "docProps/app.xml"} {
		if omit[name] {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (d Doc) document() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s"><w:body>`, wordNS)
	for _, p := range d.Paragraphs {
		b.WriteString("<w:p>")
		var ppr strings.Builder
		if p.Line != nil || p.After != nil || p.Before != nil {
			ppr.WriteString("<w:spacing")
			writeAttr(&ppr, "line", p.Line)
			writeAttr(&ppr, "after", p.After)
			writeAttr(&ppr, "before", p.Before)
			ppr.WriteString("/>")
		}
		if p.FirstLine != nil || p.Left != nil || p.Right != nil {
			ppr.WriteString("<w:ind")
			writeAttr(&ppr, "left", p.Left)
			writeAttr(&ppr, "right", p.Right)
			writeAttr(&ppr, "firstLine", p.FirstLine)
			ppr.WriteString("/>")
		}
		if ppr.Len() > 0 {
			b.WriteString("<w:pPr>" + ppr.String() + "</w:pPr>")
		}
		for _, r := range p.Runs {
			b.WriteString("<w:r>")
			if r.Font != "" || r.Size != 0 {
				b.WriteString("<w:rPr>")
				if r.Font != "" {
					fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, html.EscapeString(r.Font), html.EscapeString(r.Font))
				}
				if r.Size != 0 {
					fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, r.Size)
				}
				b.WriteString("</w:rPr>")
			}
			fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t>`, html.EscapeString(r.Text))
			b.WriteString("</w:r>")
		}
		b.WriteString("</w:p>")
	}
	if !d.NoSection {
		fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, d.PageWidth, d.PageHeight)
		fmt.Fprintf(&b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="%d"/>`,
			d.Top, d.Right, d.Bottom, d.Left, d.Header, d.Footer, d.GutterMargin)
		b.WriteString("</w:sectPr>")
	}
	b.WriteString("</w:body></w:document>")
	return b.String()
}

func (d Doc) styles() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?><w:styles xmlns:w="%s">`, wordNS)
	if !d.NoDocDefaults {
		b.WriteString("<w:docDefaults><w:rPrDefault><w:rPr>")
		if d.DefaultFont != "" {
			fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, html.EscapeString(d.DefaultFont), html.EscapeString(d.DefaultFont))
		}
		if d.DefaultSize != 0 {
			fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, d.DefaultSize)
		}
		b.WriteString("</w:rPr></w:rPrDefault><w:pPrDefault><w:pPr>")
		if d.DefaultLine != 0 {
			fmt.Fprintf(&b, `<w:spacing w:after="0" w:line="%d" w:lineRule="auto"/>`, d.DefaultLine)
		}
		b.WriteString("</w:pPr></w:pPrDefault></w:docDefaults>")
	}
	b.WriteString("</w:styles>")
	return b.String()
}

func (d Doc) fontTable() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?><w:fonts xmlns:w="%s">`, wordNS)
	for _, f := range d.FontTable {
		fmt.Fprintf(&b, `<w:font w:name="%s"/>`, html.EscapeString(f))
	}
	b.WriteString("</w:fonts>")
	return b.String()
}

func (d Doc) app() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>`+
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">`+
		`<Pages>%d</Pages><Words>%d</Words></Properties>`, d.Pages, d.Words)
}

func writeAttr(b *strings.Builder, name string, v *int) {
	if v != nil {
		fmt.Fprintf(b, ` w:%s="%d"`, name, *v)
	}
}
