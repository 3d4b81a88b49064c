package docx_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iga/internal/document/docx"
	"iga/internal/document/docx/docxtest"
	"iga/internal/domain"
)

func TestParse_StandardDocument(t *testing.T) {
	doc := docxtest.Standard("The first paragraph.", "The second one here.")

	snap, err := docx.Parse(doc.Bytes())
	require.NoError(t, err)

	assert.Equal(t, docx.DefaultStyle{
		Font:         "Times New Roman",
		Size:         12,
		LineSpacing:  2,
		PageWidth:    8.5,
		PageHeight:   11,
		LeftMargin:   1,
		BottomMargin: 1,
		RightMargin:  1,
		TopMargin:    1,
	}, snap.Default)
	assert.Equal(t, []docx.FontUsage{{Font: "Times New Roman", Size: 12}}, snap.Fonts)
	assert.Equal(t, []docx.Spacing{{Line: 2}}, snap.Spacings)
	assert.Equal(t, []string{"Times New Roman", "Calibri"}, snap.FontTable)
	assert.Equal(t, "[Times New Roman, Calibri]", snap.FontTableString())
	assert.Equal(t, 1.0, snap.Indentation)
	assert.Equal(t, 0.0, snap.Margin)
	assert.Equal(t, 7, snap.WordCount)
	assert.Equal(t, 1, snap.PageCount)
	assert.Equal(t, 2, snap.Paragraphs)
	assert.Equal(t, "The first paragraph.\nThe second one here.", snap.Text)
}

func TestParse_IndentationAverage(t *testing.T) {
	doc := docxtest.Standard("one", "two", "three")
	doc.Paragraphs[2].FirstLine = docxtest.Int(0)

	snap, err := docx.Parse(doc.Bytes())
	require.NoError(t, err)
	assert.InDelta(t, 0.667, snap.Indentation, 0.001)
}

func TestParse_NonCanonicalIndentGetsHalfCredit(t *testing.T) {
	doc := docxtest.Standard("one", "two")
	doc.Paragraphs[0].FirstLine = docxtest.Int(360)
	doc.Paragraphs[1].FirstLine = nil

	snap, err := docx.Parse(doc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0.25, snap.Indentation)
}

func TestParse_Margin(t *testing.T) {
	doc := docxtest.Standard("one", "two")
	doc.Paragraphs[0].Left = docxtest.Int(720)
	doc.Paragraphs[0].Right = docxtest.Int(720)
	doc.Paragraphs[1].Left = docxtest.Int(0)

	snap, err := docx.Parse(doc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap.Margin)
}

func TestParse_FontsDeduplicatedInFirstUseOrder(t *testing.T) {
	doc := docxtest.Standard()
	doc.Paragraphs = []docxtest.Paragraph{
		{Runs: []docxtest.Run{{Text: "a"}, {Text: "b", Font: "Arial"}}},
		{Runs: []docxtest.Run{{Text: "c", Font: "Arial"}, {Text: "d", Size: 28}, {Text: "e"}}},
	}

	snap, err := docx.Parse(doc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []docx.FontUsage{
		{Font: "Times New Roman", Size: 12},
		{Font: "Arial", Size: 12},
		{Font: "Times New Roman", Size: 14},
	}, snap.Fonts)
	assert.Equal(t, "ab\ncde", snap.Text)
}

func TestParse_ParagraphSpacingOverridesDefaults(t *testing.T) {
	doc := docxtest.Standard("one", "two", "three")
	doc.Paragraphs[1].Line = docxtest.Int(240)
	doc.Paragraphs[2].After = docxtest.Int(160)
	doc.Paragraphs[2].Before = docxtest.Int(40)

	snap, err := docx.Parse(doc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []docx.Spacing{
		{Line: 2},
		{Line: 1},
		{Line: 2, After: 8, Before: 2},
	}, snap.Spacings)
}

func TestParse_MissingDocDefaultsUseFallbacks(t *testing.T) {
	doc := docxtest.Standard("text")
	doc.NoDocDefaults = true

	snap, err := docx.Parse(doc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, docx.FallbackFont, snap.Default.Font)
	assert.Equal(t, docx.FallbackSize, snap.Default.Size)
	assert.Equal(t, docx.FallbackLineSpacing, snap.Default.LineSpacing)
	assert.Equal(t, 0.0, snap.Default.AfterSpacing)
	assert.Equal(t, []docx.Spacing{{Line: 1}}, snap.Spacings)
}

func TestParse_EmptyBody(t *testing.T) {
	doc := docxtest.Standard()

	snap, err := docx.Parse(doc.Bytes())
	require.NoError(t, err)
	assert.Empty(t, snap.Fonts)
	assert.Equal(t, 0.0, snap.Indentation)
	assert.Equal(t, "", snap.Text)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data func() []byte
		part string
	}{
		{
			name: "not a zip",
			data: func() []byte { return []byte("plain text, not a package") },
		},
		{
			name: "missing styles part",
			data: func() []byte {
				d := docxtest.Standard("x")
				d.Omit = []string{docx.PartStyles}
				return d.Bytes()
			},
			part: docx.PartStyles,
		},
		{
			name: "missing app part",
			data: func() []byte {
				d := docxtest.Standard("x")
				d.Omit = []string{docx.PartApp}
				return d.Bytes()
			},
			part: docx.PartApp,
		},
		{
			name: "missing section properties",
			data: func() []byte {
				d := docxtest.Standard("x")
				d.NoSection = true
				return d.Bytes()
			},
			part: docx.PartDocument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := docx.Parse(tt.data())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrFormat)

			var fe *domain.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.part, fe.Part)
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := docx.Open(filepath.Join(t.TempDir(), "absent.docx"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDefaultStyle_String(t *testing.T) {
	s := docx.DefaultStyle{Font: "Arial", Size: 11, LineSpacing: 1.15, PageWidth: 8.5}
	assert.Equal(t,
		"{font: Arial, size: 11, line_spacing: 1.15, after_spacing: 0, before_spacing: 0, "+
			"page_width: 8.5, page_height: 0, left_margin: 0, bottom_margin: 0, right_margin: 0, "+
			"top_margin: 0, header: 0, footer: 0, gutter: 0}",
		s.String())
}
