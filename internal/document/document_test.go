package document_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iga/internal/document"
	"iga/internal/document/docx/docxtest"
	"iga/internal/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     domain.FileType
		wantErr  bool
	}{
		{name: "docx by content", fileName: "essay.bin", data: docxtest.Standard("hi").Bytes(), want: domain.FileTypeDOCX},
		{name: "pdf magic", fileName: "essay", data: []byte("%PDF-1.7\n..."), want: domain.FileTypePDF},
		{name: "plain text", fileName: "essay.txt", data: []byte("An essay about things.\n"), want: domain.FileTypeTXT},
		{name: "claims docx", fileName: "essay.docx", data: []byte("not a zip"), wantErr: true},
		{name: "claims pdf", fileName: "essay.pdf", data: []byte("hello"), wantErr: true},
		{name: "binary", fileName: "blob", data: []byte{0x00, 0x01, 0x02, 0xff}, wantErr: true},
		{name: "invalid utf8 past first 4KB", fileName: "essay.txt", data: append([]byte(strings.Repeat("word ", 1000)), 0xff, 0xfe, 'x'), wantErr: true},
		{name: "multibyte rune across 4KB", fileName: "essay.txt", data: []byte(strings.Repeat("a", 4095) + "é and more"), want: domain.FileTypeTXT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := document.Detect(tt.fileName, tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Docx(t *testing.T) {
	ex, err := document.Extract("essay.docx", docxtest.Standard("First para.", "Second para.").Bytes())
	require.NoError(t, err)

	assert.Equal(t, domain.FileTypeDOCX, ex.FileType)
	assert.Equal(t, "First para.\nSecond para.", ex.Text)
	require.NotNil(t, ex.Snapshot)
	require.NotNil(t, ex.WordCount)
	require.NotNil(t, ex.PageCount)
	assert.Equal(t, 4, *ex.WordCount)
	assert.Equal(t, 1, *ex.PageCount)
}

func TestExtract_Text(t *testing.T) {
	ex, err := document.Extract("essay.txt", []byte("line one\r\nline two"))
	require.NoError(t, err)

	assert.Equal(t, domain.FileTypeTXT, ex.FileType)
	assert.Equal(t, "line one\nline two", ex.Text)
	assert.Nil(t, ex.Snapshot)
	assert.Nil(t, ex.PageCount)
	assert.Nil(t, ex.WordCount)
}

func TestExtract_Empty(t *testing.T) {
	_, err := document.Extract("essay.txt", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyEssay)
}

func TestExtract_BrokenPDF(t *testing.T) {
	_, err := document.Extract("essay.pdf", []byte("%PDF-1.4 truncated"))
	assert.ErrorIs(t, err, domain.ErrFormat)
}
