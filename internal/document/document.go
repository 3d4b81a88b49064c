// Package document turns an uploaded essay file into the text and formatting
// facts the grading engine consumes.
package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"

	"iga/internal/document/docx"
	"iga/internal/domain"
)

// Extracted is the readable content of one file. PageCount and WordCount are
// only set when the container records them; Snapshot only for .docx.
type Extracted struct {
	FileType  domain.FileType
	Text      string
	PageCount *int
	WordCount *int
	Snapshot  *docx.Snapshot
}

// Detect determines the real type of data by sniffing magic bytes, falling
// back to the extension of name.
func Detect(name string, data []byte) (domain.FileType, error) {
	switch {
	case isPDF(data):
		return domain.FileTypePDF, nil
	case isZip(data):
		if !hasWordParts(data) {
			return "", fmt.Errorf("zip container without word/ parts: %w", domain.ErrUnsupportedFileType)
		}
		return domain.FileTypeDOCX, nil
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf", ".docx":
		return "", fmt.Errorf("file claims %s but its content does not match: %w", ext, domain.ErrUnsupportedFileType)
	}
	if isProbablyText(data) {
		return domain.FileTypeTXT, nil
	}
	return "", fmt.Errorf("unrecognised content in %s: %w", name, domain.ErrUnsupportedFileType)
}

// Extract detects the type of data and reads it.
func Extract(name string, data []byte) (*Extracted, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file %s: %w", name, domain.ErrEmptyEssay)
	}
	ft, err := Detect(name, data)
	if err != nil {
		return nil, err
	}

	switch ft {
	case domain.FileTypeDOCX:
		snap, err := docx.Parse(data)
		if err != nil {
			return nil, err
		}
		return &Extracted{
			FileType:  ft,
			Text:      snap.Text,
			PageCount: &snap.PageCount,
			WordCount: &snap.WordCount,
			Snapshot:  snap,
		}, nil
	case domain.FileTypePDF:
		text, pages, err := extractPDF(data)
		if err != nil {
			return nil, err
		}
		return &Extracted{FileType: ft, Text: text, PageCount: &pages}, nil
	default:
		return &Extracted{FileType: ft, Text: strings.ReplaceAll(string(data), "\r\n", "\n")}, nil
	}
}

func extractPDF(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, &domain.FormatError{Err: fmt.Errorf("pdf reader: %w", err)}
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", 0, &domain.FormatError{Err: fmt.Errorf("pdf plaintext: %w", err)}
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", 0, &domain.FormatError{Err: fmt.Errorf("pdf read: %w", err)}
	}
	return collapseWhitespace(string(b)), r.NumPage(), nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func hasWordParts(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return true
		}
	}
	return false
}

// isProbablyText accepts valid UTF-8 without NULs where nearly every byte is
// printable or whitespace.
func isProbablyText(b []byte) bool {
	sample := b[:min(len(b), 4096)]
	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}
	if !utf8.Valid(b) {
		return false
	}
	good := 0
	for _, c := range sample {
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
