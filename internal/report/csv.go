package report

import (
	"encoding/csv"
	"io"

	"iga/internal/domain"
)

// BOM lets Excel on Windows detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter streams submissions as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(Columns)
}

func (w *CSVWriter) WriteSubmissions(subs []domain.Submission) error {
	for i := range subs {
		if err := w.csv.Write(submissionToRow(&subs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered rows and reports any write error.
func (w *CSVWriter) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
