package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"iga/internal/domain"
)

// SheetName is the worksheet holding exported grades.
const SheetName = "Grades"

// XLSXWriter buffers submissions into a single-sheet workbook.
type XLSXWriter struct {
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

func NewXLSXWriter() (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating stream writer: %w", err)
	}
	return &XLSXWriter{file: f, sw: sw, row: 1}, nil
}

func (w *XLSXWriter) WriteHeader() error {
	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	cells := make([]any, len(Columns))
	for i, c := range Columns {
		cells[i] = excelize.Cell{StyleID: style, Value: c}
	}
	return w.writeRow(cells)
}

func (w *XLSXWriter) WriteSubmissions(subs []domain.Submission) error {
	for i := range subs {
		row := submissionToRow(&subs[i])
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		// Grade is numeric so spreadsheets can sort and average it.
		if g, err := strconv.Atoi(row[5]); err == nil {
			cells[5] = g
		}
		if err := w.writeRow(cells); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) writeRow(cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.sw.SetRow(cell, cells); err != nil {
		return fmt.Errorf("writing row %d: %w", w.row, err)
	}
	w.row++
	return nil
}

// WriteTo flushes the sheet and writes the workbook to out.
func (w *XLSXWriter) WriteTo(out io.Writer) (int64, error) {
	defer func() { _ = w.file.Close() }()
	if err := w.sw.Flush(); err != nil {
		return 0, fmt.Errorf("flushing sheet: %w", err)
	}
	return w.file.WriteTo(out)
}
