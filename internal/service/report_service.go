package service

import (
	"context"
	"fmt"
	"io"

	"iga/internal/domain"
	"iga/internal/port"
	"iga/internal/report"
)

// exportBatchSize is how many submissions are fetched per repository call.
const exportBatchSize = 500

// ReportService exports graded submissions as spreadsheets.
type ReportService interface {
	ExportXLSX(ctx context.Context, w io.Writer, email string) error
	ExportCSV(ctx context.Context, w io.Writer, email string) error
}

type rowWriter interface {
	WriteHeader() error
	WriteSubmissions(subs []domain.Submission) error
}

type reportService struct {
	subRepo port.SubmissionRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(subRepo port.SubmissionRepository) ReportService {
	return &reportService{subRepo: subRepo}
}

// ExportXLSX writes a Grades workbook. An empty email exports every
// submission.
func (s *reportService) ExportXLSX(ctx context.Context, w io.Writer, email string) error {
	xw, err := report.NewXLSXWriter()
	if err != nil {
		return err
	}
	if err := s.export(ctx, xw, email); err != nil {
		return err
	}
	if _, err := xw.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// ExportCSV writes a UTF-8 CSV with a leading byte-order mark.
func (s *reportService) ExportCSV(ctx context.Context, w io.Writer, email string) error {
	if _, err := w.Write(report.BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := report.NewCSVWriter(w)
	if err := s.export(ctx, cw, email); err != nil {
		return err
	}
	return cw.Flush()
}

func (s *reportService) export(ctx context.Context, w rowWriter, email string) error {
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for offset := 0; ; offset += exportBatchSize {
		var (
			subs  []domain.Submission
			total int
			err   error
		)
		if email != "" {
			subs, total, err = s.subRepo.ListByEmail(ctx, email, offset, exportBatchSize)
		} else {
			subs, total, err = s.subRepo.List(ctx, offset, exportBatchSize)
		}
		if err != nil {
			return fmt.Errorf("listing submissions: %w", err)
		}
		if err := w.WriteSubmissions(subs); err != nil {
			return fmt.Errorf("writing rows: %w", err)
		}
		if len(subs) < exportBatchSize || offset+len(subs) >= total {
			return nil
		}
	}
}
