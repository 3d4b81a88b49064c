package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"iga/internal/domain"
	"iga/internal/report"
	"iga/internal/service"
	"iga/mocks"
)

func gradedSubmissions(n int) []domain.Submission {
	subs := make([]domain.Submission, n)
	for i := range subs {
		subs[i] = domain.Submission{
			ID:        uuid.New(),
			Name:      "essay",
			FileType:  domain.FileTypeTXT,
			Status:    domain.SubmissionStatusGraded,
			Grade:     90,
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return subs
}

func TestReportService_ExportXLSX_ByEmail(t *testing.T) {
	repo := new(mocks.MockSubmissionRepo)
	repo.On("ListByEmail", mock.Anything, "s@example.com", 0, 500).Return(gradedSubmissions(2), 2, nil)
	svc := service.NewReportService(repo)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(context.Background(), &buf, "s@example.com"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_ExportCSV_Pages(t *testing.T) {
	repo := new(mocks.MockSubmissionRepo)
	repo.On("List", mock.Anything, 0, 500).Return(gradedSubmissions(500), 501, nil)
	repo.On("List", mock.Anything, 500, 500).Return(gradedSubmissions(1), 501, nil)
	svc := service.NewReportService(repo)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, ""))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), report.BOM))
	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 502, lines)
	repo.AssertExpectations(t)
}

func TestReportService_ExportCSV_RepoError(t *testing.T) {
	repo := new(mocks.MockSubmissionRepo)
	repo.On("List", mock.Anything, 0, 500).Return(nil, 0, errors.New("db down"))
	svc := service.NewReportService(repo)

	var buf bytes.Buffer
	assert.Error(t, svc.ExportCSV(context.Background(), &buf, ""))
}
