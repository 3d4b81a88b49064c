package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"iga/internal/domain"
	"iga/internal/grading"
	"iga/internal/rubric"
	"iga/internal/service"
)

// MockGrader is a mock implementation of service.Grader.
type MockGrader struct {
	mock.Mock
}

func (m *MockGrader) GradeText(ctx context.Context, cfg *rubric.Config, text string) (*grading.Result, error) {
	args := m.Called(ctx, cfg, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.Result), args.Error(1)
}

func (m *MockGrader) GradeFile(ctx context.Context, cfg *rubric.Config, name string, data []byte) (*grading.Result, error) {
	args := m.Called(ctx, cfg, name, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.Result), args.Error(1)
}

// MockGradingService is a mock implementation of service.GradingService.
type MockGradingService struct {
	mock.Mock
}

func (m *MockGradingService) GradeText(ctx context.Context, input service.GradeTextInput) (*domain.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockGradingService) GradeUpload(ctx context.Context, input service.GradeUploadInput) (*domain.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockGradingService) Regrade(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockGradingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockGradingService) List(ctx context.Context, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockGradingService) ListByEmail(ctx context.Context, email string, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, email, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockGradingService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// MockConfigService is a mock implementation of service.ConfigService.
type MockConfigService struct {
	mock.Mock
}

func (m *MockConfigService) Rubric() rubric.Rubric {
	return m.Called().Get(0).(rubric.Rubric)
}

func (m *MockConfigService) Weights() rubric.Weights {
	return m.Called().Get(0).(rubric.Weights)
}

func (m *MockConfigService) Style() rubric.Style {
	return m.Called().Get(0).(rubric.Style)
}

func (m *MockConfigService) UpdateRubric(in map[string]any) (rubric.Rubric, error) {
	args := m.Called(in)
	return args.Get(0).(rubric.Rubric), args.Error(1)
}

func (m *MockConfigService) UpdateWeights(in map[string]any) (rubric.Weights, error) {
	args := m.Called(in)
	return args.Get(0).(rubric.Weights), args.Error(1)
}

func (m *MockConfigService) UpdateStyle(in map[string]any, persist bool) (rubric.Style, error) {
	args := m.Called(in, persist)
	return args.Get(0).(rubric.Style), args.Error(1)
}

func (m *MockConfigService) Keywords() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockConfigService) AddKeyword(word string) error {
	return m.Called(word).Error(0)
}

func (m *MockConfigService) RemoveKeyword(word string) error {
	return m.Called(word).Error(0)
}

func (m *MockConfigService) ClearKeywords() error {
	return m.Called().Error(0)
}

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ExportXLSX(ctx context.Context, w io.Writer, email string) error {
	return m.Called(ctx, w, email).Error(0)
}

func (m *MockReportService) ExportCSV(ctx context.Context, w io.Writer, email string) error {
	return m.Called(ctx, w, email).Error(0)
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) IssueToken(subject string, role domain.UserRole, ttl time.Duration) (string, error) {
	args := m.Called(subject, role, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}
