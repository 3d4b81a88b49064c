package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"iga/internal/document"
	"iga/internal/domain"
	"iga/internal/grading"
	"iga/internal/logger"
	"iga/internal/port"
	"iga/internal/rubric"
)

// Grader is the grading engine as the service sees it.
type Grader interface {
	GradeText(ctx context.Context, cfg *rubric.Config, text string) (*grading.Result, error)
	GradeFile(ctx context.Context, cfg *rubric.Config, name string, data []byte) (*grading.Result, error)
}

// ConfigSource hands out the grading configuration current at call time.
type ConfigSource interface {
	Snapshot() *rubric.Config
}

// GradeTextInput is the DTO for grading pasted essay text.
type GradeTextInput struct {
	Name  string
	Text  string
	Email string
}

// GradeUploadInput is the DTO for grading an uploaded essay file.
type GradeUploadInput struct {
	Filename string
	Size     int64
	File     io.Reader
	Email    string
}

// GradingServiceConfig holds storage and retention settings for submissions.
type GradingServiceConfig struct {
	Bucket        string
	MaxFileSizeMB int64
	RetentionDays int
	PresignExpiry int64
}

// GradingService grades essays and records every attempt as a submission.
type GradingService interface {
	GradeText(ctx context.Context, input GradeTextInput) (*domain.Submission, error)
	GradeUpload(ctx context.Context, input GradeUploadInput) (*domain.Submission, error)
	Regrade(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	List(ctx context.Context, offset, limit int) ([]domain.Submission, int, error)
	ListByEmail(ctx context.Context, email string, offset, limit int) ([]domain.Submission, int, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
}

type gradingService struct {
	grader  Grader
	configs ConfigSource
	subRepo port.SubmissionRepository
	storage port.ObjectStorage
	email   port.EmailSender
	cfg     GradingServiceConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewGradingService creates a new GradingService implementation. email may be
// nil, in which case no notifications are sent.
func NewGradingService(
	grader Grader,
	configs ConfigSource,
	subRepo port.SubmissionRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	cfg GradingServiceConfig,
	log *logger.Logger,
) GradingService {
	return &gradingService{
		grader:  grader,
		configs: configs,
		subRepo: subRepo,
		storage: storage,
		email:   email,
		cfg:     cfg,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *gradingService) GradeText(ctx context.Context, input GradeTextInput) (*domain.Submission, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.ErrEmptyEssay
	}
	name := input.Name
	if name == "" {
		name = "essay.txt"
	}
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".txt"
	data := []byte(input.Text)
	if s.tooLarge(int64(len(data))) {
		return nil, domain.ErrFileTooLarge
	}

	sub := s.newSubmission(name, domain.FileTypeTXT, int64(len(data)), input.Email)
	if err := s.store(ctx, sub, data); err != nil {
		return nil, err
	}

	s.log.Info("gradingService.GradeText: grading submission", "submission_id", sub.ID, "bytes", len(data))
	res, err := s.grader.GradeText(ctx, s.configs.Snapshot(), input.Text)
	return s.finish(ctx, sub, res, err)
}

func (s *gradingService) GradeUpload(ctx context.Context, input GradeUploadInput) (*domain.Submission, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Filename), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if s.tooLarge(input.Size) {
		return nil, domain.ErrFileTooLarge
	}

	r := input.File
	if s.cfg.MaxFileSizeMB > 0 {
		r = io.LimitReader(r, s.maxBytes()+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if s.tooLarge(int64(len(data))) {
		return nil, domain.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyEssay
	}

	fileType, err := document.Detect(input.Filename, data)
	if err != nil {
		return nil, err
	}

	sub := s.newSubmission(filepath.Base(input.Filename), fileType, int64(len(data)), input.Email)
	if err := s.store(ctx, sub, data); err != nil {
		return nil, err
	}

	s.log.Info("gradingService.GradeUpload: grading submission",
		"submission_id", sub.ID, "file_type", fileType, "bytes", len(data))
	res, err := s.grader.GradeFile(ctx, s.configs.Snapshot(), sub.OriginalName, data)
	return s.finish(ctx, sub, res, err)
}

// Regrade grades a stored submission again against the current configuration.
func (s *gradingService) Regrade(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(ctx, sub.S3Bucket, sub.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading submission %s: %w", id, err)
	}

	cfg := s.configs.Snapshot()
	var res *grading.Result
	var gradeErr error
	if sub.FileType == domain.FileTypeTXT {
		res, gradeErr = s.grader.GradeText(ctx, cfg, string(data))
	} else {
		res, gradeErr = s.grader.GradeFile(ctx, cfg, sub.OriginalName, data)
	}
	applyResult(sub, res, gradeErr, s.now())
	if err := s.subRepo.UpdateResult(ctx, sub); err != nil {
		return nil, fmt.Errorf("updating submission result: %w", err)
	}
	if gradeErr != nil {
		return sub, gradeErr
	}
	s.log.Info("gradingService.Regrade: regraded submission", "submission_id", sub.ID, "grade", sub.Grade)
	return sub, nil
}

func (s *gradingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return s.subRepo.GetByID(ctx, id)
}

func (s *gradingService) List(ctx context.Context, offset, limit int) ([]domain.Submission, int, error) {
	return s.subRepo.List(ctx, offset, limit)
}

func (s *gradingService) ListByEmail(ctx context.Context, email string, offset, limit int) ([]domain.Submission, int, error) {
	return s.subRepo.ListByEmail(ctx, email, offset, limit)
}

func (s *gradingService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, sub.S3Bucket, sub.S3Key, s.cfg.PresignExpiry)
}

func (s *gradingService) newSubmission(name string, fileType domain.FileType, size int64, email string) *domain.Submission {
	id := uuid.New()
	now := s.now()
	return &domain.Submission{
		ID:           id,
		Name:         strings.TrimSuffix(name, filepath.Ext(name)),
		OriginalName: name,
		FileType:     fileType,
		FileSize:     size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        fmt.Sprintf("submissions/%s/%s", id, name),
		Email:        strings.TrimSpace(email),
		CreatedAt:    now,
		ExpiresAt:    now.AddDate(0, 0, s.cfg.RetentionDays),
	}
}

func (s *gradingService) store(ctx context.Context, sub *domain.Submission, data []byte) error {
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      sub.S3Bucket,
		Key:         sub.S3Key,
		Body:        bytes.NewReader(data),
		ContentType: domain.AllowedFileTypes[sub.FileType],
		Size:        int64(len(data)),
	})
	if err != nil {
		s.log.Error("gradingService.store: upload failed", "submission_id", sub.ID, "error", err)
		if errors.Is(err, domain.ErrUploadFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return nil
}

// finish persists the outcome of a grading attempt. A failed attempt is still
// recorded, and the grading error is returned to the caller.
func (s *gradingService) finish(ctx context.Context, sub *domain.Submission, res *grading.Result, gradeErr error) (*domain.Submission, error) {
	applyResult(sub, res, gradeErr, s.now())
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("creating submission: %w", err)
	}
	if gradeErr != nil {
		s.log.Warn("gradingService.finish: grading failed", "submission_id", sub.ID, "error", gradeErr)
		return sub, gradeErr
	}

	s.log.Info("gradingService.finish: graded submission", "submission_id", sub.ID, "grade", sub.Grade)
	s.notify(ctx, sub)
	return sub, nil
}

func (s *gradingService) notify(ctx context.Context, sub *domain.Submission) {
	if sub.Email == "" || s.email == nil {
		return
	}
	err := s.email.SendGradedEmail(ctx, port.GradedEmail{
		ToEmail:      sub.Email,
		EssayName:    sub.OriginalName,
		SubmissionID: sub.ID,
		Grade:        sub.Grade,
	})
	if err != nil {
		s.log.Warn("gradingService.notify: sending graded email failed",
			"submission_id", sub.ID, "email", sub.Email, "error", err)
	}
}

func (s *gradingService) maxBytes() int64 {
	return s.cfg.MaxFileSizeMB * 1024 * 1024
}

func (s *gradingService) tooLarge(n int64) bool {
	return s.cfg.MaxFileSizeMB > 0 && n > s.maxBytes()
}

func applyResult(sub *domain.Submission, res *grading.Result, gradeErr error, now time.Time) {
	sub.GradedAt = &now
	if gradeErr != nil {
		sub.Status = domain.SubmissionStatusFailed
		sub.Error = gradeErr.Error()
		sub.Grade = 0
		sub.Feedback = ""
		sub.Debug = ""
		return
	}
	sub.Status = domain.SubmissionStatusGraded
	sub.Error = ""
	sub.Grade = res.Grade
	sub.Feedback = res.Feedback
	sub.Debug = res.Debug
}
