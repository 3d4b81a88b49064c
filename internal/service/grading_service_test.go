package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"iga/internal/document/docx/docxtest"
	"iga/internal/domain"
	"iga/internal/grading"
	"iga/internal/logger"
	"iga/internal/port"
	"iga/internal/rubric"
	"iga/internal/service"
	"iga/mocks"
)

type gradingFixture struct {
	grader  *mocks.MockGrader
	repo    *mocks.MockSubmissionRepo
	storage *mocks.MockObjectStorage
	email   *mocks.MockEmailSender
	store   *rubric.Store
	svc     service.GradingService
}

func newGradingFixture(t *testing.T) *gradingFixture {
	t.Helper()
	store, err := rubric.NewStore(rubric.Default(), "")
	require.NoError(t, err)

	f := &gradingFixture{
		grader:  new(mocks.MockGrader),
		repo:    new(mocks.MockSubmissionRepo),
		storage: new(mocks.MockObjectStorage),
		email:   new(mocks.MockEmailSender),
		store:   store,
	}
	f.svc = service.NewGradingService(f.grader, store, f.repo, f.storage, f.email,
		service.GradingServiceConfig{Bucket: "essays", MaxFileSizeMB: 1, RetentionDays: 7, PresignExpiry: 900},
		logger.Nop())
	return f
}

func (f *gradingFixture) expectUpload() {
	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "s3://essays/x"}, nil)
}

func TestGradingService_GradeText_Success(t *testing.T) {
	f := newGradingFixture(t)
	f.expectUpload()
	f.grader.On("GradeText", mock.Anything, f.store.Snapshot(), "My essay text.").
		Return(&grading.Result{Grade: 91, Feedback: "Nice.", Debug: "Errors: 0\n"}, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil)
	f.email.On("SendGradedEmail", mock.Anything, mock.MatchedBy(func(m port.GradedEmail) bool {
		return m.ToEmail == "s@example.com" && m.Grade == 91 && m.EssayName == "essay.txt"
	})).Return(nil)

	sub, err := f.svc.GradeText(context.Background(), service.GradeTextInput{
		Text:  "My essay text.",
		Email: " s@example.com ",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SubmissionStatusGraded, sub.Status)
	assert.Equal(t, 91, sub.Grade)
	assert.Equal(t, "Nice.", sub.Feedback)
	assert.Equal(t, "essay", sub.Name)
	assert.Equal(t, domain.FileTypeTXT, sub.FileType)
	assert.Equal(t, "essays", sub.S3Bucket)
	assert.True(t, strings.HasPrefix(sub.S3Key, "submissions/"+sub.ID.String()+"/"))
	assert.Equal(t, sub.CreatedAt.AddDate(0, 0, 7), sub.ExpiresAt)
	require.NotNil(t, sub.GradedAt)
	f.email.AssertExpectations(t)
}

func TestGradingService_GradeText_Empty(t *testing.T) {
	f := newGradingFixture(t)

	_, err := f.svc.GradeText(context.Background(), service.GradeTextInput{Text: "  \n "})
	assert.ErrorIs(t, err, domain.ErrEmptyEssay)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestGradingService_GradeText_NoEmailNoNotification(t *testing.T) {
	f := newGradingFixture(t)
	f.expectUpload()
	f.grader.On("GradeText", mock.Anything, mock.Anything, mock.Anything).Return(&grading.Result{Grade: 80}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.GradeText(context.Background(), service.GradeTextInput{Name: "notes", Text: "text"})
	require.NoError(t, err)
	f.email.AssertNotCalled(t, "SendGradedEmail", mock.Anything, mock.Anything)
}

func TestGradingService_NotificationFailureIsNotReturned(t *testing.T) {
	f := newGradingFixture(t)
	f.expectUpload()
	f.grader.On("GradeText", mock.Anything, mock.Anything, mock.Anything).Return(&grading.Result{Grade: 70}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.email.On("SendGradedEmail", mock.Anything, mock.Anything).Return(errors.New("ses down"))

	sub, err := f.svc.GradeText(context.Background(), service.GradeTextInput{Text: "text", Email: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, 70, sub.Grade)
}

func TestGradingService_GradeUpload_Docx(t *testing.T) {
	f := newGradingFixture(t)
	data := docxtest.Standard("An essay.").Bytes()

	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.ContentType == domain.AllowedFileTypes[domain.FileTypeDOCX] && in.Size == int64(len(data))
	})).Return(&port.UploadOutput{}, nil)
	f.grader.On("GradeFile", mock.Anything, mock.Anything, "paper.docx", data).
		Return(&grading.Result{Grade: 88}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	sub, err := f.svc.GradeUpload(context.Background(), service.GradeUploadInput{
		Filename: "paper.docx",
		Size:     int64(len(data)),
		File:     bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FileTypeDOCX, sub.FileType)
	assert.Equal(t, 88, sub.Grade)
	assert.Equal(t, "paper", sub.Name)
}

func TestGradingService_GradeUpload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		size    int64
		data    []byte
		wantErr error
	}{
		{"bad extension", "essay.exe", 3, []byte("abc"), domain.ErrUnsupportedFileType},
		{"declared too large", "essay.txt", 2 << 20, []byte("abc"), domain.ErrFileTooLarge},
		{"actually too large", "essay.txt", 10, bytes.Repeat([]byte("a"), 1<<20+1), domain.ErrFileTooLarge},
		{"content mismatch", "essay.pdf", 5, []byte("hello"), domain.ErrUnsupportedFileType},
		{"empty", "essay.txt", 0, nil, domain.ErrEmptyEssay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGradingFixture(t)
			_, err := f.svc.GradeUpload(context.Background(), service.GradeUploadInput{
				Filename: tt.file,
				Size:     tt.size,
				File:     bytes.NewReader(tt.data),
			})
			assert.ErrorIs(t, err, tt.wantErr)
			f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestGradingService_GradeUpload_StorageFailure(t *testing.T) {
	f := newGradingFixture(t)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := f.svc.GradeUpload(context.Background(), service.GradeUploadInput{
		Filename: "essay.txt", Size: 4, File: strings.NewReader("text"),
	})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGradingService_FailedGradeIsPersisted(t *testing.T) {
	f := newGradingFixture(t)
	f.expectUpload()
	gradeErr := &domain.FormatError{Part: "word/styles.xml", Err: errors.New("missing")}
	f.grader.On("GradeFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, gradeErr)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Submission) bool {
		return s.Status == domain.SubmissionStatusFailed && strings.Contains(s.Error, "word/styles.xml")
	})).Return(nil)

	sub, err := f.svc.GradeUpload(context.Background(), service.GradeUploadInput{
		Filename: "essay.txt", Size: 4, File: strings.NewReader("text"), Email: "a@b.c",
	})
	assert.ErrorIs(t, err, domain.ErrFormat)
	require.NotNil(t, sub)
	assert.Equal(t, domain.SubmissionStatusFailed, sub.Status)
	f.repo.AssertExpectations(t)
	f.email.AssertNotCalled(t, "SendGradedEmail", mock.Anything, mock.Anything)
}

func TestGradingService_Regrade(t *testing.T) {
	f := newGradingFixture(t)
	id := uuid.New()
	stored := &domain.Submission{
		ID: id, OriginalName: "essay.txt", S3Bucket: "essays", S3Key: "submissions/x/essay.txt",
		Status: domain.SubmissionStatusGraded, Grade: 60,
	}
	f.repo.On("GetByID", mock.Anything, id).Return(stored, nil)
	f.storage.On("Download", mock.Anything, "essays", "submissions/x/essay.txt").Return([]byte("text"), nil)
	f.grader.On("GradeFile", mock.Anything, mock.Anything, "essay.txt", []byte("text")).
		Return(&grading.Result{Grade: 75, Feedback: "Better."}, nil)
	f.repo.On("UpdateResult", mock.Anything, stored).Return(nil)

	sub, err := f.svc.Regrade(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 75, sub.Grade)
	assert.Equal(t, "Better.", sub.Feedback)
}

func TestGradingService_GradeText_ForeignExtensionStoredAsText(t *testing.T) {
	f := newGradingFixture(t)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasSuffix(in.Key, "/report.txt")
	})).Return(&port.UploadOutput{Location: "s3://essays/x"}, nil)
	f.grader.On("GradeText", mock.Anything, mock.Anything, "plain words").Return(&grading.Result{Grade: 88}, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil)

	sub, err := f.svc.GradeText(context.Background(), service.GradeTextInput{Name: "report.pdf", Text: "plain words"})
	require.NoError(t, err)
	assert.Equal(t, "report.txt", sub.OriginalName)
	assert.Equal(t, "report", sub.Name)
	assert.True(t, strings.HasSuffix(sub.S3Key, "/report.txt"))
	f.storage.AssertExpectations(t)
}

func TestGradingService_Regrade_TextSubmissionUsesTextPath(t *testing.T) {
	f := newGradingFixture(t)
	id := uuid.New()
	stored := &domain.Submission{
		ID: id, OriginalName: "report.pdf", FileType: domain.FileTypeTXT,
		S3Bucket: "essays", S3Key: "submissions/x/report.pdf", Status: domain.SubmissionStatusGraded,
	}
	f.repo.On("GetByID", mock.Anything, id).Return(stored, nil)
	f.storage.On("Download", mock.Anything, "essays", "submissions/x/report.pdf").Return([]byte("plain words"), nil)
	f.grader.On("GradeText", mock.Anything, mock.Anything, "plain words").Return(&grading.Result{Grade: 82}, nil)
	f.repo.On("UpdateResult", mock.Anything, stored).Return(nil)

	sub, err := f.svc.Regrade(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 82, sub.Grade)
	assert.Equal(t, domain.SubmissionStatusGraded, sub.Status)
	f.grader.AssertNotCalled(t, "GradeFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGradingService_Regrade_NotFound(t *testing.T) {
	f := newGradingFixture(t)
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Regrade(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGradingService_GetDownloadURL(t *testing.T) {
	f := newGradingFixture(t)
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(&domain.Submission{ID: id, S3Bucket: "essays", S3Key: "k"}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "essays", "k", int64(900)).Return("https://signed", nil)

	url, err := f.svc.GetDownloadURL(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
}
