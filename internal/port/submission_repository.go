package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"iga/internal/domain"
)

// SubmissionRepository defines the contract for graded essay persistence.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	List(ctx context.Context, offset, limit int) ([]domain.Submission, int, error)
	ListByEmail(ctx context.Context, email string, offset, limit int) ([]domain.Submission, int, error)
	UpdateResult(ctx context.Context, sub *domain.Submission) error
	ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
