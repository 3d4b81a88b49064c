package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"iga/internal/domain"
	"iga/internal/port"
)

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a new PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx, `INSERT INTO submissions (
		id, name, original_name, file_type, file_size,
		s3_bucket, s3_key, email, status, grade,
		feedback, debug, error, created_at, graded_at, expires_at
	) VALUES (
		:id, :name, :original_name, :file_type, :file_size,
		:s3_bucket, :s3_key, :email, :status, :grade,
		:feedback, :debug, :error, :created_at, :graded_at, :expires_at
	)`, sub)
	if err != nil {
		return fmt.Errorf("submissionRepo.Create: %w", err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var sub domain.Submission
	err := r.db.GetContext(ctx, &sub, "SELECT * FROM submissions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionRepo.GetByID: %w", err)
	}
	return &sub, nil
}

func (r *submissionRepo) List(ctx context.Context, offset, limit int) ([]domain.Submission, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM submissions"); err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.List count: %w", err)
	}

	var subs []domain.Submission
	err := r.db.SelectContext(ctx, &subs,
		`SELECT * FROM submissions ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.List: %w", err)
	}
	return subs, total, nil
}

func (r *submissionRepo) ListByEmail(ctx context.Context, email string, offset, limit int) ([]domain.Submission, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM submissions WHERE lower(email) = lower($1)", email)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByEmail count: %w", err)
	}

	var subs []domain.Submission
	err = r.db.SelectContext(ctx, &subs,
		`SELECT * FROM submissions WHERE lower(email) = lower($1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		email, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByEmail: %w", err)
	}
	return subs, total, nil
}

func (r *submissionRepo) UpdateResult(ctx context.Context, sub *domain.Submission) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET
			status = $1, grade = $2, feedback = $3, debug = $4,
			error = $5, graded_at = $6
		 WHERE id = $7`,
		sub.Status, sub.Grade, sub.Feedback, sub.Debug,
		sub.Error, sub.GradedAt, sub.ID)
	if err != nil {
		return fmt.Errorf("submissionRepo.UpdateResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *submissionRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.Submission, error) {
	var subs []domain.Submission
	err := r.db.SelectContext(ctx, &subs,
		`SELECT * FROM submissions WHERE expires_at <= $1
		 ORDER BY expires_at LIMIT $2`,
		now, limit)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.ListExpired: %w", err)
	}
	return subs, nil
}

func (r *submissionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM submissions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("submissionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
