package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a graded (or failed) essay along with its stored upload.
type Submission struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	Name         string           `db:"name" json:"name"`
	OriginalName string           `db:"original_name" json:"original_name"`
	FileType     FileType         `db:"file_type" json:"file_type"`
	FileSize     int64            `db:"file_size" json:"file_size"`
	S3Bucket     string           `db:"s3_bucket" json:"-"`
	S3Key        string           `db:"s3_key" json:"-"`
	Email        string           `db:"email" json:"email,omitempty"`
	Status       SubmissionStatus `db:"status" json:"status"`
	Grade        int              `db:"grade" json:"grade"`
	Feedback     string           `db:"feedback" json:"feedback"`
	Debug        string           `db:"debug" json:"debug,omitempty"`
	Error        string           `db:"error" json:"error,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	GradedAt     *time.Time       `db:"graded_at" json:"graded_at,omitempty"`
	ExpiresAt    time.Time        `db:"expires_at" json:"expires_at"`
}
