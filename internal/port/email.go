package port

import (
	"context"

	"github.com/google/uuid"
)

// GradedEmail carries what the results notification needs.
type GradedEmail struct {
	ToEmail      string
	EssayName    string
	SubmissionID uuid.UUID
	Grade        int
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendGradedEmail(ctx context.Context, msg GradedEmail) error
}
