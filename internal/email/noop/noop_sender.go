package noop

import (
	"context"
	"fmt"

	"iga/internal/logger"
	"iga/internal/port"
)

type noopSender struct {
	frontendURL string
	log         *logger.Logger
}

// NewNoopSender creates an EmailSender that only logs the results link.
func NewNoopSender(frontendURL string, log *logger.Logger) port.EmailSender {
	return &noopSender{frontendURL: frontendURL, log: log}
}

func (s *noopSender) SendGradedEmail(_ context.Context, msg port.GradedEmail) error {
	s.log.Info("noopSender.SendGradedEmail: graded essay notification",
		"email", msg.ToEmail,
		"essay", msg.EssayName,
		"grade", msg.Grade,
		"url", fmt.Sprintf("%s/results/%s", s.frontendURL, msg.SubmissionID))
	return nil
}
