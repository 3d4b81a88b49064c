package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"iga/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendGradedEmail(ctx context.Context, msg port.GradedEmail) error {
	resultURL := ResultURL(s.frontendURL, msg)
	subject := fmt.Sprintf("Your essay %q has been graded", msg.EssayName)
	htmlBody := buildGradedHTML(msg, resultURL)
	textBody := fmt.Sprintf("Hello,\n\nYour essay %q received a grade of %d.\nView the full feedback at:\n%s\n\nResults are kept for a limited time.",
		msg.EssayName, msg.Grade, resultURL)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// ResultURL is the frontend page that shows a submission's results.
func ResultURL(frontendURL string, msg port.GradedEmail) string {
	return fmt.Sprintf("%s/results/%s", frontendURL, msg.SubmissionID)
}

func buildGradedHTML(msg port.GradedEmail, resultURL string) string {
	name := html.EscapeString(msg.EssayName)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your essay has been graded</h2>
  <p>Your essay <strong>%s</strong> received a grade of <strong>%d</strong>.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Feedback</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <p style="color: #999; font-size: 12px;">Results are kept for a limited time.</p>
</body>
</html>`, name, msg.Grade, resultURL, resultURL)
}
