package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a single email synchronously.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SESMailer sends emails through AWS SES.
type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer(region, from string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESMailer{
		client: ses.NewFromConfig(cfg),
		from:   from,
	}, nil
}

func (m *SESMailer) Send(ctx context.Context, email Email) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(email.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(email.Body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them. Used in
// development when no SES credentials are configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, email Email) error {
	slog.Info("email (log mailer)", "to", email.To, "subject", email.Subject)
	return nil
}
