package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

const charset = "utf-8"

// SESMailer sends through Amazon SES.
type SESMailer struct {
	api  sesiface.SESAPI
	from string
}

// NewSESMailer builds a mailer on the default AWS credential chain.
func NewSESMailer(region, from string) (*SESMailer, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return NewSESMailerWithAPI(ses.New(sess), from), nil
}

// NewSESMailerWithAPI wraps an existing SES client.
func NewSESMailerWithAPI(api sesiface.SESAPI, from string) *SESMailer {
	return &SESMailer{api: api, from: from}
}

func (m *SESMailer) Send(ctx context.Context, msg Message) (string, error) {
	if msg.Text == "" && msg.HTML == "" {
		return "", ErrNoBody
	}

	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(msg.To)},
		},
		Message: &ses.Message{
			Body: &ses.Body{},
			Subject: &ses.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String(charset),
			},
		},
		Source:           aws.String(m.from),
		ReplyToAddresses: []*string{aws.String(m.from)},
	}
	if msg.Text != "" {
		input.Message.Body.Text = &ses.Content{Data: aws.String(msg.Text), Charset: aws.String(charset)}
	}
	if msg.HTML != "" {
		input.Message.Body.Html = &ses.Content{Data: aws.String(msg.HTML), Charset: aws.String(charset)}
	}

	out, err := m.api.SendEmailWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("ses send email: %w", err)
	}
	return aws.StringValue(out.MessageId), nil
}
