package mail_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/invites/internal/invites/mail"
)

type fakeSES struct {
	sesiface.SESAPI
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmailWithContext(_ aws.Context, in *ses.SendEmailInput, _ ...request.Option) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestInviteLink(t *testing.T) {
	link, err := mail.InviteLink("https://bar.example/join?ref=mail", "abc-_123")
	require.NoError(t, err)
	require.Equal(t, "https://bar.example/join?ref=mail&token=abc-_123", link)
}

func TestInviteMessage(t *testing.T) {
	exp := time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC)
	msg, err := mail.InviteMessage("a@example.com", "https://bar.example/join?token=t", exp, "<b>hi</b>")
	require.NoError(t, err)

	require.Equal(t, "a@example.com", msg.To)
	require.Contains(t, msg.Text, "https://bar.example/join?token=t")
	require.Contains(t, msg.Text, "Mon, 01 Jun 2026 18:30 UTC")
	require.Contains(t, msg.Text, "<b>hi</b>")
	require.Contains(t, msg.HTML, "&lt;b&gt;hi&lt;/b&gt;", "notes are escaped in html")

	msg, err = mail.InviteMessage("a@example.com", "https://x", exp, "")
	require.NoError(t, err)
	require.NotContains(t, msg.Text, "Note from the sender")
}

func TestSESMailer_Send(t *testing.T) {
	api := &fakeSES{}
	m := mail.NewSESMailerWithAPI(api, "invites@bar.example")

	id, err := m.Send(context.Background(), mail.Message{
		To: "a@example.com", Subject: "s", Text: "body",
	})
	require.NoError(t, err)
	require.Equal(t, "msg-1", id)

	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	require.Equal(t, "invites@bar.example", aws.StringValue(in.Source))
	require.Equal(t, "a@example.com", aws.StringValue(in.Destination.ToAddresses[0]))
	require.Equal(t, "body", aws.StringValue(in.Message.Body.Text.Data))
	require.Nil(t, in.Message.Body.Html)

	_, err = m.Send(context.Background(), mail.Message{To: "a@example.com"})
	require.ErrorIs(t, err, mail.ErrNoBody)
}

func TestBreakerMailer_Opens(t *testing.T) {
	boom := errors.New("ses down")
	api := &fakeSES{err: boom}
	m := mail.NewBreakerMailer(mail.NewSESMailerWithAPI(api, "from@example.com"), mail.BreakerSettings{
		ConsecutiveFailures: 3,
		OpenTimeout:         time.Hour,
	})

	msg := mail.Message{To: "a@example.com", Subject: "s", Text: "t"}
	for range 3 {
		_, err := m.Send(context.Background(), msg)
		require.ErrorIs(t, err, boom)
	}
	require.Equal(t, "open", m.State())

	_, err := m.Send(context.Background(), msg)
	require.ErrorIs(t, err, mail.ErrCircuitOpen)
	require.Len(t, api.inputs, 3, "open circuit must not reach SES")
}
