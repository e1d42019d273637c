// Package mail delivers invite emails. Delivery is best effort: the invite
// exists whether or not the message goes out.
package mail

import (
	"bytes"
	"context"
	"errors"
	htmltemplate "html/template"
	"net/url"
	"text/template"
	"time"
)

var (
	ErrCircuitOpen = errors.New("mail: circuit open")
	ErrNoBody      = errors.New("mail: message has no body")
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a Message and returns the transport's message id.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// InviteLink appends token to base as the "token" query parameter.
func InviteLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type inviteData struct {
	Link      string
	ExpiresAt string
	Notes     string
}

var (
	inviteText = template.Must(template.New("invite.txt").Parse(
		`You have been invited.

Accept the invitation here:
{{.Link}}

This link expires {{.ExpiresAt}}.
{{- if .Notes}}

Note from the sender: {{.Notes}}
{{- end}}
`))

	inviteHTML = htmltemplate.Must(htmltemplate.New("invite.html").Parse(
		`<p>You have been invited.</p>
<p><a href="{{.Link}}">Accept the invitation</a></p>
<p>This link expires {{.ExpiresAt}}.</p>
{{- if .Notes}}
<p>Note from the sender: {{.Notes}}</p>
{{- end}}
`))
)

// InviteMessage renders the invitation email for to.
func InviteMessage(to, link string, expiresAt time.Time, notes string) (Message, error) {
	data := inviteData{
		Link:      link,
		ExpiresAt: expiresAt.UTC().Format("Mon, 02 Jan 2006 15:04 MST"),
		Notes:     notes,
	}

	var text, html bytes.Buffer
	if err := inviteText.Execute(&text, data); err != nil {
		return Message{}, err
	}
	if err := inviteHTML.Execute(&html, data); err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: "You're invited",
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
