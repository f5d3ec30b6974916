// Package mail sends outbound messages over SMTP.
package mail

import (
	"context"

	gomail "github.com/wneessen/go-mail"
)

// Message is one outbound email. Either HTML or Text is used as the body;
// AttachmentPath, when set, names a local file attached as AttachmentName.
type Message struct {
	From           string
	To             string
	Subject        string
	HTML           string
	Text           string
	AttachmentPath string
	AttachmentName string
}

// Mailer is the transport contract consumed by the share flows.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds explicit transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPMailer implements Mailer using go-mail. A fresh client is dialed per
// send; the flows here are low volume and hold no connection state.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTP constructs an SMTP-backed mailer.
func NewSMTP(cfg SMTPConfig) *SMTPMailer { return &SMTPMailer{cfg: cfg} }

// Send builds and delivers one message.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mm := gomail.NewMsg()
	if err := mm.From(msg.From); err != nil {
		return err
	}
	if err := mm.To(msg.To); err != nil {
		return err
	}
	mm.Subject(msg.Subject)
	if msg.HTML != "" {
		mm.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	} else {
		mm.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	if msg.AttachmentPath != "" {
		mm.AttachFile(msg.AttachmentPath, gomail.WithFileName(msg.AttachmentName))
	}

	opts := []gomail.Option{gomail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, mm)
}
