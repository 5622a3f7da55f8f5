package mailer

import (
	"context"

	"gopkg.in/gomail.v2"
	"social-chat-api/config/common"
)

// Mailer delivers notification email. Delivery is outside the caller's transactional boundary.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, html string) error
}

type SMTPMailer struct {
	send func(msg ...*gomail.Message) error
	from string
}

func NewSMTPMailer(cfg common.MailConfig) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPMailer{send: dialer.DialAndSend, from: cfg.From}
}

// SendMail returns ctx.Err() once ctx is done. gomail has no context support, so
// a send still in flight at that point is left to finish on its own.
func (m *SMTPMailer) SendMail(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	done := make(chan error, 1)
	go func() {
		done <- m.send(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
