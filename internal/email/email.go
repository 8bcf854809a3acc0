// Package email delivers interview invitations. Delivery mechanics live
// behind Sender; the pipeline only cares whether the send succeeded.
package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	// gomail dials synchronously with no context support; honor cancellation
	// by checking before the blocking send.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// InvitationSubject is the fixed subject line for interview invitations.
func InvitationSubject(jobTitle string) string {
	return fmt.Sprintf("Interview Invitation: %s Position", jobTitle)
}
