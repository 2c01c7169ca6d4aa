package credentials

import (
	"context"
	"fmt"
)

const (
	confirmEmailSubject = "Confirm Email"
	resetEmailSubject   = "Reset Password"
)

func confirmEmailBody(url string) string {
	return fmt.Sprintf("Confirm your email account to start using your account. %s", url)
}

func resetEmailBody(url string) string {
	return fmt.Sprintf(
		"You or somebody else recently requested to reset the password for your account. Click link below to proceed. %s",
		url,
	)
}

// LogMailer is a development Mailer that prints instead of sending
type LogMailer struct {
	Logger Logger
}

var _ Mailer = (*LogMailer)(nil)

func (m LogMailer) Send(_ context.Context, msg Email) error {
	logger := m.Logger
	if logger == nil {
		logger = defLogger{}
	}
	logger.Info("email notification to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

// NoopMailer discards every message
type NoopMailer struct{}

var _ Mailer = NoopMailer{}

func (NoopMailer) Send(context.Context, Email) error { return nil }
