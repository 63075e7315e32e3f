package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

const (
	passwordResetSubject = "Reset your password"
	mailFromName         = "Account Security"
)

// Mailer delivers account emails. Implementations must not log the reset link.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to string, resetLink string) error
}

// ---------------------------------------------------------------------
// SendGrid
// ---------------------------------------------------------------------

type sendGridMailer struct {
	client  *sendgrid.Client
	from    string
	sandbox bool
	logger  logrus.FieldLogger
}

// NewSendGridMailer sends through SendGrid. With sandbox set, SendGrid validates the
// message but does not deliver it.
func NewSendGridMailer(apiKey, from string, sandbox bool, logger logrus.FieldLogger) Mailer {
	return &sendGridMailer{
		client:  sendgrid.NewSendClient(apiKey),
		from:    from,
		sandbox: sandbox,
		logger:  logger,
	}
}

func (m *sendGridMailer) SendPasswordReset(ctx context.Context, to string, resetLink string) error {
	message := buildPasswordResetMessage(m.from, to, resetLink, m.sandbox, time.Now())

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		m.logger.WithError(err).WithField("to", to).Error("Failed to send password reset email via SendGrid")
		return emailUnavailable(fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, err))
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		m.logger.WithFields(logrus.Fields{
			"to":     to,
			"status": resp.StatusCode,
		}).Error("SendGrid rejected password reset email")
		return emailUnavailable(fmt.Errorf("%w: sendgrid returned status %d", utils.ErrExternalServiceFailure, resp.StatusCode))
	}

	m.logger.WithField("to", to).Info("Password reset email sent")
	return nil
}

func emailUnavailable(err error) error {
	return &utils.AppError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       utils.ErrCodeExternalService,
		Message:    "Email delivery is temporarily unavailable",
		Err:        err,
	}
}

func buildPasswordResetMessage(from, to, resetLink string, sandbox bool, now time.Time) *mail.SGMailV3 {
	sender := mail.NewEmail(mailFromName, from)
	recipient := mail.NewEmail("", to)

	plain := fmt.Sprintf(
		"We received a request to reset your password. Open the link below within %d hours to choose a new one:\n\n%s\n\nIf you did not ask for this, you can ignore this email.",
		int(PasswordResetTokenTTL.Hours()), resetLink,
	)
	html := fmt.Sprintf(passwordResetEmailHTML, passwordResetSubject, int(PasswordResetTokenTTL.Hours()), resetLink, now.Year())

	message := mail.NewSingleEmail(sender, passwordResetSubject, recipient, plain, html)
	if sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}
	return message
}

// ---------------------------------------------------------------------
// Log-only fallback
// ---------------------------------------------------------------------

type logMailer struct {
	logger logrus.FieldLogger
}

// NewLogMailer records that an email would have been sent. Used when SendGrid is not configured.
func NewLogMailer(logger logrus.FieldLogger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendPasswordReset(_ context.Context, to string, _ string) error {
	m.logger.WithField("to", to).Warn("SendGrid not configured; password reset email not delivered")
	return nil
}
