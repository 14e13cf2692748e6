package mail

import (
	"context"
	"fmt"

	"github.com/Caltsic/AIourstory-sub001/internal/config"
	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/rs/zerolog/log"
	gomail "gopkg.in/mail.v2"
)

// SMTPMailer delivers verification codes over SMTP. The dialer is built once
// and reused; each send opens its own connection and blocks only the issuing
// request.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	d.Timeout = cfg.MailTimeout
	return &SMTPMailer{dialer: d, from: cfg.MailFrom}
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, email string, purpose domain.CodePurpose, code string) error {
	subject := "Your AIourstory verification code"
	if purpose == domain.PurposeReset {
		subject = "Your AIourstory password reset code"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your verification code is %s. It expires in a few minutes. If you did not request it, ignore this email.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	log.Info().Str("to", email).Str("purpose", string(purpose)).Msg("verification email sent")
	return nil
}
