package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nicholas91X/auto2g-backend/internal/config"
	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

type SMTPMailer struct {
	cfg      config.SMTPConfig
	frontend config.FrontendConfig
	log      zerolog.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, frontend config.FrontendConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, frontend: frontend, log: log}
}

func (m *SMTPMailer) SendVerificationEmail(to, token string, isCustomer bool) error {
	base := m.frontend.BaseURL
	if isCustomer {
		base = m.frontend.CustomerBaseURL
	}
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", base, token)

	body := fmt.Sprintf(
		"Welcome to Auto2G!\r\n\r\n"+
			"Confirm your email address by opening the link below:\r\n\r\n%s\r\n\r\n"+
			"The link expires in 2 hours.\r\n",
		verificationURL,
	)
	return m.send(to, "Confirm your registration", body)
}

func (m *SMTPMailer) SendAdminAccountSetup(to, temporaryPassword, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", m.frontend.BaseURL, token)

	body := fmt.Sprintf(
		"An administrator account has been created for you.\r\n\r\n"+
			"Email: %s\r\nTemporary password: %s\r\n\r\n"+
			"Activate the account and change the password here:\r\n\r\n%s\r\n",
		to, temporaryPassword, verificationURL,
	)
	return m.send(to, "Administrator access - complete your registration", body)
}

func (m *SMTPMailer) SendRecoverPassword(to, resetURL string) error {
	body := fmt.Sprintf(
		"A password reset was requested for this address.\r\n\r\n"+
			"Reset it here (valid for 30 minutes):\r\n\r\n%s\r\n\r\n"+
			"If you did not request this, you can ignore this email.\r\n",
		resetURL,
	)
	return m.send(to, "Recover your password", body)
}

func (m *SMTPMailer) SendOnboardingInvite(to, dealershipName, token string) error {
	onboardingURL := fmt.Sprintf("%s/onboarding?token=%s", m.frontend.BaseURL, token)

	greeting := "Hello"
	if dealershipName != "" {
		greeting = fmt.Sprintf("Hello %s", dealershipName)
	}
	body := fmt.Sprintf(
		"%s,\r\n\r\n"+
			"You have been invited to sell on Auto2G.\r\n\r\n"+
			"Complete your registration here (the link expires in 2 hours):\r\n\r\n%s\r\n",
		greeting, onboardingURL,
	)
	return m.send(to, "Your Auto2G invitation", body)
}

func (m *SMTPMailer) SendPasswordChangedConfirmation(to string, role domain.AccountRole) error {
	body := fmt.Sprintf(
		"Your password was changed successfully.\r\n\r\n"+
			"If this was not you, contact support immediately.\r\n\r\n%s\r\n",
		m.returnURL(role),
	)
	return m.send(to, "Password changed", body)
}

func (m *SMTPMailer) SendEmailChangedConfirmation(to string, role domain.AccountRole) error {
	body := fmt.Sprintf(
		"The email address on your account was updated to this one.\r\n\r\n%s\r\n",
		m.returnURL(role),
	)
	return m.send(to, "Email address changed", body)
}

func (m *SMTPMailer) returnURL(role domain.AccountRole) string {
	if role == domain.RoleCustomer {
		return m.frontend.CustomerBaseURL
	}
	return m.frontend.BaseURL
}

func (m *SMTPMailer) send(to, subject, textBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	from := m.cfg.From
	headerFrom := from
	if m.cfg.FromName != "" {
		headerFrom = fmt.Sprintf("%s <%s>", m.cfg.FromName, from)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", headerFrom))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(textBody)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send %q to %s: %w", subject, to, err)
	}

	m.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
