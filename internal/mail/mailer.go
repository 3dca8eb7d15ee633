// Package mail sends transactional email. The only message this service
// sends is the OTP verification code at registration/login time.
package mail

import (
	"fmt"
	"net/smtp"

	"github.com/chanchalmahajan01/GKT/internal/config"
	"github.com/chanchalmahajan01/GKT/internal/logger"

	"go.uber.org/zap"
)

type Mailer interface {
	SendOTP(email, code string) error
}

type smtpMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *smtpMailer) SendOTP(email, code string) error {
	if m.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	subject := "GharKaTiffin - Email Verification"
	body := fmt.Sprintf(
		"Thank you for registering with GharKaTiffin.\r\n\r\n"+
			"Your verification code is: %s\r\n\r\n"+
			"This OTP is valid for 10 minutes. If you didn't request this email, please ignore it.\r\n",
		code,
	)

	msg := []byte(
		"From: GharKaTiffin <" + m.from + ">\r\n" +
			"To: " + email + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"\r\n" + body,
	)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{email}, msg)
}

// NoopMailer logs the code instead of sending it. Used in development and
// in tests.
type NoopMailer struct{}

func (NoopMailer) SendOTP(email, code string) error {
	logger.L().Info("otp email suppressed",
		zap.String("email", email),
		zap.String("code", code),
	)
	return nil
}
