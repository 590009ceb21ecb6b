// Package mailer sends transactional email.
package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/charmbracelet/log"
	"gopkg.in/gomail.v2"

	"github.com/anonto42/foodhelper/backend/internal/models"
)

type Mailer interface {
	SendWelcome(ctx context.Context, user *models.User) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer delivers mail through an SMTP relay with gomail.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (m *SMTPMailer) SendWelcome(_ context.Context, user *models.User) error {
	msg := WelcomeMessage(m.cfg.From, user)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending welcome mail to %s: %w", user.Email, err)
	}
	return nil
}

// WelcomeMessage builds the registration mail.
func WelcomeMessage(from string, user *models.User) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", "Welcome to Foodhelper")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>your account <b>%s</b> is ready. Happy cooking!</p>",
		html.EscapeString(user.FirstName), html.EscapeString(user.Username),
	))
	return msg
}

// LogMailer only logs. Used when SMTP is not configured.
type LogMailer struct {
	logger *log.Logger
}

func NewLogMailer(logger *log.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendWelcome(_ context.Context, user *models.User) error {
	m.logger.Debug("smtp not configured, skipping welcome mail", "to", user.Email)
	return nil
}
