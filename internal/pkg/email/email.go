package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService delivers alert mail.
type EmailService interface {
	SendAlert(to string, data AlertEmailData) error
	Enabled() bool
}

// AlertEmailData fills templates/alert.html.
type AlertEmailData struct {
	Subject   string
	Name      string
	Type      string
	Message   string
	Timestamp string
}

// sender is the part of *gomail.Dialer the service uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	sender    sender

	attempts  int
	baseDelay time.Duration
}

// NewEmailService builds a gomail backed service. With no SMTP host every send is a logged no-op.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	svc, err := newEmailService(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func newEmailService(cfg config.SMTPConfig, s sender) (*emailServiceImpl, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		sender:    s,
		attempts:  3,
		baseDelay: time.Second,
	}, nil
}

func (s *emailServiceImpl) Enabled() bool {
	return s.cfg.Host != ""
}

func (s *emailServiceImpl) SendAlert(to string, data AlertEmailData) error {
	body, err := s.render("alert.html", data)
	if err != nil {
		return err
	}
	if !s.Enabled() {
		slog.Warn("SMTP not configured, alert email dropped", "to", to, "subject", data.Subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", data.Subject)
	m.SetBody("text/html", body)

	return s.deliver(m, to)
}

func (s *emailServiceImpl) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// deliver retries with a doubling delay between attempts.
func (s *emailServiceImpl) deliver(m *gomail.Message, to string) error {
	var err error
	delay := s.baseDelay
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = s.sender.DialAndSend(m); err == nil {
			slog.Info("Alert email sent", "to", to, "attempt", attempt)
			return nil
		}
		slog.Error("Alert email attempt failed", "to", to, "attempt", attempt, "error", err)

		if attempt < s.attempts {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("failed to send email after %d attempts: %w", s.attempts, err)
}
