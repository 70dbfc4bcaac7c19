package mail

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// SMTPConfig configures the SMTP sender. Username empty means no auth, which
// suits local relays and mailhog-style test servers.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPSender delivers mail over SMTP using wneessen/go-mail with HTML bodies
// rendered from embedded templates.
type SMTPSender struct {
	client    *gomail.Client
	from      string
	fromName  string
	templates *template.Template
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: smtp client: %w", err)
	}

	templates, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("mail: parse templates: %w", err)
	}

	return &SMTPSender{
		client:    client,
		from:      cfg.From,
		fromName:  cfg.FromName,
		templates: templates,
	}, nil
}

func (s *SMTPSender) SendInvite(ctx context.Context, msg InviteEmail) error {
	subject := fmt.Sprintf("You're invited to join %s", msg.OrganizationName)
	return s.send(ctx, msg.To, subject, "invite.html.tmpl", msg)
}

func (s *SMTPSender) SendWelcome(ctx context.Context, msg WelcomeEmail) error {
	subject := fmt.Sprintf("Welcome to %s", msg.OrganizationName)
	return s.send(ctx, msg.To, subject, "welcome.html.tmpl", msg)
}

func (s *SMTPSender) send(ctx context.Context, to, subject, tmpl string, data any) error {
	var body strings.Builder
	if err := s.templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("mail: render %s: %w", tmpl, err)
	}

	m := gomail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("mail: from address: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("mail: to address: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(gomail.TypeTextHTML, body.String())

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}
