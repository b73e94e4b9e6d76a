// Package mailer sends password reset emails.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Host        string        `envconfig:"HOST"`
	Port        int           `envconfig:"PORT" default:"465"`
	Username    string        `envconfig:"USERNAME"`
	Password    string        `envconfig:"PASSWORD"`
	SenderName  string        `split_words:"true" default:"PharmaPilot"`
	FrontendURL string        `split_words:"true" default:"http://localhost:5173"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

type Sender interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// New returns an SMTP sender, or a LogSender when SMTP credentials are missing.
func New(cfg Config) Sender {
	if strings.TrimSpace(cfg.Host) == "" || cfg.Username == "" || cfg.Password == "" {
		log.Warn().Msg("smtp is not configured; reset links are logged instead of mailed")
		return LogSender{FrontendURL: cfg.FrontendURL}
	}
	return &SMTPSender{cfg: cfg}
}

// ResetLink builds the frontend URL the reset email points at.
func ResetLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

type LogSender struct {
	FrontendURL string
}

func (s LogSender) SendPasswordReset(ctx context.Context, to, _, token string) error {
	log.Ctx(ctx).Info().
		Str("to", to).
		Str("link", ResetLink(s.FrontendURL, token)).
		Msg("password reset requested")
	return nil
}

// SMTPSender delivers over implicit TLS.
type SMTPSender struct {
	cfg Config
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, name, token string) error {
	msg, err := BuildResetMessage(s.from(), to, name, ResetLink(s.cfg.FrontendURL, token))
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: s.cfg.Timeout},
		Config:    &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.cfg.Username); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}

	log.Ctx(ctx).Info().Str("to", to).Msg("password reset email sent")
	return nil
}

func (s *SMTPSender) from() string {
	return (&mail.Address{Name: s.cfg.SenderName, Address: s.cfg.Username}).String()
}

var htmlBody = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 8px;">
      <h2 style="color: #333; text-align: center;">Reset Your Password</h2>
      <p>Hi {{.Name}},</p>
      <p>We received a request to reset your PharmaPilot password. Click the button below to create a new password.</p>
      <p style="text-align: center; margin: 30px 0;">
        <a href="{{.Link}}" style="background-color: #009688; color: white; padding: 15px 40px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
      </p>
      <p>Or copy and paste this link in your browser:</p>
      <p style="background-color: #f0f0f0; padding: 12px; font-size: 12px;">{{.Link}}</p>
      <p style="color: #856404; font-size: 12px;">This link expires in 1 hour. If you didn't request this, please ignore this email.</p>
    </div>
  </body>
</html>
`))

const textBody = `Reset Your PharmaPilot Password

Hi %s,

We received a request to reset your PharmaPilot password.

Click this link to reset your password:
%s

This link expires in 1 hour.

If you didn't request this, please ignore this email.
`

// BuildResetMessage renders a multipart/alternative message with text and HTML parts.
func BuildResetMessage(from, to, name, link string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		name = "User"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	textPart, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(textPart, textBody, name, link)

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if err := htmlBody.Execute(htmlPart, struct{ Name, Link string }{name, link}); err != nil {
		return nil, fmt.Errorf("render reset email: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: Reset Your PharmaPilot Password\r\n")
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
