package mailer

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang-alpha-seek/pkg/logger"
)

// Config holds SMTP settings for outbound mail.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

// Mailer sends HTML email with optional file attachments.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachmentPaths []string) error
}

type smtpMailer struct {
	cfg    Config
	logger *logger.Logger
}

// NewSMTPMailer creates a Mailer backed by a plain SMTP (or SMTP-over-TLS)
// connection.
func NewSMTPMailer(cfg Config, log *logger.Logger) (Mailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp host and from address are required")
	}
	return &smtpMailer{cfg: cfg, logger: log}, nil
}

// Send builds a multipart/mixed MIME message and delivers it. Attachment
// paths that cannot be read fail the send; the caller decides what to do
// with the files afterwards.
func (m *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string, attachmentPaths []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(m.cfg, to, subject, htmlBody, attachmentPaths)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	m.logger.Debug("Sending email",
		logger.StringField("to", to),
		logger.StringField("subject", subject),
		logger.IntField("attachments", len(attachmentPaths)),
	)

	if m.cfg.UseTLS {
		return m.sendWithTLS(addr, auth, to, msg)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}

func (m *smtpMailer) sendWithTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("failed to establish TLS connection: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message body: %w", err)
	}

	return client.Quit()
}

// buildMessage assembles a multipart/mixed message: one base64-encoded HTML
// part followed by one part per attachment.
func buildMessage(cfg Config, to, subject, htmlBody string, attachmentPaths []string) ([]byte, error) {
	boundary := fmt.Sprintf("alpha-seek-%d", time.Now().UnixNano())

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", cfg.FromName, cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", boundary))
	msg.WriteString("\r\n")

	// HTML body part. Base64 keeps lines within the RFC 5322 limit no matter
	// how long the rendered report rows are.
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64WithLineBreaks([]byte(htmlBody)))
	msg.WriteString("\r\n")

	for _, path := range attachmentPaths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", path, err)
		}

		filename := filepath.Base(path)
		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString(fmt.Sprintf("Content-Type: %s; name=%q\r\n", contentTypeFor(filename), filename))
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", filename))
		msg.WriteString("\r\n")
		msg.WriteString(encodeBase64WithLineBreaks(content))
		msg.WriteString("\r\n")
	}

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(msg.String()), nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// encodeBase64WithLineBreaks encodes data and wraps lines at 76 characters
// per RFC 2045.
func encodeBase64WithLineBreaks(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)

	var sb strings.Builder
	for len(encoded) > 76 {
		sb.WriteString(encoded[:76])
		sb.WriteString("\r\n")
		encoded = encoded[76:]
	}
	sb.WriteString(encoded)
	return sb.String()
}
