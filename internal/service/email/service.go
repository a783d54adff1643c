// internal/service/email/service.go
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/FabiSax12/uniflow-notification-service/internal/service/delivery"
)

// EmailSender delivers notification emails via SMTP. It satisfies the
// delivery.EmailSender port; success is the provider's terminal status.
type EmailSender struct {
	smtpHost string
	smtpPort string
	username string
	password string
	fromName string
	secure   bool
}

// NewEmailSender creates a new SMTP email sender.
func NewEmailSender(host, port, user, pass, fromName string, secure bool) *EmailSender {
	return &EmailSender{
		smtpHost: host,
		smtpPort: port,
		username: user,
		password: pass,
		fromName: fromName,
		secure:   secure,
	}
}

// Send sends the rendered content to the recipient address.
func (e *EmailSender) Send(ctx context.Context, to string, content delivery.EmailContent) error {
	from := fmt.Sprintf("%s <%s>", e.fromName, e.username)
	boundary := "uniflow-alt"
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", content.Subject) +
			"MIME-Version: 1.0\r\n" +
			fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary) +
			"\r\n" +
			fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
			content.Text + "\r\n" +
			fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=\"utf-8\"\r\n\r\n" +
			content.HTML + "\r\n" +
			fmt.Sprintf("--%s--\r\n", boundary),
	)

	serverAddr := e.smtpHost + ":" + e.smtpPort

	if e.secure {
		// Port 465 - implicit TLS
		tlsConfig := &tls.Config{ServerName: e.smtpHost}
		dialer := &tls.Dialer{Config: tlsConfig}

		conn, err := dialer.DialContext(ctx, "tcp", serverAddr)
		if err != nil {
			return fmt.Errorf("tls dial failed: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, e.smtpHost)
		if err != nil {
			return fmt.Errorf("smtp client failed: %w", err)
		}
		defer client.Quit()

		auth := smtp.PlainAuth("", e.username, e.password, e.smtpHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth failed: %w", err)
		}

		return e.sendMail(client, to, msg)
	}

	// Port 587 - STARTTLS
	auth := smtp.PlainAuth("", e.username, e.password, e.smtpHost)
	if err := smtp.SendMail(serverAddr, auth, e.username, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail failed: %w", err)
	}

	return nil
}

// DisabledSender stands in when the email channel is turned off; sends
// become no-ops.
type DisabledSender struct{}

func NewDisabledSender() *DisabledSender {
	return &DisabledSender{}
}

func (s *DisabledSender) Send(ctx context.Context, to string, content delivery.EmailContent) error {
	return nil
}

func (e *EmailSender) sendMail(client *smtp.Client, to string, msg []byte) error {
	if err := client.Mail(e.username); err != nil {
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
		return fmt.Errorf("write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	return nil
}
