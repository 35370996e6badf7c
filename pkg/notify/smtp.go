package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// SMTPConfig holds SMTP transport configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// SMTPNotifier sends escalation notifications by email over SMTP.
type SMTPNotifier struct {
	config SMTPConfig
	logger *otelzap.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates an SMTP-backed notifier.
func NewSMTPNotifier(cfg SMTPConfig, logger *otelzap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		config: cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// NotifyEscalation sends the escalation email.
func (n *SMTPNotifier) NotifyEscalation(ctx context.Context, esc *Escalation) error {
	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)

	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	msg := buildMessage(n.config.From, n.config.To, esc)

	n.logger.Info("Sending escalation email",
		zap.String("reference", esc.Reference),
		zap.Strings("to", n.config.To),
	)

	if err := n.send(addr, auth, n.config.From, n.config.To, msg); err != nil {
		return fmt.Errorf("sending escalation email: %w", err)
	}
	return nil
}

func buildMessage(from string, to []string, esc *Escalation) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", esc.Subject())
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(esc.Body())

	return []byte(b.String())
}
