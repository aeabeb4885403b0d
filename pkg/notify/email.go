package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"options-monitor/config"
)

type emailSender struct {
	cfg config.EmailConfig
}

func newEmailSender(cfg config.EmailConfig) Sender {
	return &emailSender{cfg: cfg}
}

func (s *emailSender) Name() Channel {
	return ChannelEmail
}

func (s *emailSender) Send(ctx context.Context, title, body string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", s.cfg.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", title)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, from, []string{s.cfg.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
