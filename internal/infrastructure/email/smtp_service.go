package email

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPConfig configures the gomail transport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseSSL   bool
	From     string
	FromName string
	Timeout  time.Duration
}

type smtpTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport creates a gomail backed Transport.
func NewSMTPTransport(cfg SMTPConfig) Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &smtpTransport{cfg: cfg}
}

func (s *smtpTransport) Name() string { return "smtp" }

func (s *smtpTransport) Send(ctx context.Context, m Message) error {
	msg, err := s.buildMessage(m)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.SSL = s.cfg.UseSSL
	if s.cfg.UseSSL {
		d.TLSConfig = &tls.Config{ServerName: s.cfg.Host}
	}

	// Closed once Send returns. A dial that completes after the caller gave
	// up is closed without sending; a send already on the wire may still land.
	abandoned := make(chan struct{})
	defer close(abandoned)

	done := make(chan error, 1)
	go func() {
		sc, err := d.Dial()
		if err != nil {
			done <- err
			return
		}
		defer sc.Close()

		select {
		case <-abandoned:
			done <- context.Canceled
			return
		default:
		}
		done <- gomail.Send(sc, msg)
	}()

	// ctx deadline wins when it is sooner than the configured timeout.
	wait := s.cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Provider: "gomail/smtp", Err: err}
		}
		return nil
	case <-ctx.Done():
		return ErrSend{Provider: "gomail/smtp", Err: ctx.Err()}
	case <-timer.C:
		return ErrSend{Provider: "gomail/smtp", Err: context.DeadlineExceeded}
	}
}

func (s *smtpTransport) buildMessage(m Message) (*gomail.Message, error) {
	from := strings.TrimSpace(s.cfg.From)
	if from == "" {
		return nil, ErrInvalidMessage{Reason: "from is required"}
	}
	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return nil, ErrInvalidMessage{Reason: "at least one recipient is required"}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	}

	msg := gomail.NewMessage()
	if s.cfg.FromName != "" {
		msg.SetAddressHeader("From", from, s.cfg.FromName)
	} else {
		msg.SetHeader("From", from)
	}
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", m.Subject)
	if m.ReplyTo != "" {
		msg.SetHeader("Reply-To", m.ReplyTo)
	}
	for k, v := range m.Headers {
		if k = strings.TrimSpace(k); k != "" && strings.TrimSpace(v) != "" {
			msg.SetHeader(k, v)
		}
	}

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, ErrInvalidMessage{Reason: "either TextBody or HTMLBody is required"}
	}

	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
