package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BrevoConfig configures the Brevo transactional email API transport.
type BrevoConfig struct {
	APIKey   string
	BaseURL  string
	From     string
	FromName string
	Timeout  time.Duration
}

type brevoTransport struct {
	cfg  BrevoConfig
	http *http.Client
}

// NewBrevoTransport creates a Transport backed by POST {base}/smtp/email.
func NewBrevoTransport(cfg BrevoConfig) Transport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.brevo.com/v3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &brevoTransport{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoRequest struct {
	Sender      brevoAddress      `json:"sender"`
	To          []brevoAddress    `json:"to"`
	ReplyTo     *brevoAddress     `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent,omitempty"`
	TextContent string            `json:"textContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (b *brevoTransport) Name() string { return "brevo" }

func (b *brevoTransport) Send(ctx context.Context, m Message) error {
	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return ErrInvalidMessage{Reason: "at least one recipient is required"}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrInvalidMessage{Reason: "subject is required"}
	}

	req := brevoRequest{
		Sender:      brevoAddress{Email: b.cfg.From, Name: b.cfg.FromName},
		Subject:     m.Subject,
		HTMLContent: m.HTMLBody,
		TextContent: m.TextBody,
		Headers:     m.Headers,
	}
	for _, addr := range to {
		req.To = append(req.To, brevoAddress{Email: addr})
	}
	if m.ReplyTo != "" {
		req.ReplyTo = &brevoAddress{Email: m.ReplyTo}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode brevo request: %w", err)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	r.Header.Set("api-key", b.cfg.APIKey)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")

	resp, err := b.http.Do(r)
	if err != nil {
		return ErrSend{Provider: "brevo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr brevoError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return ErrSend{Provider: "brevo", Err: fmt.Errorf("status %d: %s: %s", resp.StatusCode, apiErr.Code, apiErr.Message)}
		}
		return ErrSend{Provider: "brevo", Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))}
	}

	return nil
}
