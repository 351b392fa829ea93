// Package gemini is a minimal client for the Generative Language REST API
// (generateContent and streamGenerateContent).
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("gemini api key is not configured")

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Request is the generateContent body.
type Request struct {
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
	Contents          []Content `json:"contents"`
}

type response struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// text joins the parts of the first candidate.
func (r *response) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Client calls a single configured model.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{}}
}

// UserText builds a single user turn.
func UserText(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// Generate returns the concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.do(ctx, "generateContent", "", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", out.PromptFeedback.BlockReason)
	}
	return out.text(), nil
}

// Stream calls streamGenerateContent with alt=sse and hands every non-empty
// text chunk to onChunk in order. An onChunk error stops the stream.
func (c *Client) Stream(ctx context.Context, req Request, onChunk func(string) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.do(ctx, "streamGenerateContent", "alt=sse", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}

		var chunk response
		if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &chunk); err != nil {
			return fmt.Errorf("decode gemini stream chunk: %w", err)
		}
		if text := chunk.text(); text != "" {
			if err := onChunk(text); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read gemini stream: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, query string, req Request) (*http.Response, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:%s", c.cfg.BaseURL, c.cfg.Model, method)
	if query != "" {
		url += "?" + query
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	r.Header.Set("x-goog-api-key", c.cfg.APIKey)
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(r)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("gemini status %d: %s: %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(raw))
	}
	return resp, nil
}
