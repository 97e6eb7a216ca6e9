package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"xdares/auth"
)

// Mailer posts notification emails to the mail webhook.
type Mailer struct {
	url    string
	tokens auth.TokenProvider
	http   *http.Client
}

type mailRequest struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type mailResponse struct {
	Success bool `json:"success"`
}

func NewMailer(url string, tokens auth.TokenProvider, timeout time.Duration) *Mailer {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Mailer{
		url:    url,
		tokens: tokens,
		http:   &http.Client{Timeout: timeout},
	}
}

// Send delivers subject and text. It reports whether the webhook acknowledged
// the mail as sent.
func (m *Mailer) Send(ctx context.Context, subject, text string) (bool, error) {
	token, err := m.tokens.Token(ctx, m.url)
	if err != nil {
		return false, err
	}
	payload, err := json.Marshal(mailRequest{Subject: subject, Text: text})
	if err != nil {
		return false, fmt.Errorf("failed to encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return false, fmt.Errorf("mail webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	var out mailResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("failed to decode mail response: %w", err)
	}
	return out.Success, nil
}
