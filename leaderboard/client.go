package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"xdares/auth"
)

// IconSource resolves the image shown on a dare's blink.
type IconSource interface {
	Icon(ctx context.Context, dareNumber int64) (string, error)
}

// Client reads rendered leaderboards from the leaderboard service.
type Client struct {
	baseURL string
	tokens  auth.TokenProvider
	http    *http.Client
}

func NewClient(baseURL string, tokens auth.TokenProvider, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}
}

// Icon - GET /leaderboard/{number}, returns image_url
func (c *Client) Icon(ctx context.Context, dareNumber int64) (string, error) {
	token, err := c.tokens.Token(ctx, c.baseURL)
	if err != nil {
		return "", err
	}
	url := c.baseURL + "/leaderboard/" + strconv.FormatInt(dareNumber, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build leaderboard request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("leaderboard returned %d for dare %d", resp.StatusCode, dareNumber)
	}

	var out struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	if out.ImageURL == "" {
		return "", fmt.Errorf("leaderboard for dare %d has no image_url", dareNumber)
	}
	return out.ImageURL, nil
}
