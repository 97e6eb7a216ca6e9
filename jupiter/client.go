package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
)

const maxBodyBytes = 4 << 20

// Client talks to the Jupiter v6 swap API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL (for example https://quote-api.jup.ag/v6).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Quote - GET /quote
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	q := url.Values{}
	q.Set("inputMint", req.InputMint.String())
	q.Set("outputMint", req.OutputMint.String())
	q.Set("amount", strconv.FormatUint(req.Amount, 10))
	q.Set("slippageBps", strconv.Itoa(req.SlippageBps))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	body, err := c.do(httpReq, "quote")
	if err != nil {
		return nil, err
	}
	return parseQuote(body)
}

// SwapInstructions - POST /swap-instructions for a quote obtained from Quote.
func (c *Client) SwapInstructions(ctx context.Context, quote *Quote, user solana.PublicKey) (*SwapInstructions, error) {
	payload, err := json.Marshal(swapInstructionsRequest{
		QuoteResponse:           quote.Raw,
		UserPublicKey:           user.String(),
		DynamicComputeUnitLimit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap-instructions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build swap request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := c.do(httpReq, "swap-instructions")
	if err != nil {
		return nil, err
	}
	var out SwapInstructions
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode swap instructions: %w", err)
	}
	if out.Error != "" {
		return nil, &APIError{Endpoint: "swap-instructions", Message: "failed to get swap instructions: " + out.Error}
	}
	if out.SwapInstruction == nil {
		return nil, &APIError{Endpoint: "swap-instructions", Message: "response has no swapInstruction"}
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jupiter %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read jupiter %s response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := string(body)
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return nil, &APIError{Endpoint: endpoint, Status: resp.StatusCode, Message: msg}
	}
	return body, nil
}
