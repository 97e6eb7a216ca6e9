package blinksights

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
)

// ErrNoInstruction is returned when the service has no identity instruction
// for the action.
var ErrNoInstruction = errors.New("no action identity instruction")

// Client reports action renders and executions to Blinksights and fetches the
// action identity instruction attached to generated transactions.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type renderRequest struct {
	URL     string      `json:"url"`
	Payload interface{} `json:"payload"`
}

type actionRequest struct {
	Account string `json:"account"`
	URL     string `json:"url"`
}

type accountMeta struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

type instructionResponse struct {
	ProgramID string        `json:"programId"`
	Keys      []accountMeta `json:"keys"`
	Data      string        `json:"data"`
}

// TrackRender - POST /actions/render, sent for every GET of an action
func (c *Client) TrackRender(ctx context.Context, actionURL string, payload interface{}) error {
	_, err := c.post(ctx, "/actions/render", renderRequest{URL: actionURL, Payload: payload})
	return err
}

// TrackAction - POST /actions/track, sent when a wallet posts to an action
func (c *Client) TrackAction(ctx context.Context, account solana.PublicKey, actionURL string) error {
	_, err := c.post(ctx, "/actions/track", actionRequest{Account: account.String(), URL: actionURL})
	return err
}

// IdentityInstruction - POST /actions/identity-instruction
func (c *Client) IdentityInstruction(ctx context.Context, account solana.PublicKey, actionURL string) (solana.Instruction, error) {
	body, err := c.post(ctx, "/actions/identity-instruction", actionRequest{Account: account.String(), URL: actionURL})
	if err != nil {
		return nil, err
	}
	var out instructionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode identity instruction: %w", err)
	}
	if out.ProgramID == "" {
		return nil, ErrNoInstruction
	}
	return out.toSolana()
}

func (in instructionResponse) toSolana() (solana.Instruction, error) {
	programID, err := solana.PublicKeyFromBase58(in.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}
	accounts := make(solana.AccountMetaSlice, 0, len(in.Keys))
	for _, k := range in.Keys {
		key, err := solana.PublicKeyFromBase58(k.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("invalid account %q: %w", k.Pubkey, err)
		}
		accounts = append(accounts, solana.NewAccountMeta(key, k.IsWritable, k.IsSigner))
	}
	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid instruction data: %w", err)
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

func (c *Client) post(ctx context.Context, path string, v interface{}) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blinksights request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build blinksights request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("blinksights %s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read blinksights %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("blinksights %s returned %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}
