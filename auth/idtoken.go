package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// ErrEmptyToken is returned when the token source yields no identity token.
var ErrEmptyToken = errors.New("failed to retrieve identity token")

// TokenProvider mints bearer tokens for a target audience.
type TokenProvider interface {
	Token(ctx context.Context, audience string) (string, error)
}

// GoogleIDTokens mints Google-signed identity tokens from application default
// credentials, one reusable token source per audience.
type GoogleIDTokens struct {
	mu      sync.Mutex
	sources map[string]oauth2.TokenSource
}

func NewGoogleIDTokens() *GoogleIDTokens {
	return &GoogleIDTokens{sources: make(map[string]oauth2.TokenSource)}
}

func (g *GoogleIDTokens) Token(ctx context.Context, audience string) (string, error) {
	ts, err := g.source(ctx, audience)
	if err != nil {
		return "", err
	}
	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("failed to get identity token for %s: %w", audience, err)
	}
	if tok.AccessToken == "" {
		return "", ErrEmptyToken
	}
	return tok.AccessToken, nil
}

func (g *GoogleIDTokens) source(ctx context.Context, audience string) (oauth2.TokenSource, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ts, ok := g.sources[audience]; ok {
		return ts, nil
	}
	// The source outlives the request, so it must not inherit its cancellation.
	ts, err := idtoken.NewTokenSource(context.WithoutCancel(ctx), audience)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity token source: %w", err)
	}
	g.sources[audience] = ts
	return ts, nil
}

// Static returns the same token for every audience. Useful for local runs
// where the downstream services are not behind IAM.
type Static string

func (s Static) Token(ctx context.Context, audience string) (string, error) {
	if s == "" {
		return "", ErrEmptyToken
	}
	return string(s), nil
}
