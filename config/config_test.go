package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "http://localhost:8899")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8899", cfg.RPCURL)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 100, cfg.SlippageBps)
	assert.Equal(t, "https://quote-api.jup.ag/v6", cfg.JupiterAPIURL)
	assert.Equal(t, "https://xdares.catoff.xyz/api/actions", cfg.ActionURL)
	assert.Equal(t, "8LV3Rc6K3v1uLqEWoiar8VtJ8odtqw7LcvN2mxpfonRP", cfg.TreasuryAddr)
	assert.Equal(t, time.Minute, cfg.IconCacheTTL)
	assert.Equal(t, "https://api.blinksights.xyz/api/v2", cfg.BlinksightsAPIURL)
	assert.Empty(t, cfg.BlinksightsAPIKey)
	assert.False(t, cfg.IsProduction())
}

func TestLoadHeliusFallback(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "")
	t.Setenv("HELIUS_API_KEY", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://mainnet.helius-rpc.com/?api-key=abc", cfg.RPCURL)
}

func TestLoadRequiresRPC(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "")
	t.Setenv("HELIUS_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "http://rpc")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("ACTION_URL", "https://example.com/api/actions/")
	t.Setenv("ENV", "production")
	t.Setenv("BLINKSIGHTS_API_KEY", "bs-key")
	t.Setenv("BLINKSIGHTS_API_URL", "https://bs.example.com/v2/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "https://example.com/api/actions", cfg.ActionURL)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "bs-key", cfg.BlinksightsAPIKey)
	assert.Equal(t, "https://bs.example.com/v2", cfg.BlinksightsAPIURL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "http://rpc")
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}
