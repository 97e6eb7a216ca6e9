package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const heliusMainnetURL = "https://mainnet.helius-rpc.com/?api-key=%s"

// Config holds every setting the service reads from the environment.
type Config struct {
	Port string
	Env  string

	// Solana
	RPCURL        string
	Network       string
	TreasuryAddr  string
	SendMint      string
	SlippageBps   int
	JupiterAPIURL string

	// Storage
	DatabaseDriver string
	DatabaseDSN    string
	MongoDatabase  string
	RedisURL       string
	IconCacheTTL   time.Duration

	// External services
	MailURL        string
	LeaderboardURL string
	HTTPTimeout    time.Duration

	// Blinksights analytics, disabled without an API key
	BlinksightsAPIKey string
	BlinksightsAPIURL string

	// Action metadata
	ActionURL       string
	CreateIconURL   string
	NotFoundIconURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("SOLANA_NETWORK", "mainnet")
	v.SetDefault("TREASURY_ADDRESS", "8LV3Rc6K3v1uLqEWoiar8VtJ8odtqw7LcvN2mxpfonRP")
	v.SetDefault("SEND_MINT", "SENDdRQtYMWaQrBroBrJ2Q53fgVuq95CV9UPGEvpCxa")
	v.SetDefault("SLIPPAGE_BPS", 100)
	v.SetDefault("JUPITER_API_URL", "https://quote-api.jup.ag/v6")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "xdares.db")
	v.SetDefault("MONGO_DATABASE", "xdares")
	v.SetDefault("ICON_CACHE_TTL", "60s")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("BLINKSIGHTS_API_URL", "https://api.blinksights.xyz/api/v2")
	v.SetDefault("ACTION_URL", "https://xdares.catoff.xyz/api/actions")
	v.SetDefault("CREATE_ICON_URL", "https://blue-magnetic-wallaby-228.mypinata.cloud/ipfs/QmZbmeZF8hRaMjyzmN3khmvxdGenUMUPhn68YGMTnk5VYN")
	v.SetDefault("NOT_FOUND_ICON_URL", "https://blue-magnetic-wallaby-228.mypinata.cloud/ipfs/QmbmMN9i24taPpeT8BXRCzkh1SfvmMmYXotwyMQGUhdBTt")
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:              v.GetString("PORT"),
		Env:               v.GetString("ENV"),
		RPCURL:            v.GetString("SOLANA_RPC_URL"),
		Network:           v.GetString("SOLANA_NETWORK"),
		TreasuryAddr:      v.GetString("TREASURY_ADDRESS"),
		SendMint:          v.GetString("SEND_MINT"),
		SlippageBps:       v.GetInt("SLIPPAGE_BPS"),
		JupiterAPIURL:     strings.TrimRight(v.GetString("JUPITER_API_URL"), "/"),
		DatabaseDriver:    strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		MongoDatabase:     v.GetString("MONGO_DATABASE"),
		RedisURL:          v.GetString("REDIS_URL"),
		IconCacheTTL:      v.GetDuration("ICON_CACHE_TTL"),
		MailURL:           v.GetString("MAIL_URL"),
		LeaderboardURL:    strings.TrimRight(v.GetString("LEADERBOARD_URL"), "/"),
		HTTPTimeout:       v.GetDuration("HTTP_TIMEOUT"),
		BlinksightsAPIKey: v.GetString("BLINKSIGHTS_API_KEY"),
		BlinksightsAPIURL: strings.TrimRight(v.GetString("BLINKSIGHTS_API_URL"), "/"),
		ActionURL:         strings.TrimRight(v.GetString("ACTION_URL"), "/"),
		CreateIconURL:     v.GetString("CREATE_ICON_URL"),
		NotFoundIconURL:   v.GetString("NOT_FOUND_ICON_URL"),
	}

	if cfg.RPCURL == "" {
		key := v.GetString("HELIUS_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("missing env SOLANA_RPC_URL or HELIUS_API_KEY")
		}
		cfg.RPCURL = fmt.Sprintf(heliusMainnetURL, key)
	}
	if cfg.SlippageBps <= 0 {
		return nil, fmt.Errorf("invalid SLIPPAGE_BPS %d", cfg.SlippageBps)
	}
	switch cfg.DatabaseDriver {
	case "postgres", "mysql", "sqlite", "mongo":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
