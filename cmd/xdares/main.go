package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"xdares/actions"
	"xdares/auth"
	"xdares/blinksights"
	"xdares/chainsol"
	"xdares/config"
	"xdares/jupiter"
	"xdares/leaderboard"
	"xdares/logging"
	"xdares/notify"
	"xdares/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("❌ failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	treasury, err := solana.PublicKeyFromBase58(cfg.TreasuryAddr)
	if err != nil {
		return err
	}
	sendMint, err := solana.PublicKeyFromBase58(cfg.SendMint)
	if err != nil {
		return err
	}

	// Initialize Sol client
	solChain := chainsol.NewSolChain(chainsol.Config{
		RPCURL:  cfg.RPCURL,
		Network: cfg.Network,
	})
	if err := solChain.HealthCheck(ctx); err != nil {
		logger.Warn("solana health check failed", zap.Error(err))
	}

	st, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.MongoDatabase, logger)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	tokens := auth.NewGoogleIDTokens()

	var icons leaderboard.IconSource
	if cfg.LeaderboardURL != "" {
		icons = leaderboard.NewClient(cfg.LeaderboardURL, tokens, cfg.HTTPTimeout)
		if cfg.RedisURL != "" {
			rdb, err := leaderboard.NewRedis(cfg.RedisURL)
			if err != nil {
				return err
			}
			defer rdb.Close()
			icons = leaderboard.NewCachedIcons(icons, rdb, cfg.IconCacheTTL, logger)
		}
	}

	var notifier actions.Notifier
	if cfg.MailURL != "" {
		notifier = notify.NewMailer(cfg.MailURL, tokens, cfg.HTTPTimeout)
	}

	svc := actions.NewService(actions.Settings{
		ActionURL:       cfg.ActionURL,
		CreateIconURL:   cfg.CreateIconURL,
		NotFoundIconURL: cfg.NotFoundIconURL,
		Treasury:        treasury,
		SendMint:        sendMint,
		SlippageBps:     cfg.SlippageBps,
		Network:         cfg.Network,
	}, solChain, jupiter.NewClient(cfg.JupiterAPIURL, cfg.HTTPTimeout), st, icons, notifier, logger)
	if cfg.BlinksightsAPIKey != "" {
		svc.WithAnalytics(blinksights.NewClient(cfg.BlinksightsAPIURL, cfg.BlinksightsAPIKey, cfg.HTTPTimeout))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           actions.NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 X Dares server starting",
			zap.String("port", cfg.Port),
			zap.String("network", solChain.Network()),
			zap.String("database", cfg.DatabaseDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
