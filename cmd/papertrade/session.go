package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/efreitasn/papertrade/internal/config"
	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/market"
	"github.com/efreitasn/papertrade/internal/service"
	"github.com/efreitasn/papertrade/internal/store"
)

// loadConfig reads the optional .env file and then the environment.
func loadConfig(envFile string) (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	return config.Load()
}

// newLogger builds the JSON slog logger for the configured level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// newSession wires the account, catalog, journal and price generator into
// a trading service.
func newSession(cfg *config.Config, logger *slog.Logger) (*service.TradingService, error) {
	instruments := market.DefaultInstruments()
	if cfg.CatalogFile != "" {
		var err error
		instruments, err = config.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
	}

	catalog, err := market.NewCatalog(instruments)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	account, err := domain.NewAccount(cfg.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}

	seed := cfg.PriceSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	logger.Info("session started",
		slog.String("cash", account.Cash().String()),
		slog.Int("instruments", catalog.Len()),
		slog.Uint64("seed", seed),
	)

	return service.NewTradingService(account, catalog, store.NewTradeStore(), rng, logger), nil
}
