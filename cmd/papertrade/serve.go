package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/papertrade/internal/handler"
	"github.com/google/subcommands"
)

type serveCmd struct {
	envFile     string
	healthcheck bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the trading session over HTTP" }
func (*serveCmd) Usage() string {
	return `papertrade serve [-env <file>] [-healthcheck]

  Serves a single trading session as a JSON API on PORT.
`
}

func (s *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.envFile, "env", "", "Path to a .env file. Defaults to .env in the working directory.")
	f.BoolVar(&s.healthcheck, "healthcheck", false, "Run health check against running server")
}

func (s *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(s.envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return subcommands.ExitFailure
	}

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if s.healthcheck {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/healthz", cfg.Port))
		if err != nil {
			return subcommands.ExitFailure
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	logger := newLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	svc, err := newSession(cfg, logger)
	if err != nil {
		logger.Error("failed to start session", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(svc, cfg.CORSOrigins, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for SIGINT/SIGTERM or a listener failure.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return subcommands.ExitFailure
		}
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}

	logger.Info("server stopped", slog.Int("trades", len(svc.Trades())))
	return subcommands.ExitSuccess
}
