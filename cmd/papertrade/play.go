package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/papertrade/internal/shell"
	"github.com/google/subcommands"
)

type playCmd struct {
	envFile string
}

func (*playCmd) Name() string     { return "play" }
func (*playCmd) Synopsis() string { return "trade interactively on stdin/stdout" }
func (*playCmd) Usage() string {
	return `papertrade play [-env <file>]

  Starts an interactive trading session. Logs go to stderr.
`
}

func (p *playCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.envFile, "env", "", "Path to a .env file. Defaults to .env in the working directory.")
}

func (p *playCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(p.envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return subcommands.ExitFailure
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)
	svc, err := newSession(cfg, logger)
	if err != nil {
		logger.Error("failed to start session", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := shell.New(svc, os.Stdin, os.Stdout).Run(ctx); err != nil {
		logger.Error("reading input failed", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}
	logger.Info("session ended", slog.Int("trades", len(svc.Trades())))
	return subcommands.ExitSuccess
}
