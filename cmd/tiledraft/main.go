package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tiledraft/tiledraft-go/internal/cli"
	"github.com/tiledraft/tiledraft-go/internal/config"
	"github.com/tiledraft/tiledraft-go/internal/inspect"
	"github.com/tiledraft/tiledraft-go/internal/match"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// .env is optional; values there act like real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting tiledraft",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	matches := match.NewManager(logger)
	m, err := matches.Create(cfg.Game.Options())
	if err != nil {
		logger.Fatal("failed to start match", zap.Error(err))
	}

	var srv *inspect.Server
	if cfg.Inspect.Address != "" {
		srv = inspect.New(matches, logger)
		go func() {
			if err := srv.Start(cfg.Inspect.Address); err != nil {
				logger.Error("inspect endpoint error", zap.Error(err))
			}
		}()
	}

	if err := play(ctx, m, os.Stdin, os.Stdout); err != nil {
		logger.Error("match aborted", zap.String("match_id", m.ID), zap.Error(err))
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("inspect shutdown", zap.Error(err))
		}
	}
	logger.Info("tiledraft stopped")
}

// play runs the hot-seat loop: render, read a move, apply it, until the
// match ends, input closes or ctx is cancelled.
func play(ctx context.Context, m *match.Match, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for !m.Ended() {
		snap := m.Snapshot()
		if err := cli.Render(out, snap.State); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s> factory,color,row: ", snap.State.Players[snap.State.CurrentPlayer].Name)

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		if cli.IsQuit(line) {
			return nil
		}
		draft, err := cli.ParseDraft(line)
		if err != nil {
			fmt.Fprintf(out, "Input error: %v\n", err)
			continue
		}
		outcome, err := m.Step(draft)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.DescribeOutcome(outcome))
	}

	snap := m.Snapshot()
	if err := cli.Render(out, snap.State); err != nil {
		return err
	}
	if err := cli.RenderResult(out, snap.State); err != nil {
		return err
	}
	return cli.RenderStats(out, snap.State, snap.Stats)
}

// initLogger builds a zap logger from the logging section. Unknown levels
// fall back to info.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
