package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/lox/chipswap/internal/game"
	"github.com/lox/chipswap/internal/randutil"
	"github.com/lox/chipswap/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"chipswap.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     int64  `help:"Deterministic shuffle seed (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Allow local overrides via a .env file, ignored when absent.
	_ = godotenv.Load()

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Seed != 0 {
		cfg.Server.Seed = CLI.Seed
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	rng := randutil.NewFromTime()
	if cfg.Server.Seed != 0 {
		rng = randutil.New(cfg.Server.Seed)
	}

	addr := cfg.GetServerAddress()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}

	logger.Info("Starting chipswap server", "addr", addr, "seeded", cfg.Server.Seed != 0)

	clock := quartz.NewReal()
	wsServer := server.NewServer(addr, clock, logger)
	coordinator := server.NewCoordinator(game.NewRegistry(), wsServer, rng, clock, logger)
	wsServer.SetCoordinator(coordinator)

	g, gctx := errgroup.WithContext(context.Background())

	g.Go(wsServer.Start)

	g.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigs:
			logger.Info("Shutting down server...")
			return wsServer.Stop()
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
}
